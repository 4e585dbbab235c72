package main

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"duel/agent"
	"duel/engine"
	"duel/game"
	"duel/game/connectfour"
	"duel/game/mutorere"
	"duel/game/tictactoe"
)

type matchUp struct {
	name     string
	newGame  func() game.Game
	timeout  time.Duration
	numGames int
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	matchUps := []matchUp{
		{name: "tictactoe", newGame: func() game.Game { return tictactoe.New() }, timeout: 500 * time.Millisecond, numGames: 4},
		{name: "connectfour", newGame: func() game.Game { return connectfour.New() }, timeout: 200 * time.Millisecond, numGames: 4},
		{name: "mutorere", newGame: func() game.Game { return mutorere.New() }, timeout: 100 * time.Millisecond, numGames: 4},
	}

	for _, m := range matchUps {
		fmt.Printf("%s: %d games, %v per move\n", m.name, m.numGames, m.timeout)

		var mu sync.Mutex
		tally := map[game.Player]int{}

		var group errgroup.Group
		for i := 0; i < m.numGames; i++ {
			group.Go(func() error {
				e := engine.NewLocalEngine(m.newGame(),
					agent.NewMinimax(m.timeout),
					agent.NewMinimax(m.timeout))
				winner, _, _ := e.Run()

				mu.Lock()
				tally[winner]++
				mu.Unlock()
				return nil
			})
		}
		if err := group.Wait(); err != nil {
			log.Fatal().Err(err).Msg("match up failed")
		}

		fmt.Printf("  max wins: %d, min wins: %d, draws: %d\n",
			tally[game.PlayerMax], tally[game.PlayerMin], tally[game.PlayerNone])
	}
}
