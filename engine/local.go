package engine

import (
	"time"

	"github.com/rs/zerolog/log"

	"duel/agent"
	"duel/experiments/metrics"
	"duel/game"
)

// LocalEngine plays two agents against each other on one game instance,
// in-process. PlayerMax is driven by the first agent, PlayerMin by the
// second.
type LocalEngine struct {
	game     game.Game
	maxAgent agent.Agent
	minAgent agent.Agent
}

func NewLocalEngine(g game.Game, maxAgent, minAgent agent.Agent) *LocalEngine {
	if g.IsTerminal() {
		panic("engine: game is already over")
	}
	return &LocalEngine{game: g, maxAgent: maxAgent, minAgent: minAgent}
}

func (e *LocalEngine) Run() (game.Player, metrics.GameMetric, []metrics.MoveMetric) {
	start := time.Now()
	startingPlayer := e.game.Player()
	var moveMetrics []metrics.MoveMetric

	step := 0
	repetition := false
	for !e.game.IsTerminal() && step < MaxMoves {
		player := e.game.Player()
		mv, searchMetric := e.agentFor(player).FindMove(e.game)
		if !legal(e.game, mv) {
			log.Warn().Stringer("move", mv).Stringer("player", player).
				Msg("agent returned an illegal move, playing first legal instead")
			mv = e.game.Moves()[0]
		}

		e.game.Commit(mv)
		step++
		log.Debug().Int("step", step).Stringer("player", player).
			Stringer("move", mv).Msg("move played")

		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         step,
			Player:       player.String(),
			SearchMetric: searchMetric,
		})

		if repeated(e.game) {
			repetition = true
			log.Info().Int("step", step).Msg("position repeated, drawing the game")
			break
		}
	}

	winner := game.PlayerNone
	if !repetition && e.game.IsTerminal() {
		winner = e.game.Winner()
	}

	end := time.Now()
	gameMetric := metrics.GameMetric{
		StartingPlayer: startingPlayer.String(),
		Winner:         winner.String(),
		StartTime:      start,
		EndTime:        end,
		Duration:       end.Sub(start),
		TotalMoves:     step,
	}
	log.Info().Stringer("winner", winner).Int("moves", step).Msg("game over")

	return winner, gameMetric, moveMetrics
}

func (e *LocalEngine) agentFor(player game.Player) agent.Agent {
	if player == game.PlayerMax {
		return e.maxAgent
	}
	return e.minAgent
}

func legal(g game.Game, mv game.Move) bool {
	for _, candidate := range g.Moves() {
		if candidate == mv {
			return true
		}
	}
	return false
}

// repeated reports whether the game has returned to an earlier position.
func repeated(g game.Game) bool {
	key := g.StateKey()
	for _, seen := range g.History() {
		if seen == key {
			return true
		}
	}
	return false
}
