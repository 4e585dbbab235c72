package experiments

import (
	"time"

	"github.com/rs/zerolog/log"

	"duel/agent"
	"duel/engine"
	"duel/experiments/metrics"
	"duel/game"
	"duel/game/connectfour"
	"duel/game/mutorere"
	"duel/game/tictactoe"
	"duel/searcher"
)

const NumGames = 10 // Per match up

var budgetConfigs = []metrics.AgentConfig{
	{ID: 1, Kind: "minimax", Timeout: 10 * time.Millisecond},
	{ID: 2, Kind: "minimax", Timeout: 50 * time.Millisecond},
	{ID: 3, Kind: "minimax", Timeout: 200 * time.Millisecond},
	{ID: 4, Kind: "minimax", Timeout: 500 * time.Millisecond},
}

var games = map[string]func() game.Game{
	"tictactoe":   func() game.Game { return tictactoe.New() },
	"connectfour": func() game.Game { return connectfour.New() },
	"mutorere":    func() game.Game { return mutorere.New() },
}

// RunBudgetExperiment pits each budget config against the baseline random
// agent on every bundled game, recording how the time budget translates to
// depth and strength.
func RunBudgetExperiment() {
	baseline := metrics.AgentConfig{ID: 0, Kind: "random"}
	matchUps := [][]metrics.AgentConfig{}
	for _, config := range budgetConfigs {
		matchUps = append(matchUps, []metrics.AgentConfig{config, baseline})
	}

	runExperiment("budget_to_strength", append(budgetConfigs, baseline), matchUps)
}

// RunMirrorExperiment plays each budget config against itself; on solved
// games every mirror match should be the theoretical result.
func RunMirrorExperiment() {
	matchUps := [][]metrics.AgentConfig{}
	for _, config := range budgetConfigs {
		matchUps = append(matchUps, []metrics.AgentConfig{config, config})
	}

	runExperiment("mirror", budgetConfigs, matchUps)
}

func runExperiment(name string, configs []metrics.AgentConfig, matchUps [][]metrics.AgentConfig) {
	writer, err := metrics.NewWriter(name)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create metrics writer")
	}
	if err := writer.WriteAgentConfigs(configs); err != nil {
		log.Fatal().Err(err).Msg("failed to write agent configs")
	}

	var gameRecords []metrics.GameRecord
	var moveRecords []metrics.MoveRecord
	gameID := 0

	for gameName, newGame := range games {
		for _, matchUp := range matchUps {
			for i := 0; i < NumGames; i++ {
				gameID++
				e := engine.NewLocalEngine(newGame(), newAgent(matchUp[0]), newAgent(matchUp[1]))
				_, gameMetric, moveMetrics := e.Run()

				gameRecords = append(gameRecords, metrics.GameRecord{
					ID:         gameID,
					Game:       gameName,
					Agent1:     matchUp[0].ID,
					Agent2:     matchUp[1].ID,
					GameMetric: gameMetric,
				})
				for _, moveMetric := range moveMetrics {
					moveRecords = append(moveRecords, metrics.MoveRecord{
						Game:       gameID,
						MoveMetric: moveMetric,
					})
				}
			}
		}
	}

	if err := writer.WriteGameRecords(gameRecords); err != nil {
		log.Fatal().Err(err).Msg("failed to write game records")
	}
	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		log.Fatal().Err(err).Msg("failed to write move records")
	}
}

func newAgent(config metrics.AgentConfig) agent.Agent {
	switch config.Kind {
	case "random":
		return agent.NewRandom(uint64(config.ID) + 1)
	default:
		options := []searcher.Option{}
		if config.MaxDepth > 0 {
			options = append(options, searcher.WithMaxDepth(config.MaxDepth))
		}
		return agent.NewMinimax(config.Timeout, options...)
	}
}
