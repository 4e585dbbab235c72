package engine

import (
	"duel/experiments/metrics"
	"duel/game"
)

// MaxMoves stops games that neither side can finish.
const MaxMoves = 10000

type Engine interface {
	// Run plays a game to termination, repetition draw, or MaxMoves, and
	// returns the winner (PlayerNone for a draw) with its metrics.
	Run() (winner game.Player, gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric)
}
