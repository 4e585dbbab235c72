package agent

import (
	"time"

	"golang.org/x/exp/rand"

	"duel/experiments/metrics"
	"duel/game"
	"duel/searcher"
)

// Agent picks a move for the side to move in g, without mutating it.
type Agent interface {
	FindMove(g game.Game) (game.Move, metrics.SearchMetric)
}

// Minimax plays with an iterative-deepening searcher under a fixed per-move
// time budget. The searcher's transposition table persists across moves, so
// later searches in the same game start warm.
type Minimax struct {
	searcher  *searcher.Minimax
	collector metrics.Collector
	timeout   time.Duration
}

func NewMinimax(timeout time.Duration, options ...searcher.Option) *Minimax {
	collector := metrics.NewCollector()
	options = append(options, searcher.WithMetrics(collector))
	return &Minimax{
		searcher:  searcher.New(options...),
		collector: collector,
		timeout:   timeout,
	}
}

func (a *Minimax) FindMove(g game.Game) (game.Move, metrics.SearchMetric) {
	answer, _ := a.searcher.GetMove(g, a.timeout)
	return answer.Move, metrics.Last(a.collector)
}

// Answer searches g like FindMove but returns the full search result and the
// depth reached, for callers that care about more than the move.
func (a *Minimax) Answer(g game.Game) (searcher.Answer, int) {
	return a.searcher.GetMove(g, a.timeout)
}

// Random plays a uniformly random legal move. A baseline opponent.
type Random struct {
	rng *rand.Rand
}

func NewRandom(seed uint64) *Random {
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

func (a *Random) FindMove(g game.Game) (game.Move, metrics.SearchMetric) {
	moves := g.Moves()
	return moves[a.rng.Intn(len(moves))], metrics.SearchMetric{}
}
