package searcher

import (
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"duel/experiments/metrics"
	"duel/game"
)

// DefaultSlack is how far past the timeout a search may run: the driver only
// checks the clock between deepening iterations, so the budget is soft.
const DefaultSlack = 1.5

type Option func(m *Minimax)

// WithSlack sets the soft-timeout multiplier.
func WithSlack(slack float64) Option {
	return func(m *Minimax) {
		if slack >= 1 {
			m.slack = slack
		}
	}
}

// WithMaxDepth caps the deepening. Zero means unbounded.
func WithMaxDepth(depth int) Option {
	return func(m *Minimax) {
		if depth > 0 {
			m.maxDepth = depth
		}
	}
}

// WithPruning toggles alpha-beta pruning. Turning it off makes the search a
// plain minimax; useful for checking that pruning does not change root
// scores.
func WithPruning(enabled bool) Option {
	return func(m *Minimax) {
		m.prune = enabled
	}
}

func WithMetrics(collector metrics.Collector) Option {
	return func(m *Minimax) {
		if collector != nil {
			m.metrics = collector
		}
	}
}

// Minimax is an iterative-deepening alpha-beta searcher over any game.Game.
// The transposition table persists across GetMove calls, so consecutive
// searches in one game warm each other up. Not safe for concurrent use.
type Minimax struct {
	table   *table
	onPath  *pathSet
	metrics metrics.Collector

	slack    float64
	maxDepth int
	prune    bool

	// Search-scoped state, valid only inside GetMove.
	game          game.Game
	internalMoves int
	leafMoves     int
}

func New(options ...Option) *Minimax {
	m := &Minimax{
		table:   newTable(),
		onPath:  newPathSet(),
		metrics: metrics.NewDummyCollector(),
		slack:   DefaultSlack,
		prune:   true,
	}
	for _, option := range options {
		option(m)
	}
	return m
}

// GetMove returns the best move for the side to move in g, together with the
// deepest completed search depth. It blocks for up to roughly slack times
// the timeout. The snapshot g is cloned and never mutated; its history seeds
// repetition detection, so returning the game to a past position counts as a
// draw. Answer.Solved reports whether the outcome is forced rather than
// estimated.
//
// Calling GetMove on a terminal position is a programmer error and panics.
func (m *Minimax) GetMove(g game.Game, timeout time.Duration) (Answer, int) {
	if g.IsTerminal() {
		panic("searcher: GetMove on a terminal position")
	}

	m.game = g.Clone()
	m.onPath.reset()
	m.onPath.seed(g.History())
	// The position being searched must not read as its own repetition, even
	// if the game has been here before.
	m.onPath.remove(g.StateKey())
	m.metrics.Start()

	start := time.Now()
	budget := time.Duration(m.slack * float64(timeout))
	depth := 0

	var ans Answer
	for {
		m.internalMoves = 0
		m.leafMoves = 0

		iterStart := time.Now()
		ans = m.solve(2*float64(game.PlayerMin), 2*float64(game.PlayerMax), depth)
		iterTime := time.Since(iterStart)
		m.metrics.AddIteration(depth, iterTime, m.internalMoves, m.leafMoves)

		if ans.Solved {
			break
		}
		if m.maxDepth > 0 && depth >= m.maxDepth {
			break
		}

		// Predict the next iteration from the measured branching factor. No
		// internal moves means the whole iteration came from the table; the
		// next one is free to try.
		var next time.Duration
		if m.internalMoves > 0 {
			growth := float64(m.internalMoves+m.leafMoves) / float64(m.internalMoves)
			next = time.Duration(float64(iterTime) * growth)
		}
		if time.Since(start)+next > budget {
			break
		}

		depth++
	}

	m.onPath.reset()
	m.metrics.Complete(depth, ans.Solved, m.table.len())
	if m.table.len() >= tableCap {
		log.Debug().Int("entries", m.table.len()).Msg("transposition table full, clearing")
		m.table.clear()
	}
	m.game = nil

	return ans, depth
}

// solve runs alpha-beta on the searcher's private game copy, mutating it via
// balanced Commit/Undo pairs. height is the remaining depth.
func (m *Minimax) solve(alpha, beta float64, height int) Answer {
	if m.game.IsTerminal() {
		winner := m.game.Winner()
		return Answer{
			Score:     float64(winner),
			Solved:    true,
			Winner:    winner,
			HasWinner: true,
			Turn:      m.game.Turn(),
		}
	}

	moves := m.game.Moves()
	if len(moves) == 0 {
		panic("game: non-terminal position with no legal moves")
	}
	key := m.game.StateKey()

	// A position already open on the path is a repetition: both sides can
	// hold the draw, and this branch offers nothing new, so it is final.
	if m.onPath.contains(key) {
		return Answer{Move: moves[0], Score: 0, Solved: true, Turn: turnPerpetual}
	}

	// A cached answer is reusable if it is final or was searched at least as
	// deep as we are about to.
	if cached, ok := m.table.get(key); ok && (cached.Solved || cached.Height >= height) {
		return cached
	}

	if height <= 0 {
		m.leafMoves += len(moves)
		score := m.game.Evaluate()
		if score < float64(game.PlayerMin) || score > float64(game.PlayerMax) {
			panic("game: evaluation out of range")
		}
		return Answer{
			Move:  moves[0],
			Score: game.ClampHeuristic(score),
			Turn:  m.game.Turn(),
		}
	}

	player := m.game.Player()
	if player != game.PlayerMax && player != game.PlayerMin {
		panic("game: no player to move at a non-terminal position")
	}

	m.onPath.add(key)
	m.internalMoves += len(moves)

	// Sentinel score outside the valid range; the first child always wins.
	best := Answer{Score: 2 * float64(player.Enemy())}
	nonSolved := 0
	pruned := false

	for _, mv := range moves {
		turnBefore := m.game.Turn()
		m.game.Commit(mv)
		child := m.solve(alpha, beta, height-1)
		m.game.Undo()
		if m.game.Turn() != turnBefore {
			panic("game: unbalanced Commit/Undo")
		}

		if !child.Solved {
			nonSolved++
		}
		if better(player, child, best) {
			best = child
			best.Move = mv
		}

		if !m.prune {
			continue
		}
		if player == game.PlayerMax {
			alpha = math.Max(alpha, child.Score)
		} else {
			beta = math.Min(beta, child.Score)
		}
		if alpha == float64(game.PlayerMax) || beta == float64(game.PlayerMin) || beta <= alpha {
			pruned = true
			break
		}
	}

	m.onPath.remove(key)

	// A full expansion is final when the mover forces their own win or every
	// child is final. A pruned one inherits whatever the best child knew.
	if !pruned {
		best.Solved = best.Score == float64(player) || nonSolved == 0
	}

	best.Height = height
	m.table.put(key, best)
	return best
}
