package searcher

import (
	"math"

	"duel/game"
)

// turnPerpetual marks an outcome that is never reached: a repetition that
// both sides can hold forever.
const turnPerpetual = math.MaxInt32

// Answer is the searcher's verdict for one position: the move to play, a
// MAX-favouring score, and how much to trust it.
type Answer struct {
	// Move is the chosen move. Meaningful only at non-terminal positions;
	// nil for terminal answers.
	Move game.Move

	// Score in [-1, +1], positive when PlayerMax is ahead.
	Score float64

	// Solved is true when the score is forced: the position is terminal, or
	// every continuation in the searched subtree has a known result.
	Solved bool

	// Winner is defined only when HasWinner. A solved score of 0 with no
	// winner is a draw by repetition.
	Winner    game.Player
	HasWinner bool

	// Turn is the absolute game turn at which the outcome is reached, or the
	// leaf turn for heuristic answers. turnPerpetual for repetitions.
	Turn int

	// Height is the remaining search depth when this answer was produced. A
	// cached answer is reusable only if its height covers the current search.
	Height int
}

// Perpetual reports a solved repetition: drawn, but with no winner.
func (a Answer) Perpetual() bool {
	return a.Solved && !a.HasWinner && a.Turn == turnPerpetual
}

// better reports whether a is strictly preferable to b for player p. Ties on
// score fall through a ladder: win sooner, lose later, deeper plan, and for
// mixed solvedness take the certain answer when not losing but keep the
// uncertain one when losing. A full tie keeps the earlier move.
func better(p game.Player, a, b Answer) bool {
	if a.Score != b.Score {
		if p == game.PlayerMax {
			return a.Score > b.Score
		}
		return a.Score < b.Score
	}

	win := float64(p)
	if a.Solved && b.Solved && a.Turn != b.Turn {
		if a.Score == win {
			return a.Turn < b.Turn
		}
		if a.Score == -win {
			return a.Turn > b.Turn
		}
	}

	if a.Solved == b.Solved {
		return a.Height > b.Height
	}

	losing := (p == game.PlayerMax && a.Score < 0) || (p == game.PlayerMin && a.Score > 0)
	if losing {
		return !a.Solved
	}
	return a.Solved
}
