package mutorere

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"duel/game"
	"duel/searcher"
)

func TestNewGame(t *testing.T) {
	g := New()

	require.Equal(t, game.PlayerMax, g.Player(), "white moves first")
	require.Equal(t, 1, g.Turn())
	require.False(t, g.IsTerminal(), "the opening position always has moves")
}

func TestOpeningMoves(t *testing.T) {
	g := New()

	// With the putahi empty, only pawns adjacent to an enemy may enter it:
	// of white's pawns on 0..3, just the two bordering black.
	require.Equal(t, []game.Move{Move{Pos: 0}, Move{Pos: 3}}, g.Moves(),
		"only the boundary pawns can move first")
}

func TestCommitUndoRoundTrip(t *testing.T) {
	g := New()
	key := g.StateKey()

	g.Commit(Move{Pos: 3})
	require.Equal(t, game.PlayerMin, g.Player())
	require.Equal(t, 2, g.Turn())
	require.Len(t, g.History(), 1)

	g.Undo()
	require.Equal(t, key, g.StateKey(), "undo must restore the exact position")
	require.Equal(t, game.PlayerMax, g.Player())
	require.Empty(t, g.History())
}

func TestInvalidCommitPanics(t *testing.T) {
	g := New()

	require.Panics(t, func() {
		g.Commit(Move{Pos: 1}) // pawn 1 has no enemy neighbour
	}, "committing an illegal move is a programmer error")
}

func TestStateKeyIncludesMover(t *testing.T) {
	g := New()
	require.EqualValues(t, 0, g.StateKey()&1, "white to move clears the mover bit")

	g.Commit(Move{Pos: 0})
	require.EqualValues(t, 1, g.StateKey()&1, "black to move sets the mover bit")
}

func TestEvaluateStaysInRange(t *testing.T) {
	g := New()
	for i := 0; i < 6; i++ {
		score := g.Evaluate()
		require.Greater(t, score, float64(game.PlayerMin))
		require.Less(t, score, float64(game.PlayerMax))
		g.Commit(g.Moves()[0])
	}
}

func TestSearcherFindsALegalMove(t *testing.T) {
	g := New()
	ans, _ := searcher.New().GetMove(g, 50*time.Millisecond)

	require.Contains(t, g.Moves(), ans.Move, "the searcher must return a legal move")
	require.Greater(t, ans.Score, float64(game.PlayerMin), "mu torere never looks decisive from the start")
	require.Less(t, ans.Score, float64(game.PlayerMax), "mu torere never looks decisive from the start")
}
