package searcher

/* spec:
- terminal positions score as their winner, solved, at the current turn
- repetitions (on the path or in the game history) are solved draws with no winner
- forced wins are taken by the fastest line, forced losses by the slowest
- pruning does not change the root score
- tic-tac-toe end to end: proven draw, one-move win, block, warm cache,
  solved stability
- connect four budgets: soft budget, monotone depth, zero-budget fallback
*/

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"duel/game"
	"duel/game/connectfour"
	"duel/game/tictactoe"
)

// treeGame is a game defined literally as a graph of numbered nodes. The
// node id is the state key, so edges pointing at an earlier node model
// repetitions.
type treeMove struct {
	to int
}

func (m treeMove) String() string {
	return fmt.Sprintf("->%d", m.to)
}

type treeNode struct {
	player   game.Player
	terminal bool
	winner   game.Player
	eval     float64
	children []int
}

type treeGame struct {
	nodes map[int]treeNode
	stack []int
	past  []game.StateKey
}

func newTreeGame(nodes map[int]treeNode, root int) *treeGame {
	return &treeGame{nodes: nodes, stack: []int{root}}
}

func (g *treeGame) current() treeNode {
	return g.nodes[g.stack[len(g.stack)-1]]
}

func (g *treeGame) Player() game.Player {
	return g.current().player
}

func (g *treeGame) StateKey() game.StateKey {
	return game.StateKey(g.stack[len(g.stack)-1])
}

func (g *treeGame) Moves() []game.Move {
	node := g.current()
	if node.terminal {
		return nil
	}
	moves := make([]game.Move, len(node.children))
	for i, child := range node.children {
		moves[i] = treeMove{to: child}
	}
	return moves
}

func (g *treeGame) IsTerminal() bool {
	return g.current().terminal
}

func (g *treeGame) Winner() game.Player {
	return g.current().winner
}

func (g *treeGame) Evaluate() float64 {
	return g.current().eval
}

func (g *treeGame) Commit(mv game.Move) {
	g.past = append(g.past, g.StateKey())
	g.stack = append(g.stack, mv.(treeMove).to)
}

func (g *treeGame) Undo() {
	g.stack = g.stack[:len(g.stack)-1]
	g.past = g.past[:len(g.past)-1]
}

func (g *treeGame) Turn() int {
	return len(g.stack)
}

func (g *treeGame) History() []game.StateKey {
	history := make([]game.StateKey, len(g.past))
	copy(history, g.past)
	return history
}

func (g *treeGame) Clone() game.Game {
	clone := &treeGame{nodes: g.nodes}
	clone.stack = append([]int(nil), g.stack...)
	clone.past = append([]game.StateKey(nil), g.past...)
	return clone
}

func TestSolveTerminalScoring(t *testing.T) {
	for _, winner := range []game.Player{game.PlayerMax, game.PlayerMin, game.PlayerNone} {
		t.Run(fmt.Sprintf("winner %v", winner), func(t *testing.T) {
			m := New()
			m.game = newTreeGame(map[int]treeNode{
				0: {terminal: true, winner: winner},
			}, 0)

			ans := m.solve(2*float64(game.PlayerMin), 2*float64(game.PlayerMax), 5)

			require.Equal(t, float64(winner), ans.Score, "terminal score should equal the winner value")
			require.True(t, ans.Solved, "terminal answers are always solved")
			require.True(t, ans.HasWinner, "terminal answers always know the winner")
			require.Equal(t, winner, ans.Winner, "terminal answers carry the winner")
			require.Equal(t, 1, ans.Turn, "terminal answers end at the current turn")
		})
	}
}

func TestGetMoveOnTerminalPanics(t *testing.T) {
	g := newTreeGame(map[int]treeNode{0: {terminal: true}}, 0)

	require.Panics(t, func() {
		New().GetMove(g, time.Second)
	}, "asking for a move with no moves available is a programmer error")
}

func TestCycleIsDraw(t *testing.T) {
	// Four positions shuffling into each other forever; no terminal at all.
	g := newTreeGame(map[int]treeNode{
		0: {player: game.PlayerMax, children: []int{1}},
		1: {player: game.PlayerMin, children: []int{2}},
		2: {player: game.PlayerMax, children: []int{3}},
		3: {player: game.PlayerMin, children: []int{0}},
	}, 0)

	ans, _ := New().GetMove(g, time.Second)

	require.True(t, ans.Solved, "a pure cycle should be fully resolved")
	require.Equal(t, 0.0, ans.Score, "perpetual play is a draw")
	require.False(t, ans.HasWinner, "a repetition draw has no winner")
	require.True(t, ans.Perpetual(), "the outcome should read as perpetual")
	require.Equal(t, treeMove{to: 1}, ans.Move, "the only move must be returned")
}

func TestHistorySeededRepetition(t *testing.T) {
	// Play 0 -> 1 -> 2, then search at 2. Moving back to 0 re-reaches a
	// historical position and must read as a draw, which beats the proven
	// loss behind the other move.
	g := newTreeGame(map[int]treeNode{
		0: {player: game.PlayerMax, children: []int{1}},
		1: {player: game.PlayerMin, children: []int{2}},
		2: {player: game.PlayerMax, children: []int{3, 0}},
		3: {terminal: true, winner: game.PlayerMin},
	}, 0)
	g.Commit(treeMove{to: 1})
	g.Commit(treeMove{to: 2})

	ans, _ := New().GetMove(g, time.Second)

	require.Equal(t, treeMove{to: 0}, ans.Move, "returning to a past position should be preferred over losing")
	require.Equal(t, 0.0, ans.Score, "the repetition is a draw")
	require.True(t, ans.Solved, "the repetition branch is final")
	require.False(t, ans.HasWinner, "a repetition draw has no winner")
}

func TestForcedWinPrefersQuick(t *testing.T) {
	// The first move wins by force in two plies, the second immediately.
	g := newTreeGame(map[int]treeNode{
		0: {player: game.PlayerMax, children: []int{1, 2}},
		1: {player: game.PlayerMin, children: []int{3}},
		2: {terminal: true, winner: game.PlayerMax},
		3: {terminal: true, winner: game.PlayerMax},
	}, 0)

	ans, _ := New().GetMove(g, time.Second)

	require.Equal(t, treeMove{to: 2}, ans.Move, "the immediate win should be preferred")
	require.True(t, ans.Solved, "a forced win is solved")
	require.Equal(t, float64(game.PlayerMax), ans.Score, "a forced win scores as the winner")
	require.Equal(t, 2, ans.Turn, "the win lands on the next turn")
}

func TestForcedLossDelayed(t *testing.T) {
	// Both moves lose by force, in two plies or in four. The slower loss
	// must be chosen.
	g := newTreeGame(map[int]treeNode{
		0: {player: game.PlayerMax, children: []int{1, 3}},
		1: {player: game.PlayerMin, children: []int{2}},
		2: {terminal: true, winner: game.PlayerMin},
		3: {player: game.PlayerMin, children: []int{4}},
		4: {player: game.PlayerMax, children: []int{5}},
		5: {player: game.PlayerMin, children: []int{6}},
		6: {terminal: true, winner: game.PlayerMin},
	}, 0)

	ans, _ := New().GetMove(g, 2*time.Second)

	require.Equal(t, treeMove{to: 3}, ans.Move, "the slower loss should be preferred")
	require.True(t, ans.Solved, "a forced loss is solved")
	require.Equal(t, float64(game.PlayerMin), ans.Score, "a forced loss scores as the winner")
	require.Equal(t, game.PlayerMin, ans.Winner, "the opponent wins the line")
	require.Equal(t, 5, ans.Turn, "the loss should land as late as possible")
}

func TestPruningKeepsRootScore(t *testing.T) {
	nodes := map[int]treeNode{
		0: {player: game.PlayerMax, children: []int{1, 2, 3}},
		1: {player: game.PlayerMin, children: []int{4, 5, 6}},
		2: {player: game.PlayerMin, children: []int{7, 8, 9}},
		3: {player: game.PlayerMin, children: []int{10, 11, 12}},

		4:  {terminal: true, winner: game.PlayerMax},
		5:  {terminal: true, winner: game.PlayerMin},
		6:  {terminal: true, winner: game.PlayerNone},
		7:  {terminal: true, winner: game.PlayerNone},
		8:  {terminal: true, winner: game.PlayerNone},
		9:  {terminal: true, winner: game.PlayerMax},
		10: {terminal: true, winner: game.PlayerMax},
		11: {terminal: true, winner: game.PlayerNone},
		12: {terminal: true, winner: game.PlayerMax},
	}

	pruning, _ := New(WithMaxDepth(3)).GetMove(newTreeGame(nodes, 0), time.Second)
	plain, _ := New(WithMaxDepth(3), WithPruning(false)).GetMove(newTreeGame(nodes, 0), time.Second)

	require.Equal(t, plain.Score, pruning.Score, "pruning must not change the root score")
	require.Equal(t, plain.Solved, pruning.Solved, "pruning must not change solvedness here")
	require.Equal(t, 0.0, pruning.Score, "the position is a draw by minimax")
}

func TestTicTacToeProvenDraw(t *testing.T) {
	ans, _ := New().GetMove(tictactoe.New(), 2*time.Second)

	require.True(t, ans.Solved, "tic-tac-toe from empty should be solved in the budget")
	require.Equal(t, 0.0, ans.Score, "tic-tac-toe is a proven draw")
	require.True(t, ans.HasWinner, "the draw comes from real terminals, not repetitions")
	require.Equal(t, game.PlayerNone, ans.Winner, "nobody wins tic-tac-toe")
}

func TestTicTacToeOneMoveWin(t *testing.T) {
	g := tictactoe.New()
	g.Commit(tictactoe.Move{X: 0, Y: 0}) // x
	g.Commit(tictactoe.Move{X: 1, Y: 0}) // o
	g.Commit(tictactoe.Move{X: 0, Y: 1}) // x
	g.Commit(tictactoe.Move{X: 2, Y: 0}) // o

	turn := g.Turn()
	ans, _ := New().GetMove(g, time.Second)

	require.Equal(t, tictactoe.Move{X: 0, Y: 2}, ans.Move, "crosses should complete the top row")
	require.True(t, ans.Solved, "a one-move win is solved")
	require.Equal(t, game.PlayerMax, ans.Winner, "crosses win")
	require.Equal(t, turn+1, ans.Turn, "the win lands on the very next turn")
}

func TestTicTacToeBlock(t *testing.T) {
	g := tictactoe.New()
	g.Commit(tictactoe.Move{X: 0, Y: 0}) // x
	g.Commit(tictactoe.Move{X: 1, Y: 1}) // o
	g.Commit(tictactoe.Move{X: 0, Y: 1}) // x threatens the top row

	ans, _ := New().GetMove(g, time.Second)

	require.Equal(t, tictactoe.Move{X: 0, Y: 2}, ans.Move, "noughts must block the top row")
}

func TestWarmCacheIsStable(t *testing.T) {
	m := New()
	g := tictactoe.New()

	first, firstDepth := m.GetMove(g, time.Second)
	second, secondDepth := m.GetMove(g, time.Second)

	require.Equal(t, first.Move, second.Move, "a cached position must yield the same move")
	require.Equal(t, first.Score, second.Score, "a cached position must yield the same score")
	require.True(t, second.Solved, "the cached result stays solved")
	require.LessOrEqual(t, secondDepth, firstDepth, "the cached call should stop deepening immediately")
}

func TestSolvedStability(t *testing.T) {
	g := tictactoe.New()
	g.Commit(tictactoe.Move{X: 0, Y: 0})
	g.Commit(tictactoe.Move{X: 1, Y: 0})
	g.Commit(tictactoe.Move{X: 0, Y: 1})
	g.Commit(tictactoe.Move{X: 2, Y: 0})

	m := New()
	first, _ := m.GetMove(g, time.Second)
	require.True(t, first.Solved, "the position should be solved in the budget")

	second, _ := m.GetMove(g, time.Second)
	require.True(t, second.Solved, "a solved position must stay solved")
	require.Equal(t, first.Winner, second.Winner, "a solved winner must not change")
}

func TestBudgetIsSoft(t *testing.T) {
	timeout := 300 * time.Millisecond

	start := time.Now()
	ans, _ := New().GetMove(connectfour.New(), timeout)
	elapsed := time.Since(start)

	require.NotNil(t, ans.Move, "a move must come back whatever the budget")
	require.Less(t, elapsed, 2*time.Second, "the overrun must stay within the slack regime")
}

func TestDeeperBudgetSearchesDeeper(t *testing.T) {
	_, shallow := New().GetMove(connectfour.New(), 30*time.Millisecond)
	_, deep := New().GetMove(connectfour.New(), 500*time.Millisecond)

	require.GreaterOrEqual(t, deep, shallow, "a larger budget must not search shallower")
}

func TestZeroBudgetStillReturnsALegalMove(t *testing.T) {
	g := connectfour.New()
	ans, depth := New().GetMove(g, 0)

	require.Equal(t, 0, depth, "with no budget only the first iteration runs")
	require.Contains(t, g.Moves(), ans.Move, "the fallback move must be legal")
	require.False(t, ans.Solved, "a horizon answer is heuristic")
	require.InDelta(t, 0, ans.Score, 1, "heuristic scores stay in range")
}
