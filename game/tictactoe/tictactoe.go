// Package tictactoe implements 3x3 tic-tac-toe as a game.Game. Crosses are
// PlayerMax and move first. The state is small enough to pack exactly: nine
// base-3 cells plus the side to move.
package tictactoe

import (
	"fmt"

	"duel/game"
)

const size = 3

// Move places the mover's piece on cell (X, Y).
type Move struct {
	X, Y int
}

func (m Move) String() string {
	return fmt.Sprintf("(%d, %d)", m.X, m.Y)
}

type Game struct {
	board  [size][size]game.Player
	player game.Player
	turn   int
	past   []game.StateKey
	log    []Move
}

// New returns an empty board with crosses to move.
func New() *Game {
	return &Game{player: game.PlayerMax, turn: 1}
}

func (g *Game) Player() game.Player {
	return g.player
}

func (g *Game) StateKey() game.StateKey {
	var packed game.StateKey
	pow := game.StateKey(1)
	for x := 0; x < size; x++ {
		for y := 0; y < size; y++ {
			var digit game.StateKey
			switch g.board[x][y] {
			case game.PlayerMax:
				digit = 0
			case game.PlayerMin:
				digit = 1
			default:
				digit = 2
			}
			packed += digit * pow
			pow *= 3
		}
	}
	packed <<= 1
	if g.player == game.PlayerMin {
		packed |= 1
	}
	return packed
}

func (g *Game) Moves() []game.Move {
	if g.lineOwner() != game.PlayerNone {
		return nil
	}
	var moves []game.Move
	for x := 0; x < size; x++ {
		for y := 0; y < size; y++ {
			if g.board[x][y] == game.PlayerNone {
				moves = append(moves, Move{X: x, Y: y})
			}
		}
	}
	return moves
}

func (g *Game) IsTerminal() bool {
	return len(g.Moves()) == 0
}

func (g *Game) Winner() game.Player {
	return g.lineOwner()
}

func (g *Game) Evaluate() float64 {
	return 0
}

func (g *Game) Commit(mv game.Move) {
	m := mv.(Move)
	if g.board[m.X][m.Y] != game.PlayerNone {
		panic("tictactoe: cell already occupied")
	}
	g.past = append(g.past, g.StateKey())
	g.log = append(g.log, m)
	g.board[m.X][m.Y] = g.player
	g.player = g.player.Enemy()
	g.turn++
}

func (g *Game) Undo() {
	if len(g.log) == 0 {
		panic("tictactoe: Undo with no committed move")
	}
	m := g.log[len(g.log)-1]
	g.log = g.log[:len(g.log)-1]
	g.past = g.past[:len(g.past)-1]
	g.board[m.X][m.Y] = game.PlayerNone
	g.player = g.player.Enemy()
	g.turn--
}

func (g *Game) Turn() int {
	return g.turn
}

func (g *Game) History() []game.StateKey {
	history := make([]game.StateKey, len(g.past))
	copy(history, g.past)
	return history
}

func (g *Game) Clone() game.Game {
	clone := *g
	clone.past = append([]game.StateKey(nil), g.past...)
	clone.log = append([]Move(nil), g.log...)
	return &clone
}

// lineOwner returns the player holding a full row, column or diagonal.
func (g *Game) lineOwner() game.Player {
	for i := 0; i < size; i++ {
		if p := g.board[i][0]; p != game.PlayerNone && p == g.board[i][1] && p == g.board[i][2] {
			return p
		}
		if p := g.board[0][i]; p != game.PlayerNone && p == g.board[1][i] && p == g.board[2][i] {
			return p
		}
	}
	if p := g.board[0][0]; p != game.PlayerNone && p == g.board[1][1] && p == g.board[2][2] {
		return p
	}
	if p := g.board[0][2]; p != game.PlayerNone && p == g.board[1][1] && p == g.board[2][0] {
		return p
	}
	return game.PlayerNone
}

func (g *Game) String() string {
	pieces := map[game.Player]string{
		game.PlayerMax:  "x",
		game.PlayerMin:  "o",
		game.PlayerNone: ".",
	}
	var s string
	for x := 0; x < size; x++ {
		for y := 0; y < size; y++ {
			s += pieces[g.board[x][y]]
		}
		s += "\n"
	}
	return s
}
