// Package mutorere implements mu torere, the Maori two-player game on an
// eight-pointed star with a central putahi. White is PlayerMax and moves
// first. A player who cannot move loses; with sensible play the game cycles
// forever, which makes it a natural exercise for repetition detection.
package mutorere

import (
	"fmt"

	"duel/game"
)

const (
	points = 8      // cells 0..7 around the circle
	putahi = points // index of the centre cell
)

// Move slides the mover's pawn from Pos to the single empty cell.
type Move struct {
	Pos int
}

func (m Move) String() string {
	return fmt.Sprintf("(%d)", m.Pos)
}

type record struct {
	from, to int
}

type Game struct {
	board  [points + 1]game.Player
	player game.Player
	turn   int
	past   []game.StateKey
	log    []record
}

// New sets up the initial position: white on points 0..3, black on 4..7,
// putahi empty, white to move.
func New() *Game {
	g := &Game{player: game.PlayerMax, turn: 1}
	for p := 0; p < points/2; p++ {
		g.board[p] = game.PlayerMax
	}
	for p := points / 2; p < points; p++ {
		g.board[p] = game.PlayerMin
	}
	return g
}

func (g *Game) Player() game.Player {
	return g.player
}

func (g *Game) StateKey() game.StateKey {
	var packed game.StateKey
	pow := game.StateKey(1)
	for i := 0; i <= points; i++ {
		var digit game.StateKey
		switch g.board[i] {
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
	packed <<= 1
	if g.player == game.PlayerMin {
		packed |= 1
	}
	return packed
}

func (g *Game) Moves() []game.Move {
	return g.movesFor(g.player)
}

func (g *Game) IsTerminal() bool {
	return len(g.Moves()) == 0
}

// Winner is the side that left the mover without a move.
func (g *Game) Winner() game.Player {
	return g.player.Enemy()
}

// Evaluate compares pawn mobility, favouring PlayerMax.
func (g *Game) Evaluate() float64 {
	mobility := len(g.movesFor(game.PlayerMax)) - len(g.movesFor(game.PlayerMin))
	return game.ClampHeuristic(float64(mobility) / float64(points))
}

func (g *Game) Commit(mv game.Move) {
	m := mv.(Move)
	if !g.valid(g.player, m.Pos) {
		panic("mutorere: invalid move committed")
	}
	empty := g.emptyCell()
	g.past = append(g.past, g.StateKey())
	g.log = append(g.log, record{from: m.Pos, to: empty})
	g.board[empty] = g.board[m.Pos]
	g.board[m.Pos] = game.PlayerNone
	g.player = g.player.Enemy()
	g.turn++
}

func (g *Game) Undo() {
	if len(g.log) == 0 {
		panic("mutorere: Undo with no committed move")
	}
	r := g.log[len(g.log)-1]
	g.log = g.log[:len(g.log)-1]
	g.past = g.past[:len(g.past)-1]
	g.board[r.from] = g.board[r.to]
	g.board[r.to] = game.PlayerNone
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
	clone.log = append([]record(nil), g.log...)
	return &clone
}

func (g *Game) movesFor(player game.Player) []game.Move {
	var moves []game.Move
	for p := 0; p <= points; p++ {
		if g.valid(player, p) {
			moves = append(moves, Move{Pos: p})
		}
	}
	return moves
}

// valid reports whether player may slide the pawn at pos into the empty
// cell. From the putahi any move is legal; onto the putahi only a pawn
// adjacent to an enemy may move; around the circle only into an adjacent
// empty point.
func (g *Game) valid(player game.Player, pos int) bool {
	if g.board[pos] != player {
		return false
	}
	if pos == putahi {
		return true
	}
	left := (pos + points - 1) % points
	right := (pos + 1) % points
	if g.board[putahi] == game.PlayerNone {
		enemy := player.Enemy()
		return g.board[left] == enemy || g.board[right] == enemy
	}
	return g.board[left] == game.PlayerNone || g.board[right] == game.PlayerNone
}

func (g *Game) emptyCell() int {
	for p := 0; p <= points; p++ {
		if g.board[p] == game.PlayerNone {
			return p
		}
	}
	panic("mutorere: no empty cell")
}

func (g *Game) String() string {
	pieces := map[game.Player]string{
		game.PlayerMax:  "w",
		game.PlayerMin:  "b",
		game.PlayerNone: ".",
	}
	var s string
	for p := 0; p <= points; p++ {
		s += pieces[g.board[p]]
	}
	return s
}
