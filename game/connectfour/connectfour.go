// Package connectfour implements 6x7 connect four as a game.Game. Yellow is
// PlayerMax and moves first. The board does not pack into a word, so the
// state key is an FNV-1a hash of the cells plus the side to move.
package connectfour

import (
	"fmt"
	"hash/fnv"

	"duel/game"
)

const (
	rows    = 6
	columns = 7
)

// directions for line scanning: down, right, down-right, down-left.
var directions = [4][2]int{{1, 0}, {0, 1}, {1, 1}, {1, -1}}

// maxScore normalises the window heuristic: 69 windows of up to 4 pieces.
const maxScore = 276

// Move drops a piece into Column.
type Move struct {
	Column int
}

func (m Move) String() string {
	return fmt.Sprintf("(%d)", m.Column)
}

type Game struct {
	board  [rows][columns]game.Player
	player game.Player
	turn   int
	past   []game.StateKey
	log    []Move
}

// New returns an empty board with yellow to move.
func New() *Game {
	return &Game{player: game.PlayerMax, turn: 1}
}

func (g *Game) Player() game.Player {
	return g.player
}

func (g *Game) StateKey() game.StateKey {
	h := fnv.New64a()
	var cells [rows*columns + 1]byte
	for x := 0; x < rows; x++ {
		for y := 0; y < columns; y++ {
			cells[x*columns+y] = byte(g.board[x][y] + 1)
		}
	}
	cells[rows*columns] = byte(g.player + 1)
	h.Write(cells[:])
	return game.StateKey(h.Sum64())
}

func (g *Game) Moves() []game.Move {
	if g.lineOwner() != game.PlayerNone {
		return nil
	}
	var moves []game.Move
	for y := 0; y < columns; y++ {
		if g.board[0][y] == game.PlayerNone {
			moves = append(moves, Move{Column: y})
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

// Evaluate counts windows of four still open to each player, weighted by how
// full they already are, with a two-point advantage for the side to move.
func (g *Game) Evaluate() float64 {
	score := g.score(game.PlayerMax) - g.score(game.PlayerMin)
	if g.player == game.PlayerMax {
		score += 2
	} else {
		score -= 2
	}
	return game.ClampHeuristic(float64(score) / float64(maxScore+2))
}

func (g *Game) Commit(mv game.Move) {
	m := mv.(Move)
	x := g.dropRow(m.Column)
	if x < 0 {
		panic("connectfour: column is full")
	}
	g.past = append(g.past, g.StateKey())
	g.log = append(g.log, m)
	g.board[x][m.Column] = g.player
	g.player = g.player.Enemy()
	g.turn++
}

func (g *Game) Undo() {
	if len(g.log) == 0 {
		panic("connectfour: Undo with no committed move")
	}
	m := g.log[len(g.log)-1]
	g.log = g.log[:len(g.log)-1]
	g.past = g.past[:len(g.past)-1]
	for x := 0; x < rows; x++ {
		if g.board[x][m.Column] != game.PlayerNone {
			g.board[x][m.Column] = game.PlayerNone
			break
		}
	}
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

// dropRow returns the row a piece lands on in the column, -1 when full.
func (g *Game) dropRow(column int) int {
	for x := rows - 1; x >= 0; x-- {
		if g.board[x][column] == game.PlayerNone {
			return x
		}
	}
	return -1
}

func inside(x, y int) bool {
	return 0 <= x && x < rows && 0 <= y && y < columns
}

// lineOwner returns the player holding four connected pieces.
func (g *Game) lineOwner() game.Player {
	for x := 0; x < rows; x++ {
		for y := 0; y < columns; y++ {
			p := g.board[x][y]
			if p == game.PlayerNone {
				continue
			}
			for _, d := range directions {
				if !inside(x+3*d[0], y+3*d[1]) {
					continue
				}
				count := 1
				for i := 1; i < 4; i++ {
					if g.board[x+i*d[0]][y+i*d[1]] != p {
						break
					}
					count++
				}
				if count == 4 {
					return p
				}
			}
		}
	}
	return game.PlayerNone
}

// score sums, over every window of four the player could still complete, the
// pieces already in place.
func (g *Game) score(player game.Player) int {
	enemy := player.Enemy()
	score := 0
	for x := 0; x < rows; x++ {
		for y := 0; y < columns; y++ {
			for _, d := range directions {
				if !inside(x+3*d[0], y+3*d[1]) {
					continue
				}
				count := 0
				open := true
				for i := 0; i < 4; i++ {
					cell := g.board[x+i*d[0]][y+i*d[1]]
					if cell == enemy {
						open = false
						break
					}
					if cell == player {
						count++
					}
				}
				if open {
					score += count
				}
			}
		}
	}
	return score
}

func (g *Game) String() string {
	pieces := map[game.Player]string{
		game.PlayerMax:  "y",
		game.PlayerMin:  "r",
		game.PlayerNone: ".",
	}
	var s string
	for x := 0; x < rows; x++ {
		for y := 0; y < columns; y++ {
			s += pieces[g.board[x][y]]
		}
		s += "\n"
	}
	return s
}
