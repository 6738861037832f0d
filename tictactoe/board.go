// Package tictactoe implements the rules of 3x3 tic-tac-toe on a flat,
// row-major board of nine cells.
package tictactoe

import (
	"github.com/pkg/errors"
)

// ErrInvalidMove is returned when a move targets an occupied cell
// or a cell off the board.
var ErrInvalidMove = errors.New("invalid move")

const (
	Size     = 3
	NumCells = Size * Size
)

// Mark is the content of a single cell, and also identifies a side.
type Mark int8

const (
	Empty  Mark = 0
	Cross  Mark = 1
	Nought Mark = -1
)

var markStr = map[Mark]string{
	Empty:  " ",
	Cross:  "X",
	Nought: "O",
}

// String implements fmt.Stringer.
func (m Mark) String() string {
	return markStr[m]
}

// Opponent returns the other side. Opponent of Empty is Empty.
func (m Mark) Opponent() Mark {
	return -m
}

// Outcome is the result of evaluating a Board.
type Outcome int

const (
	InProgress Outcome = iota
	CrossWins
	NoughtWins
	Draw
)

var outcomeStr = [...]string{
	"in progress",
	"X wins",
	"O wins",
	"draw",
}

func (o Outcome) String() string {
	return outcomeStr[o]
}

// Terminal returns true if the game is over.
func (o Outcome) Terminal() bool {
	return o != InProgress
}

// Winner returns the mark of the winning side, or Empty if there is none.
func (o Outcome) Winner() Mark {
	switch o {
	case CrossWins:
		return Cross
	case NoughtWins:
		return Nought
	}

	return Empty
}

// RewardFor returns the terminal reward of this outcome from the point of
// view of the given side: +1 for a win, -1 for a loss, drawReward for a draw
// and 0 if the game is still in progress.
func (o Outcome) RewardFor(m Mark, drawReward float64) float64 {
	switch o {
	case InProgress:
		return 0
	case Draw:
		return drawReward
	}

	if o.Winner() == m {
		return 1.0
	}

	return -1.0
}

// Lines are the eight winning lines: rows, columns, then diagonals.
var Lines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {6, 4, 2},
}

// Board is a tic-tac-toe position. It is a value type: ApplyMove returns
// a new Board and never modifies the receiver.
type Board [NumCells]Mark

// Index returns the flat cell index of the given row and column.
func Index(row, col int) int {
	return row*Size + col
}

// RowCol is the inverse of Index.
func RowCol(idx int) (row, col int) {
	return idx / Size, idx % Size
}

// ValidMoves returns the indices of all empty cells in increasing order.
func (b Board) ValidMoves() []int {
	moves := make([]int, 0, NumCells)
	for i, m := range b {
		if m == Empty {
			moves = append(moves, i)
		}
	}

	return moves
}

// IsValid returns true if idx is on the board and empty.
func (b Board) IsValid(idx int) bool {
	return idx >= 0 && idx < NumCells && b[idx] == Empty
}

// ApplyMove returns the board with the given cell set to mark.
func (b Board) ApplyMove(idx int, mark Mark) (Board, error) {
	if idx < 0 || idx >= NumCells {
		return b, errors.Wrapf(ErrInvalidMove, "cell %d is off the board", idx)
	}

	if b[idx] != Empty {
		return b, errors.Wrapf(ErrInvalidMove, "cell %d is occupied by %v", idx, b[idx])
	}

	b[idx] = mark
	return b, nil
}

// Winner evaluates the board. A completed line takes priority over a
// full board.
func (b Board) Winner() Outcome {
	for _, line := range Lines {
		m := b[line[0]]
		if m != Empty && m == b[line[1]] && m == b[line[2]] {
			if m == Cross {
				return CrossWins
			}
			return NoughtWins
		}
	}

	for _, m := range b {
		if m == Empty {
			return InProgress
		}
	}

	return Draw
}

// Count returns the number of cells holding the given mark.
func (b Board) Count(mark Mark) int {
	n := 0
	for _, m := range b {
		if m == mark {
			n++
		}
	}
	return n
}

// ToMove returns the side whose turn it is, assuming Cross moved first.
func (b Board) ToMove() Mark {
	if b.Count(Cross) > b.Count(Nought) {
		return Nought
	}

	return Cross
}

// Reachable returns true if the mark counts are consistent with strict
// alternation starting from either side.
func (b Board) Reachable() bool {
	d := b.Count(Cross) - b.Count(Nought)
	return d >= -1 && d <= 1
}
