package train

import (
	"math/rand"

	"github.com/timpalpant/go-dql/tictactoe"
)

// Opponent chooses moves for the side the agent is playing against.
// The board passed to Move always has at least one valid move.
type Opponent interface {
	Move(b tictactoe.Board, mark tictactoe.Mark) int
}

// RandomOpponent plays uniformly random valid moves.
type RandomOpponent struct {
	rng *rand.Rand
}

func NewRandomOpponent(seed int64) *RandomOpponent {
	return &RandomOpponent{rng: rand.New(rand.NewSource(seed))}
}

// Move implements Opponent.
func (r *RandomOpponent) Move(b tictactoe.Board, mark tictactoe.Mark) int {
	moves := b.ValidMoves()
	return moves[r.rng.Intn(len(moves))]
}

// HeuristicOpponent plays randomly, except that it completes any line in
// which it already holds two cells.
type HeuristicOpponent struct {
	rng *rand.Rand
}

func NewHeuristicOpponent(seed int64) *HeuristicOpponent {
	return &HeuristicOpponent{rng: rand.New(rand.NewSource(seed))}
}

// Move implements Opponent.
func (h *HeuristicOpponent) Move(b tictactoe.Board, mark tictactoe.Mark) int {
	if idx, ok := WinningMove(b, mark); ok {
		return idx
	}

	moves := b.ValidMoves()
	return moves[h.rng.Intn(len(moves))]
}

// WinningMove returns a cell that immediately completes a line for mark.
// If several lines can be completed, the last in tictactoe.Lines order wins.
func WinningMove(b tictactoe.Board, mark tictactoe.Mark) (int, bool) {
	move := -1
	for _, line := range tictactoe.Lines {
		empty, own := -1, 0
		for _, idx := range line {
			switch b[idx] {
			case mark:
				own++
			case tictactoe.Empty:
				empty = idx
			}
		}

		if own == 2 && empty >= 0 {
			move = empty
		}
	}

	return move, move >= 0
}
