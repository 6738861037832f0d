// Package minimax implements depth-limited alpha-beta search over
// tic-tac-toe boards, with a pluggable evaluator for non-terminal leaves.
//
// Scores are absolute: positive values favor Cross, negative values favor
// Nought.
package minimax

import (
	"math"

	"github.com/timpalpant/go-dql/tictactoe"
)

// DefaultDrawScore is the score of a drawn terminal position.
const DefaultDrawScore = 0.0

// LeafEvaluator scores a non-terminal board at which the search is cut off.
type LeafEvaluator interface {
	Evaluate(b tictactoe.Board) float64
}

// EvaluatorFunc adapts a function to LeafEvaluator.
type EvaluatorFunc func(b tictactoe.Board) float64

// Evaluate implements LeafEvaluator.
func (f EvaluatorFunc) Evaluate(b tictactoe.Board) float64 { return f(b) }

// Zero scores every cut-off position as even, giving pure minimax.
var Zero LeafEvaluator = EvaluatorFunc(func(tictactoe.Board) float64 { return 0 })

// Result is the outcome of a search.
type Result struct {
	Score float64
	// Move is the best move from the root, or -1 if the root was a leaf.
	Move int
	// Nodes is the number of positions visited, root included.
	Nodes int
}

// Searcher configures minimax search.
type Searcher struct {
	DrawScore float64
	Evaluator LeafEvaluator
}

// NewSearcher returns a Searcher with the default draw score.
// A nil evaluator is Zero.
func NewSearcher(eval LeafEvaluator) Searcher {
	if eval == nil {
		eval = Zero
	}

	return Searcher{DrawScore: DefaultDrawScore, Evaluator: eval}
}

// Minimax runs alpha-beta search with the default draw score.
func Minimax(b tictactoe.Board, mark tictactoe.Mark, depth int, maximizing bool, alpha, beta float64, eval LeafEvaluator) Result {
	return NewSearcher(eval).Search(b, mark, depth, maximizing, alpha, beta)
}

// Search returns the minimax score of b with mark to move, expanding at most
// depth plies. Moves are tried in increasing cell order and a later move
// replaces the best only if it scores strictly better, so ties go to the
// lowest cell. Remaining siblings are pruned once alpha >= beta; pruning
// never changes the score.
func (s Searcher) Search(b tictactoe.Board, mark tictactoe.Mark, depth int, maximizing bool, alpha, beta float64) Result {
	var nodes int
	score, move := s.alphaBeta(b, mark, depth, maximizing, alpha, beta, &nodes)
	return Result{Score: score, Move: move, Nodes: nodes}
}

// Best searches from b for the side to move, without an initial window.
func (s Searcher) Best(b tictactoe.Board, mark tictactoe.Mark, depth int) Result {
	return s.Search(b, mark, depth, mark == tictactoe.Cross, math.Inf(-1), math.Inf(1))
}

func (s Searcher) terminalScore(o tictactoe.Outcome) float64 {
	switch o {
	case tictactoe.CrossWins:
		return 1.0
	case tictactoe.NoughtWins:
		return -1.0
	}

	return s.DrawScore
}

func (s Searcher) evaluate(b tictactoe.Board) float64 {
	if s.Evaluator == nil {
		return 0
	}

	return s.Evaluator.Evaluate(b)
}

func (s Searcher) alphaBeta(b tictactoe.Board, mark tictactoe.Mark, depth int, maximizing bool, alpha, beta float64, nodes *int) (float64, int) {
	*nodes++
	if o := b.Winner(); o.Terminal() {
		return s.terminalScore(o), -1
	} else if depth == 0 {
		return s.evaluate(b), -1
	}

	bestMove := -1
	if maximizing {
		best := math.Inf(-1)
		for i, cell := range b {
			if cell != tictactoe.Empty {
				continue
			}

			child := b
			child[i] = mark
			score, _ := s.alphaBeta(child, mark.Opponent(), depth-1, false, alpha, beta, nodes)
			if score > best || bestMove < 0 {
				best, bestMove = score, i
			}

			alpha = math.Max(alpha, best)
			if alpha >= beta {
				break
			}
		}

		return best, bestMove
	}

	best := math.Inf(1)
	for i, cell := range b {
		if cell != tictactoe.Empty {
			continue
		}

		child := b
		child[i] = mark
		score, _ := s.alphaBeta(child, mark.Opponent(), depth-1, true, alpha, beta, nodes)
		if score < best || bestMove < 0 {
			best, bestMove = score, i
		}

		beta = math.Min(beta, best)
		if alpha >= beta {
			break
		}
	}

	return best, bestMove
}

// BruteForce returns the minimax score of b without pruning. It uses the
// same move order and tie-break as Search.
func (s Searcher) BruteForce(b tictactoe.Board, mark tictactoe.Mark, depth int, maximizing bool) Result {
	var nodes int
	score, move := s.fullTree(b, mark, depth, maximizing, &nodes)
	return Result{Score: score, Move: move, Nodes: nodes}
}

func (s Searcher) fullTree(b tictactoe.Board, mark tictactoe.Mark, depth int, maximizing bool, nodes *int) (float64, int) {
	*nodes++
	if o := b.Winner(); o.Terminal() {
		return s.terminalScore(o), -1
	} else if depth == 0 {
		return s.evaluate(b), -1
	}

	best, bestMove := math.Inf(1), -1
	if maximizing {
		best = math.Inf(-1)
	}

	for _, i := range b.ValidMoves() {
		child, err := b.ApplyMove(i, mark)
		if err != nil {
			panic(err)
		}

		score, _ := s.fullTree(child, mark.Opponent(), depth-1, !maximizing, nodes)
		if bestMove < 0 || (maximizing && score > best) || (!maximizing && score < best) {
			best, bestMove = score, i
		}
	}

	return best, bestMove
}
