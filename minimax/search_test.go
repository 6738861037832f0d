package minimax

import (
	"hash/fnv"
	"math"
	"testing"

	"github.com/timpalpant/go-dql/tictactoe"
	"github.com/timpalpant/go-dql/tree"
)

// hashEval gives each board a fixed pseudo-random score in [-1, 1).
var hashEval = EvaluatorFunc(func(b tictactoe.Board) float64 {
	h := fnv.New32a()
	for _, m := range b {
		h.Write([]byte{byte(m + 1)})
	}
	return float64(h.Sum32()%2000)/1000 - 1
})

func TestSearch_EmptyBoardIsDraw(t *testing.T) {
	var b tictactoe.Board
	for _, mark := range []tictactoe.Mark{tictactoe.Cross, tictactoe.Nought} {
		s := NewSearcher(Zero)
		result := s.Best(b, mark, FullDepth)
		if result.Score != DefaultDrawScore {
			t.Errorf("[%v] expected draw score %v from empty board, got %v", mark, DefaultDrawScore, result.Score)
		}

		t.Logf("[%v] best opening move: %d, %d nodes", mark, result.Move, result.Nodes)
	}
}

func TestSearch_DrawScore(t *testing.T) {
	var b tictactoe.Board
	s := Searcher{DrawScore: 0.1, Evaluator: Zero}
	result := s.Best(b, tictactoe.Cross, FullDepth)
	if result.Score != 0.1 {
		t.Errorf("expected draw score 0.1, got %v", result.Score)
	}
}

func TestSearch_TakesWin(t *testing.T) {
	// X X . / O O . / . . .
	b := tictactoe.Board{1, 1, 0, -1, -1, 0, 0, 0, 0}
	result := NewSearcher(Zero).Best(b, tictactoe.Cross, FullDepth)
	if result.Move != 2 || result.Score != 1 {
		t.Errorf("expected X to win at 2, got move=%d score=%v", result.Move, result.Score)
	}

	// O wins either immediately at 5 or by the fork at 2, which comes first.
	result = NewSearcher(Zero).Best(b, tictactoe.Nought, FullDepth)
	if result.Move != 2 || result.Score != -1 {
		t.Errorf("expected O to win from 2, got move=%d score=%v", result.Move, result.Score)
	}
}

func TestSearch_Blocks(t *testing.T) {
	// X X . / . O . / . . .  with O to move must block at 2.
	b := tictactoe.Board{1, 1, 0, 0, -1, 0, 0, 0, 0}
	result := NewSearcher(Zero).Best(b, tictactoe.Nought, FullDepth)
	if result.Move != 2 {
		t.Errorf("expected O to block at 2, got %d", result.Move)
	}
}

func TestSearch_TieBreakFirstMove(t *testing.T) {
	// Every move from the empty board draws under optimal play, so the
	// first cell must be chosen.
	var b tictactoe.Board
	result := NewSearcher(Zero).Best(b, tictactoe.Cross, FullDepth)
	if result.Move != 0 {
		t.Errorf("expected first-found move 0, got %d", result.Move)
	}
}

func TestSearch_DepthZeroUsesEvaluator(t *testing.T) {
	b := tictactoe.Board{1, 0, 0, 0, -1, 0, 0, 0, 0}
	eval := EvaluatorFunc(func(tictactoe.Board) float64 { return 0.42 })
	result := Minimax(b, tictactoe.Cross, 0, true, math.Inf(-1), math.Inf(1), eval)
	if result.Score != 0.42 || result.Move != -1 {
		t.Errorf("expected leaf score 0.42 and no move, got %+v", result)
	}

	// Terminal positions are scored before the evaluator is consulted.
	won := tictactoe.Board{1, 1, 1, -1, -1, 0, 0, 0, 0}
	result = Minimax(won, tictactoe.Nought, 0, false, math.Inf(-1), math.Inf(1), eval)
	if result.Score != 1 {
		t.Errorf("expected terminal score 1, got %v", result.Score)
	}
}

// Pruning must not change the score or move for any reachable position.
func TestSearch_MatchesBruteForce(t *testing.T) {
	var root tictactoe.Board
	for _, eval := range []LeafEvaluator{Zero, hashEval} {
		s := Searcher{DrawScore: 0.1, Evaluator: eval}
		for _, depth := range []int{1, 2, 3, FullDepth} {
			var prunedNodes, fullNodes int
			tree.VisitStates(root, tictactoe.Cross, func(b tictactoe.Board, toMove tictactoe.Mark) {
				if b.Winner().Terminal() {
					return
				}

				maximizing := toMove == tictactoe.Cross
				pruned := s.Search(b, toMove, depth, maximizing, math.Inf(-1), math.Inf(1))
				full := s.BruteForce(b, toMove, depth, maximizing)
				if pruned.Score != full.Score || pruned.Move != full.Move {
					t.Fatalf("depth %d on\n%v: alpha-beta %+v, brute force %+v", depth, b, pruned, full)
				}

				if pruned.Nodes > full.Nodes {
					t.Fatalf("alpha-beta visited %d nodes, more than brute force %d", pruned.Nodes, full.Nodes)
				}

				prunedNodes += pruned.Nodes
				fullNodes += full.Nodes
			})

			t.Logf("[depth=%d] alpha-beta visited %d nodes, brute force %d", depth, prunedNodes, fullNodes)
		}
	}
}

// Playing the searcher against itself from the empty board always draws.
func TestSearch_SelfPlayDraws(t *testing.T) {
	p := NewPlayer()
	var b tictactoe.Board
	mark := tictactoe.Cross
	for !b.Winner().Terminal() {
		var err error
		b, err = b.ApplyMove(p.Move(b, mark), mark)
		if err != nil {
			t.Fatal(err)
		}
		mark = mark.Opponent()
	}

	if o := b.Winner(); o != tictactoe.Draw {
		t.Errorf("expected draw, got %v:\n%v", o, b)
	}
}

// The maximizing side never loses against any opponent reply sequence.
func TestSearch_NeverLoses(t *testing.T) {
	p := NewPlayer()
	for _, searcherMark := range []tictactoe.Mark{tictactoe.Cross, tictactoe.Nought} {
		var worst func(b tictactoe.Board, toMove tictactoe.Mark) tictactoe.Outcome
		losses := 0
		worst = func(b tictactoe.Board, toMove tictactoe.Mark) tictactoe.Outcome {
			if o := b.Winner(); o.Terminal() {
				if o.Winner() == searcherMark.Opponent() {
					losses++
				}
				return o
			}

			if toMove == searcherMark {
				child, _ := b.ApplyMove(p.Move(b, toMove), toMove)
				return worst(child, toMove.Opponent())
			}

			for _, idx := range b.ValidMoves() {
				child, _ := b.ApplyMove(idx, toMove)
				worst(child, toMove.Opponent())
			}
			return tictactoe.InProgress
		}

		var root tictactoe.Board
		worst(root, tictactoe.Cross)
		if losses > 0 {
			t.Errorf("searcher playing %v lost %d games", searcherMark, losses)
		}
	}
}

func BenchmarkSearch_EmptyBoard(b *testing.B) {
	var root tictactoe.Board
	s := NewSearcher(Zero)
	for i := 0; i < b.N; i++ {
		s.Best(root, tictactoe.Cross, FullDepth)
	}
}

func BenchmarkBruteForce_EmptyBoard(b *testing.B) {
	var root tictactoe.Board
	s := NewSearcher(Zero)
	for i := 0; i < b.N; i++ {
		s.BruteForce(root, tictactoe.Cross, FullDepth, true)
	}
}
