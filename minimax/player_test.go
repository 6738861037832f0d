package minimax

import (
	"testing"

	"github.com/timpalpant/go-dql"
	"github.com/timpalpant/go-dql/replay"
	"github.com/timpalpant/go-dql/tictactoe"
)

type constValuer float64

func (c constValuer) Value(tictactoe.Board) float64 { return float64(c) }

func TestQLeaf_Orientation(t *testing.T) {
	var b tictactoe.Board
	if v := (QLeaf{Valuer: constValuer(0.3), Mark: tictactoe.Cross}).Evaluate(b); v != 0.3 {
		t.Errorf("expected 0.3, got %v", v)
	}

	if v := (QLeaf{Valuer: constValuer(0.3), Mark: tictactoe.Nought}).Evaluate(b); v != -0.3 {
		t.Errorf("expected -0.3, got %v", v)
	}
}

func TestHybridPlayer_ValidMoves(t *testing.T) {
	params := dql.DQNParams()
	params.Hidden = []int{8}
	agent := dql.New(params, tictactoe.Cross, replay.NewCircularBuffer(16))
	p := NewHybridPlayer(agent, tictactoe.Cross)

	b := tictactoe.Board{1, 0, 0, 0, 0, 0, 0, 0, 0}
	mark := tictactoe.Nought
	for !b.Winner().Terminal() {
		move := p.Move(b, mark)
		if !b.IsValid(move) {
			t.Fatalf("hybrid player chose invalid move %d on\n%v", move, b)
		}

		b, _ = b.ApplyMove(move, mark)
		mark = mark.Opponent()
	}

	t.Logf("Final board (%v):\n%v", b.Winner(), b)
}

func TestGuidedAgent(t *testing.T) {
	params := dql.DQNParams()
	params.Hidden = []int{8}
	params.Epsilon = 0
	agent := dql.New(params, tictactoe.Cross, replay.NewCircularBuffer(16))
	var _ dql.Agent = NewGuidedAgent(agent, FullDepth)

	// With a full-depth search the learned values never reach a leaf, so
	// the guided agent plays perfect tic-tac-toe.
	b := tictactoe.Board{-1, -1, 0, 1, 0, 0, 0, 0, 1}
	if move := agent.Observe(b, b.ValidMoves()); move != 2 {
		t.Errorf("expected guided agent to block at 2, got %d", move)
	}

	action, err := agent.ObserveOnTraining(b, b.ValidMoves())
	if err != nil {
		t.Fatal(err)
	}

	if action != 2 {
		t.Errorf("expected greedy training action 2, got %d", action)
	}
}
