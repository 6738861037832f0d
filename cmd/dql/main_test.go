package main

import (
	"testing"

	"github.com/timpalpant/go-dql/tictactoe"
)

func TestVariantConfig_EvaluatesAgainstTwoOpponents(t *testing.T) {
	for _, name := range []string{"dqn", "cer"} {
		cfg, err := variantConfig(name)
		if err != nil {
			t.Fatal(err)
		}

		if len(cfg.evalOpponents) != 2 || cfg.evalOpponents[0] != "minimax" {
			t.Errorf("[%v] expected minimax plus one weaker opponent, got %v", name, cfg.evalOpponents)
		}

		for _, opp := range cfg.evalOpponents {
			if _, err := newOpponent(opp, nil, tictactoe.Cross, 1); err != nil {
				t.Errorf("[%v] %v", name, err)
			}
		}
	}

	if _, err := variantConfig("bogus"); err == nil {
		t.Error("expected error for unknown variant")
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" minimax, random ,,heuristic")
	want := []string{"minimax", "random", "heuristic"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected %v, got %v", want, got)
		}
	}
}
