package train

import (
	"math/rand"

	"github.com/pkg/errors"

	"github.com/timpalpant/go-dql"
	"github.com/timpalpant/go-dql/tictactoe"
)

// EvalConfig controls an evaluation run.
type EvalConfig struct {
	Episodes   int
	AgentFirst bool
	// RandomOpening makes the agent's first move of each game uniformly
	// random, so that a deterministic agent sees varied games.
	RandomOpening bool
	Seed          int64
}

// Evaluate plays greedy games against env's opponent without storing
// experience or training.
func Evaluate(agent dql.Agent, env *Environment, cfg EvalConfig) (*Stats, error) {
	rng := rand.New(rand.NewSource(cfg.Seed))
	stats := &Stats{}
	for ep := 1; ep <= cfg.Episodes; ep++ {
		state, err := env.Reset(cfg.AgentFirst)
		if err != nil {
			return stats, errors.Wrapf(err, "episode %d", ep)
		}
		if m, ok := agent.(interface{ SetMark(tictactoe.Mark) }); ok {
			m.SetMark(env.AgentMark())
		}

		first := true
		for done := false; !done; {
			moves := state.ValidMoves()
			var action int
			if first && cfg.RandomOpening {
				action = moves[rng.Intn(len(moves))]
			} else {
				action = agent.Observe(state, moves)
			}
			first = false

			next, reward, d, err := env.Step(action)
			if err != nil {
				return stats, errors.Wrapf(err, "episode %d", ep)
			}

			stats.CumulativeReward += reward
			state, done = next, d
		}

		stats.Record(env.Outcome(), env.AgentMark())
	}

	return stats, nil
}
