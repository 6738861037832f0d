package dql

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"

	"github.com/timpalpant/go-dql/internal/sampling"
)

// EpsilonGreedy acts uniformly at random with probability Epsilon,
// and greedily otherwise.
type EpsilonGreedy struct {
	Epsilon float64
}

// Perform selects an action given the action values q. If actions is nil,
// all actions are candidates.
func (e *EpsilonGreedy) Perform(rng *rand.Rand, q []float64, actions []int) int {
	if e.Explore(rng) {
		return RandomAction(rng, len(q), actions)
	}

	return Greedy(q, actions)
}

// Explore returns true with probability Epsilon.
func (e *EpsilonGreedy) Explore(rng *rand.Rand) bool {
	return rng.Float64() < e.Epsilon
}

// RandomAction returns one of actions uniformly at random, or one of
// [0, n) if actions is nil.
func RandomAction(rng *rand.Rand, n int, actions []int) int {
	if actions == nil {
		return rng.Intn(n)
	}

	return sampling.ChooseOne(rng, actions)
}

// Decay sets Epsilon = max(Epsilon*decay, floor).
func (e *EpsilonGreedy) Decay(decay, floor float64) {
	e.Epsilon = math.Max(e.Epsilon*decay, floor)
}

// Greedy returns the action with the largest value among actions,
// preferring the lowest index on ties. Actions outside the candidate set
// are masked with -Inf so they can never be chosen.
func Greedy(q []float64, actions []int) int {
	if actions == nil {
		return floats.MaxIdx(q)
	}

	if len(actions) == 0 {
		panic("no actions to choose from")
	}

	masked := make([]float64, len(q))
	for i := range masked {
		masked[i] = math.Inf(-1)
	}

	for _, a := range actions {
		masked[a] = q[a]
	}

	idx := floats.MaxIdx(masked)
	if math.IsInf(masked[idx], -1) {
		// All candidates are -Inf themselves; fall back to the first.
		return minInt(actions)
	}

	return idx
}

func minInt(xs []int) int {
	m := xs[0]
	for _, x := range xs[1:] {
		if x < m {
			m = x
		}
	}
	return m
}
