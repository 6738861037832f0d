// Package sampling implements uniform sampling helpers shared by the
// replay buffers and the exploration policy.
package sampling

import (
	"math/rand"
)

// Choose returns k distinct indices drawn uniformly from [0, n), in
// random order. It panics if k > n.
func Choose(rng *rand.Rand, n, k int) []int {
	if k > n {
		panic("cannot choose more elements than are available")
	}

	// Partial Fisher-Yates over a sparse permutation, so that the cost
	// is O(k) regardless of n.
	swapped := make(map[int]int, k)
	at := func(i int) int {
		if v, ok := swapped[i]; ok {
			return v
		}
		return i
	}

	result := make([]int, k)
	for i := 0; i < k; i++ {
		j := i + rng.Intn(n-i)
		result[i] = at(j)
		swapped[j] = at(i)
	}

	return result
}

// ChooseOne returns one element of xs uniformly at random.
func ChooseOne(rng *rand.Rand, xs []int) int {
	return xs[rng.Intn(len(xs))]
}
