// Package replay implements experience replay buffers for deep Q-learning.
package replay

import (
	"io"
	"math/rand"

	"github.com/pkg/errors"
)

// ErrInsufficientSamples is returned when a batch larger than the current
// contents of a buffer is requested.
var ErrInsufficientSamples = errors.New("insufficient samples in replay buffer")

// Buffer is a bounded store of transitions. Once it is full, each new
// transition overwrites the oldest one.
type Buffer interface {
	// Add stores the transition, evicting the oldest if at capacity.
	Add(t Transition)
	// Sample returns n transitions drawn uniformly without replacement.
	Sample(rng *rand.Rand, n int) ([]Transition, error)
	// SampleRecent is Sample with the last element of the batch replaced
	// by the most recently added transition (combined experience replay).
	SampleRecent(rng *rand.Rand, n int) ([]Transition, error)
	// Len is the number of transitions currently held.
	Len() int
	// Cap is the maximum number of transitions held.
	Cap() int
	io.Closer
}
