package replay

import (
	"bytes"
	"encoding/gob"
	"math/rand"
	"sync"

	"github.com/pkg/errors"

	"github.com/timpalpant/go-dql/internal/sampling"
)

// CircularBuffer is an in-memory Buffer. It is safe for concurrent use.
type CircularBuffer struct {
	mx       sync.Mutex
	capacity int
	samples  []Transition
	// idx is the slot that the next Add will write.
	idx int
}

// NewCircularBuffer returns an empty buffer holding at most capacity transitions.
func NewCircularBuffer(capacity int) *CircularBuffer {
	if capacity <= 0 {
		panic("replay buffer capacity must be positive")
	}

	return &CircularBuffer{
		capacity: capacity,
		samples:  make([]Transition, 0, min(capacity, 1<<16)),
	}
}

// Add implements Buffer.
func (b *CircularBuffer) Add(t Transition) {
	b.mx.Lock()
	defer b.mx.Unlock()

	if len(b.samples) < b.capacity {
		b.samples = append(b.samples, t)
	} else {
		b.samples[b.idx] = t
	}

	b.idx = (b.idx + 1) % b.capacity
}

// Get returns the transition in the given slot.
func (b *CircularBuffer) Get(idx int) Transition {
	b.mx.Lock()
	defer b.mx.Unlock()
	return b.samples[idx]
}

// Latest returns the most recently added transition.
func (b *CircularBuffer) Latest() (Transition, bool) {
	b.mx.Lock()
	defer b.mx.Unlock()
	if len(b.samples) == 0 {
		return Transition{}, false
	}

	return b.samples[b.latestIdx()], true
}

func (b *CircularBuffer) latestIdx() int {
	return (b.idx - 1 + len(b.samples)) % len(b.samples)
}

// Sample implements Buffer.
func (b *CircularBuffer) Sample(rng *rand.Rand, n int) ([]Transition, error) {
	b.mx.Lock()
	defer b.mx.Unlock()
	return b.sample(rng, n)
}

func (b *CircularBuffer) sample(rng *rand.Rand, n int) ([]Transition, error) {
	if len(b.samples) < n {
		return nil, errors.Wrapf(ErrInsufficientSamples, "requested %d, have %d", n, len(b.samples))
	}

	result := make([]Transition, n)
	for i, idx := range sampling.Choose(rng, len(b.samples), n) {
		result[i] = b.samples[idx]
	}

	return result, nil
}

// SampleRecent implements Buffer.
func (b *CircularBuffer) SampleRecent(rng *rand.Rand, n int) ([]Transition, error) {
	b.mx.Lock()
	defer b.mx.Unlock()

	result, err := b.sample(rng, n)
	if err != nil || n == 0 {
		return result, err
	}

	result[n-1] = b.samples[b.latestIdx()]
	return result, nil
}

// Len implements Buffer.
func (b *CircularBuffer) Len() int {
	b.mx.Lock()
	defer b.mx.Unlock()
	return len(b.samples)
}

// Cap implements Buffer.
func (b *CircularBuffer) Cap() int {
	return b.capacity
}

// Transitions returns a copy of the buffer contents in slot order.
func (b *CircularBuffer) Transitions() []Transition {
	b.mx.Lock()
	defer b.mx.Unlock()
	result := make([]Transition, len(b.samples))
	copy(result, b.samples)
	return result
}

// Close implements io.Closer.
func (b *CircularBuffer) Close() error {
	return nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (b *CircularBuffer) MarshalBinary() ([]byte, error) {
	b.mx.Lock()
	defer b.mx.Unlock()

	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)

	if err := enc.Encode(b.capacity); err != nil {
		return nil, err
	}

	if err := enc.Encode(b.idx); err != nil {
		return nil, err
	}

	if err := enc.Encode(b.samples); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (b *CircularBuffer) UnmarshalBinary(buf []byte) error {
	b.mx.Lock()
	defer b.mx.Unlock()

	r := bytes.NewReader(buf)
	dec := gob.NewDecoder(r)

	if err := dec.Decode(&b.capacity); err != nil {
		return err
	}

	if err := dec.Decode(&b.idx); err != nil {
		return err
	}

	if err := dec.Decode(&b.samples); err != nil {
		return err
	}

	return nil
}

func init() {
	gob.Register(&CircularBuffer{})
}
