package ldbstore

import (
	"encoding/binary"
	"math/rand"
	"sync"

	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/timpalpant/go-dql/internal/sampling"
	"github.com/timpalpant/go-dql/replay"
)

var metaKey = []byte("meta")

// ReplayBuffer implements replay.Buffer with one LevelDB record per slot.
//
// It is functionally equivalent to replay.CircularBuffer. The size and write
// cursor are stored with every insert, so reopening an existing database
// resumes where it left off.
type ReplayBuffer struct {
	path     string
	capacity int

	mx  sync.Mutex
	n   int
	idx int

	db    *leveldb.DB
	rOpts *opt.ReadOptions
	wOpts *opt.WriteOptions
}

// NewReplayBuffer opens or creates a buffer holding at most capacity
// transitions, backed by a LevelDB database at the given directory path.
// An existing database must have been created with the same capacity.
func NewReplayBuffer(path string, opts *opt.Options, capacity int) (*ReplayBuffer, error) {
	if capacity <= 0 {
		return nil, errors.Errorf("invalid replay buffer capacity: %d", capacity)
	}

	db, err := leveldb.OpenFile(path, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "opening replay buffer at %s", path)
	}

	b := &ReplayBuffer{
		path:     path,
		capacity: capacity,
		db:       db,
	}

	if err := b.loadMeta(); err != nil {
		db.Close()
		return nil, err
	}

	return b, nil
}

func (b *ReplayBuffer) loadMeta() error {
	buf, err := b.db.Get(metaKey, b.rOpts)
	if err == leveldb.ErrNotFound {
		return nil
	} else if err != nil {
		return err
	}

	var values [3]int
	for i := range values {
		x, m := binary.Uvarint(buf)
		if m <= 0 {
			return errors.Errorf("corrupt replay buffer metadata in %s", b.path)
		}
		values[i] = int(x)
		buf = buf[m:]
	}

	if values[0] != b.capacity {
		return errors.Errorf("replay buffer at %s has capacity %d, requested %d",
			b.path, values[0], b.capacity)
	}

	b.n, b.idx = values[1], values[2]
	return nil
}

func (b *ReplayBuffer) encodeMeta() []byte {
	buf := make([]byte, 3*binary.MaxVarintLen64)
	m := binary.PutUvarint(buf, uint64(b.capacity))
	m += binary.PutUvarint(buf[m:], uint64(b.n))
	m += binary.PutUvarint(buf[m:], uint64(b.idx))
	return buf[:m]
}

func slotKey(idx int) []byte {
	var buf [binary.MaxVarintLen64 + 1]byte
	buf[0] = 's'
	m := binary.PutUvarint(buf[1:], uint64(idx))
	return buf[:m+1]
}

// Close implements io.Closer.
func (b *ReplayBuffer) Close() error {
	return b.db.Close()
}

// Add implements replay.Buffer.
func (b *ReplayBuffer) Add(t replay.Transition) {
	value, err := t.MarshalBinary()
	if err != nil {
		panic(err)
	}

	b.mx.Lock()
	defer b.mx.Unlock()

	if b.n < b.capacity {
		b.n++
	}

	batch := new(leveldb.Batch)
	batch.Put(slotKey(b.idx), value)
	b.idx = (b.idx + 1) % b.capacity
	batch.Put(metaKey, b.encodeMeta())
	if err := b.db.Write(batch, b.wOpts); err != nil {
		panic(err)
	}
}

func (b *ReplayBuffer) get(idx int) (replay.Transition, error) {
	var t replay.Transition
	buf, err := b.db.Get(slotKey(idx), b.rOpts)
	if err != nil {
		return t, errors.Wrapf(err, "reading slot %d", idx)
	}

	err = t.UnmarshalBinary(buf)
	return t, err
}

// Sample implements replay.Buffer.
func (b *ReplayBuffer) Sample(rng *rand.Rand, n int) ([]replay.Transition, error) {
	b.mx.Lock()
	defer b.mx.Unlock()
	return b.sample(rng, n)
}

func (b *ReplayBuffer) sample(rng *rand.Rand, n int) ([]replay.Transition, error) {
	if b.n < n {
		return nil, errors.Wrapf(replay.ErrInsufficientSamples, "requested %d, have %d", n, b.n)
	}

	result := make([]replay.Transition, n)
	for i, idx := range sampling.Choose(rng, b.n, n) {
		t, err := b.get(idx)
		if err != nil {
			return nil, err
		}
		result[i] = t
	}

	return result, nil
}

// SampleRecent implements replay.Buffer.
func (b *ReplayBuffer) SampleRecent(rng *rand.Rand, n int) ([]replay.Transition, error) {
	b.mx.Lock()
	defer b.mx.Unlock()

	result, err := b.sample(rng, n)
	if err != nil || n == 0 {
		return result, err
	}

	latest, err := b.get((b.idx - 1 + b.n) % b.n)
	if err != nil {
		return nil, err
	}

	result[n-1] = latest
	return result, nil
}

// Len implements replay.Buffer.
func (b *ReplayBuffer) Len() int {
	b.mx.Lock()
	defer b.mx.Unlock()
	return b.n
}

// Cap implements replay.Buffer.
func (b *ReplayBuffer) Cap() int {
	return b.capacity
}
