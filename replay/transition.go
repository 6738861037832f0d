package replay

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
)

// Transition is a single (state, action, reward, next state, done)
// experience tuple. States are already encoded for the network.
type Transition struct {
	State     []float64
	Action    int
	Reward    float64
	NextState []float64
	Done      bool
}

// Equal returns true if both transitions hold identical values.
func (t Transition) Equal(other Transition) bool {
	return t.Action == other.Action && t.Reward == other.Reward &&
		t.Done == other.Done && equalVec(t.State, other.State) &&
		equalVec(t.NextState, other.NextState)
}

func equalVec(x, y []float64) bool {
	if len(x) != len(y) {
		return false
	}

	for i, v := range x {
		if y[i] != v {
			return false
		}
	}

	return true
}

// MarshalBinary implements encoding.BinaryMarshaler.
//
// Layout: uint32 state length, state floats, uint32 next state length,
// next state floats, uint16 action, float64 reward, done byte.
func (t *Transition) MarshalBinary() ([]byte, error) {
	nBytes := 4 + 8*len(t.State) + 4 + 8*len(t.NextState) + 2 + 8 + 1
	result := make([]byte, nBytes)

	buf := putVec(result, t.State)
	buf = putVec(buf, t.NextState)

	binary.LittleEndian.PutUint16(buf, uint16(t.Action))
	buf = buf[2:]

	binary.LittleEndian.PutUint64(buf, math.Float64bits(t.Reward))
	buf = buf[8:]

	if t.Done {
		buf[0] = 1
	}

	return result, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (t *Transition) UnmarshalBinary(buf []byte) error {
	var err error
	// UnmarshalBinary must copy the data it wishes to keep.
	if t.State, buf, err = decodeVec(buf); err != nil {
		return err
	}

	if t.NextState, buf, err = decodeVec(buf); err != nil {
		return err
	}

	if len(buf) != 2+8+1 {
		return errors.Errorf("transition: expected %d trailing bytes, got %d", 2+8+1, len(buf))
	}

	t.Action = int(binary.LittleEndian.Uint16(buf))
	buf = buf[2:]

	t.Reward = math.Float64frombits(binary.LittleEndian.Uint64(buf))
	buf = buf[8:]

	t.Done = buf[0] != 0
	return nil
}

func putVec(buf []byte, x []float64) []byte {
	binary.LittleEndian.PutUint32(buf, uint32(len(x)))
	buf = buf[4:]
	for _, v := range x {
		binary.LittleEndian.PutUint64(buf, math.Float64bits(v))
		buf = buf[8:]
	}

	return buf
}

func decodeVec(buf []byte) ([]float64, []byte, error) {
	if len(buf) < 4 {
		return nil, nil, errors.New("transition: truncated vector length")
	}

	n := int(binary.LittleEndian.Uint32(buf))
	buf = buf[4:]
	if len(buf) < 8*n {
		return nil, nil, errors.Errorf("transition: truncated vector of length %d", n)
	}

	x := make([]float64, n)
	for i := range x {
		x[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf))
		buf = buf[8:]
	}

	return x, buf, nil
}
