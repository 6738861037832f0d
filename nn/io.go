package nn

import (
	"encoding/gob"
	"io"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// MarshalTo writes the network architecture and weights to w.
func (n *MLP) MarshalTo(w io.Writer) error {
	enc := gob.NewEncoder(w)
	if err := enc.Encode(n.layers); err != nil {
		return err
	}

	return enc.Encode(n.Weights())
}

// LoadFrom replaces the weights of n with those read from r.
// The stored architecture must match n exactly.
func (n *MLP) LoadFrom(r io.Reader) error {
	dec := gob.NewDecoder(r)

	var layers []int
	if err := dec.Decode(&layers); err != nil {
		return errors.Wrap(err, "decoding layers")
	}

	if !equalInts(layers, n.layers) {
		return errors.Wrapf(ErrShapeMismatch, "stored layers %v, network layers %v", layers, n.layers)
	}

	var weights map[string]*mat.Dense
	if err := dec.Decode(&weights); err != nil {
		return errors.Wrap(err, "decoding weights")
	}

	return n.SetWeights(weights)
}

func equalInts(x, y []int) bool {
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
