package dql

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
)

// SaveWeights writes the training network to w.
func (a *DQLAgent) SaveWeights(w io.Writer) error {
	return a.training.MarshalTo(w)
}

// LoadWeights replaces the training network weights with those read from r
// and synchronizes the target network. It fails without modifying the agent
// if the stored architecture differs.
func (a *DQLAgent) LoadWeights(r io.Reader) error {
	if err := a.training.LoadFrom(r); err != nil {
		return err
	}

	a.UpdateTargetNetwork()
	return nil
}

// WeightsBlob returns the serialized training network.
func (a *DQLAgent) WeightsBlob() ([]byte, error) {
	var buf bytes.Buffer
	if err := a.SaveWeights(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// SaveWeightsFile writes the training network to the file at path.
func (a *DQLAgent) SaveWeightsFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := a.SaveWeights(f); err != nil {
		f.Close()
		return errors.Wrapf(err, "writing weights to %s", path)
	}

	return f.Close()
}

// LoadWeightsFile loads the training network from the file at path.
func (a *DQLAgent) LoadWeightsFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := a.LoadWeights(f); err != nil {
		return errors.Wrapf(err, "loading weights from %s", path)
	}

	return nil
}
