// Package nn implements the small fully-connected Q-network used by the
// agent, on top of gonum matrices.
package nn

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// ErrShapeMismatch is returned when weights do not fit a network's architecture.
var ErrShapeMismatch = errors.New("weights do not match network shape")

// MLP is a feed-forward network with ReLU hidden layers and a linear output
// layer. It is not safe for concurrent use.
type MLP struct {
	layers  []int
	weights []*mat.Dense // layers[l] x layers[l+1]
	biases  []*mat.Dense // 1 x layers[l+1]
	opt     Optimizer
}

// NewMLP returns a network with the given layer sizes, input first and
// output last, trained with opt. Parameters are initialized uniformly in
// [-1/sqrt(fanIn), 1/sqrt(fanIn)].
func NewMLP(layers []int, opt Optimizer, rng *rand.Rand) *MLP {
	if len(layers) < 2 {
		panic("network needs at least an input and an output layer")
	}

	n := &MLP{
		layers: append([]int(nil), layers...),
		opt:    opt,
	}

	for l := 0; l < len(layers)-1; l++ {
		fanIn, fanOut := layers[l], layers[l+1]
		bound := 1.0 / math.Sqrt(float64(fanIn))
		uniform := func(int, int, float64) float64 {
			return bound * (2*rng.Float64() - 1)
		}

		w := mat.NewDense(fanIn, fanOut, nil)
		w.Apply(uniform, w)
		b := mat.NewDense(1, fanOut, nil)
		b.Apply(uniform, b)

		n.weights = append(n.weights, w)
		n.biases = append(n.biases, b)
	}

	return n
}

// Layers returns the layer sizes of the network.
func (n *MLP) Layers() []int {
	return append([]int(nil), n.layers...)
}

// NumActions is the size of the output layer.
func (n *MLP) NumActions() int {
	return n.layers[len(n.layers)-1]
}

// Predict returns the output vector for each input state.
func (n *MLP) Predict(states [][]float64) [][]float64 {
	acts := n.forward(toDense(states, n.layers[0]))
	out := acts[len(acts)-1]
	rows, _ := out.Dims()
	result := make([][]float64, rows)
	for i := range result {
		result[i] = mat.Row(nil, i, out)
	}

	return result
}

// Train performs one optimizer step minimizing the mean squared error
// between the network output at actions[i] for states[i] and targets[i].
// Other outputs receive no gradient. It returns the loss before the step.
func (n *MLP) Train(states [][]float64, actions []int, targets []float64) float64 {
	if len(states) != len(actions) || len(states) != len(targets) {
		panic(fmt.Sprintf("batch size mismatch: %d states, %d actions, %d targets",
			len(states), len(actions), len(targets)))
	}

	acts := n.forward(toDense(states, n.layers[0]))
	out := acts[len(acts)-1]
	batch := float64(len(states))

	_, nOut := out.Dims()
	dZ := mat.NewDense(len(states), nOut, nil)
	var loss float64
	for i, a := range actions {
		d := out.At(i, a) - targets[i]
		loss += d * d
		dZ.Set(i, a, 2*d/batch)
	}
	loss /= batch

	params := n.params()
	grads := make(map[string]*mat.Dense, len(params))
	for l := len(n.weights) - 1; l >= 0; l-- {
		var dW mat.Dense
		dW.Mul(acts[l].T(), dZ)
		grads[weightName(l)] = &dW
		grads[biasName(l)] = colSums(dZ)

		if l > 0 {
			var dA mat.Dense
			dA.Mul(dZ, n.weights[l].T())
			prev := acts[l]
			dA.Apply(func(i, j int, v float64) float64 {
				if prev.At(i, j) > 0 {
					return v
				}
				return 0
			}, &dA)
			dZ = &dA
		}
	}

	n.opt.Step(params, grads)
	return loss
}

// forward returns the activations of every layer, input included.
func (n *MLP) forward(x *mat.Dense) []*mat.Dense {
	acts := []*mat.Dense{x}
	for l, w := range n.weights {
		var z mat.Dense
		z.Mul(acts[l], w)
		b := n.biases[l]
		hidden := l < len(n.weights)-1
		z.Apply(func(i, j int, v float64) float64 {
			v += b.At(0, j)
			if hidden && v < 0 {
				return 0
			}
			return v
		}, &z)
		acts = append(acts, &z)
	}

	return acts
}

// params returns the live parameter matrices by name.
func (n *MLP) params() map[string]*mat.Dense {
	result := make(map[string]*mat.Dense, 2*len(n.weights))
	for l := range n.weights {
		result[weightName(l)] = n.weights[l]
		result[biasName(l)] = n.biases[l]
	}
	return result
}

// Weights returns a deep copy of the network parameters by name.
func (n *MLP) Weights() map[string]*mat.Dense {
	result := n.params()
	for name, p := range result {
		result[name] = mat.DenseCopyOf(p)
	}
	return result
}

// SetWeights overwrites every parameter with a copy of the given weights.
// Nothing is modified unless all names and shapes match.
func (n *MLP) SetWeights(weights map[string]*mat.Dense) error {
	params := n.params()
	if len(weights) != len(params) {
		return errors.Wrapf(ErrShapeMismatch, "expected %d parameters, got %d", len(params), len(weights))
	}

	for name, p := range params {
		w, ok := weights[name]
		if !ok {
			return errors.Wrapf(ErrShapeMismatch, "missing parameter %s", name)
		}

		pr, pc := p.Dims()
		wr, wc := w.Dims()
		if pr != wr || pc != wc {
			return errors.Wrapf(ErrShapeMismatch, "%s: expected %dx%d, got %dx%d", name, pr, pc, wr, wc)
		}
	}

	for name, p := range params {
		p.Copy(weights[name])
	}

	return nil
}

func weightName(l int) string { return fmt.Sprintf("w%d", l) }
func biasName(l int) string   { return fmt.Sprintf("b%d", l) }

func toDense(rows [][]float64, width int) *mat.Dense {
	data := make([]float64, 0, len(rows)*width)
	for _, row := range rows {
		if len(row) != width {
			panic(fmt.Sprintf("expected input of length %d, got %d", width, len(row)))
		}
		data = append(data, row...)
	}

	return mat.NewDense(len(rows), width, data)
}

func colSums(m *mat.Dense) *mat.Dense {
	r, c := m.Dims()
	result := mat.NewDense(1, c, nil)
	for j := 0; j < c; j++ {
		var sum float64
		for i := 0; i < r; i++ {
			sum += m.At(i, j)
		}
		result.Set(0, j, sum)
	}
	return result
}
