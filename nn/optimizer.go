package nn

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Optimizer applies one update step to each named parameter given its gradient.
type Optimizer interface {
	Step(params, grads map[string]*mat.Dense)
}

// SGD is plain stochastic gradient descent.
type SGD struct {
	LearningRate float64
}

// Step implements Optimizer.
func (o *SGD) Step(params, grads map[string]*mat.Dense) {
	for name, p := range params {
		g := grads[name]
		p.Apply(func(i, j int, v float64) float64 {
			return v - o.LearningRate*g.At(i, j)
		}, p)
	}
}

// Adam implements the Adam optimizer (Kingma & Ba, 2014).
type Adam struct {
	LearningRate float64
	Beta1, Beta2 float64
	Epsilon      float64

	t    int
	m, v map[string]*mat.Dense
}

// NewAdam returns an Adam optimizer with the usual defaults for the moment decay rates.
func NewAdam(lr float64) *Adam {
	return &Adam{
		LearningRate: lr,
		Beta1:        0.9,
		Beta2:        0.999,
		Epsilon:      1e-8,
	}
}

// Step implements Optimizer.
func (o *Adam) Step(params, grads map[string]*mat.Dense) {
	if o.m == nil {
		o.m = zerosLike(params)
		o.v = zerosLike(params)
	}

	o.t++
	c1 := 1 - math.Pow(o.Beta1, float64(o.t))
	c2 := 1 - math.Pow(o.Beta2, float64(o.t))
	for name, p := range params {
		g, m, v := grads[name], o.m[name], o.v[name]
		m.Apply(func(i, j int, x float64) float64 {
			return o.Beta1*x + (1-o.Beta1)*g.At(i, j)
		}, m)
		v.Apply(func(i, j int, x float64) float64 {
			gij := g.At(i, j)
			return o.Beta2*x + (1-o.Beta2)*gij*gij
		}, v)
		p.Apply(func(i, j int, x float64) float64 {
			mHat := m.At(i, j) / c1
			vHat := v.At(i, j) / c2
			return x - o.LearningRate*mHat/(math.Sqrt(vHat)+o.Epsilon)
		}, p)
	}
}

// RMSprop scales each step by a running average of squared gradients.
type RMSprop struct {
	LearningRate float64
	Rho          float64
	Epsilon      float64

	ms map[string]*mat.Dense
}

// NewRMSprop returns an RMSprop optimizer with rho=0.9.
func NewRMSprop(lr float64) *RMSprop {
	return &RMSprop{
		LearningRate: lr,
		Rho:          0.9,
		Epsilon:      1e-7,
	}
}

// Step implements Optimizer.
func (o *RMSprop) Step(params, grads map[string]*mat.Dense) {
	if o.ms == nil {
		o.ms = zerosLike(params)
	}

	for name, p := range params {
		g, ms := grads[name], o.ms[name]
		ms.Apply(func(i, j int, x float64) float64 {
			gij := g.At(i, j)
			return o.Rho*x + (1-o.Rho)*gij*gij
		}, ms)
		p.Apply(func(i, j int, x float64) float64 {
			return x - o.LearningRate*g.At(i, j)/(math.Sqrt(ms.At(i, j))+o.Epsilon)
		}, p)
	}
}

func zerosLike(params map[string]*mat.Dense) map[string]*mat.Dense {
	result := make(map[string]*mat.Dense, len(params))
	for name, p := range params {
		r, c := p.Dims()
		result[name] = mat.NewDense(r, c, nil)
	}
	return result
}
