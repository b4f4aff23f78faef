// Package learning implements the optimizer driving discriminator training.
package learning

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Adam applies the Adam update rule with L2 weight decay folded into the
// gradient, matching the torch convention of weight_decay on Adam. The
// moment buffers are allocated lazily on the first Step and keyed by
// parameter position, so the same parameter list must be passed on every
// call.
type Adam struct {
	LearningRate float64
	Beta1        float64
	Beta2        float64
	Epsilon      float64
	WeightDecay  float64

	step int
	m    [][]float64
	v    [][]float64
}

// NewAdam returns an optimizer with the conventional beta and epsilon
// defaults.
func NewAdam(learningRate, weightDecay float64) *Adam {
	return &Adam{
		LearningRate: learningRate,
		Beta1:        0.9,
		Beta2:        0.999,
		Epsilon:      1e-8,
		WeightDecay:  weightDecay,
	}
}

// Step applies one update to params in place from the matching grads slice.
// Both slices must be position-stable across calls.
func (a *Adam) Step(params, grads []*mat.Dense) {
	if a.m == nil {
		a.m = make([][]float64, len(params))
		a.v = make([][]float64, len(params))
		for i, p := range params {
			n := len(p.RawMatrix().Data)
			a.m[i] = make([]float64, n)
			a.v[i] = make([]float64, n)
		}
	}
	a.step++
	c1 := 1 - math.Pow(a.Beta1, float64(a.step))
	c2 := 1 - math.Pow(a.Beta2, float64(a.step))

	for i, p := range params {
		pd := p.RawMatrix().Data
		gd := grads[i].RawMatrix().Data
		m, v := a.m[i], a.v[i]
		for k := range pd {
			g := gd[k] + a.WeightDecay*pd[k]
			m[k] = a.Beta1*m[k] + (1-a.Beta1)*g
			v[k] = a.Beta2*v[k] + (1-a.Beta2)*g*g
			mhat := m[k] / c1
			vhat := v[k] / c2
			pd[k] -= a.LearningRate * mhat / (math.Sqrt(vhat) + a.Epsilon)
		}
	}
}
