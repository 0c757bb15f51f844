package models

import (
	"math"

	"github.com/san-kum/contnet/internal/tensor"
)

// Decay is dx/dt = -k(t) x.
type Decay struct {
	Rate float64
}

func NewDecay() *Decay {
	return &Decay{Rate: 1.0}
}

func (d *Decay) Name() string { return "decay" }

// Derivative evaluates the rate equation with parameter k.
func (d *Decay) Derivative(k float64, x tensor.Tensor) (struct{}, tensor.Tensor, error) {
	return struct{}{}, tensor.Scale(-k, x), nil
}

// Nodes returns n copies of the model rate.
func (d *Decay) Nodes(n int) []float64 {
	nodes := make([]float64, n)
	for i := range nodes {
		nodes[i] = d.Rate
	}
	return nodes
}

// Exact is the solution at t for a constant rate.
func (d *Decay) Exact(x0 tensor.Tensor, t float64) tensor.Tensor {
	return tensor.Scale(math.Exp(-d.Rate*t), x0)
}
