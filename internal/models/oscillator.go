package models

import (
	"math"

	"github.com/san-kum/contnet/internal/tensor"
)

// Oscillator is the harmonic oscillator q'' = -omega^2 q with state (q, v).
type Oscillator struct {
	Omega float64
}

func NewOscillator() *Oscillator {
	return &Oscillator{Omega: 2 * math.Pi}
}

func (o *Oscillator) Name() string { return "oscillator" }

func (o *Oscillator) Derivative(omega float64, x tensor.Tensor) (struct{}, tensor.Tensor, error) {
	if x.Len() != 2 || x.Rank() != 1 {
		return struct{}{}, tensor.Tensor{}, &tensor.ShapeError{Op: "oscillator", Want: []int{2}, Got: x.Shape()}
	}
	q, v := x.At(0), x.At(1)
	return struct{}{}, tensor.Vector(v, -omega*omega*q), nil
}

func (o *Oscillator) Nodes(n int) []float64 {
	nodes := make([]float64, n)
	for i := range nodes {
		nodes[i] = o.Omega
	}
	return nodes
}

// Exact is the solution at t for a constant frequency.
func (o *Oscillator) Exact(x0 tensor.Tensor, t float64) tensor.Tensor {
	q0, v0 := x0.At(0), x0.At(1)
	w := o.Omega
	c, s := math.Cos(w*t), math.Sin(w*t)
	return tensor.Vector(q0*c+v0/w*s, -q0*w*s+v0*c)
}

// Energy is the conserved quantity 0.5 (v^2 + omega^2 q^2).
func (o *Oscillator) Energy(x tensor.Tensor) float64 {
	q, v := x.At(0), x.At(1)
	return 0.5 * (v*v + o.Omega*o.Omega*q*q)
}
