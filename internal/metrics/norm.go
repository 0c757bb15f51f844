package metrics

import "github.com/san-kum/contnet/internal/tensor"

// NormGrowth is ||x_last|| / ||x_first|| over the observed states.
type NormGrowth struct {
	name    string
	first   float64
	last    float64
	samples int
}

func NewNormGrowth() *NormGrowth {
	return &NormGrowth{name: "norm_growth"}
}

func (n *NormGrowth) Name() string { return n.name }

func (n *NormGrowth) Observe(x tensor.Tensor, aux any, t float64) {
	norm := x.Norm()
	if n.samples == 0 {
		n.first = norm
	}
	n.last = norm
	n.samples++
}

func (n *NormGrowth) Value() float64 {
	if n.samples == 0 || n.first == 0 {
		return 1.0
	}
	return n.last / n.first
}

func (n *NormGrowth) Reset() {
	n.first, n.last = 0, 0
	n.samples = 0
}
