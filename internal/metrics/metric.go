package metrics

import "github.com/san-kum/contnet/internal/tensor"

// Metric accumulates a scalar over the states of one integration.
type Metric interface {
	Name() string
	Observe(x tensor.Tensor, aux any, t float64)
	Value() float64
	Reset()
}

// Conserved is implemented by models with an invariant of motion.
type Conserved interface {
	Energy(x tensor.Tensor) float64
}

// Collect returns the current value of every metric keyed by name.
func Collect(ms []Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}
