package metrics

import (
	"github.com/san-kum/contnet/internal/tensor"
)

// Stability is the fraction of observed states that are finite and whose
// norm stays within growth times the norm of the first state. A zero first
// state is bounded by growth itself.
type Stability struct {
	growth float64
	bound  float64

	bounded, seen int
}

func NewStability(growth float64) *Stability {
	return &Stability{growth: growth}
}

func (s *Stability) Name() string { return "stability" }

func (s *Stability) Observe(x tensor.Tensor, _ any, _ float64) {
	if s.seen == 0 {
		s.bound = s.growth * max(x.Norm(), 1)
	}
	s.seen++
	if x.IsValid() && x.Norm() <= s.bound {
		s.bounded++
	}
}

func (s *Stability) Value() float64 {
	if s.seen == 0 {
		return 1
	}
	return float64(s.bounded) / float64(s.seen)
}

func (s *Stability) Reset() {
	s.bounded, s.seen, s.bound = 0, 0, 0
}
