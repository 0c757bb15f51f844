package ode

import "github.com/san-kum/contnet/internal/tensor"

// ContinuousParameters yields the parameter snapshot in effect at time t.
// Implementations need only be defined for t in [0, 1).
type ContinuousParameters[P any] interface {
	At(t float64) P
}

// ParamsFunc adapts an ordinary function to ContinuousParameters.
type ParamsFunc[P any] func(t float64) P

func (f ParamsFunc[P]) At(t float64) P { return f(t) }

type constant[P any] struct{ p P }

func (c constant[P]) At(float64) P { return c.p }

// Constant returns parameters that do not depend on time.
func Constant[P any](p P) ContinuousParameters[P] {
	return constant[P]{p: p}
}

// RateEquation evaluates dx/dt for state x under parameters p and returns it
// together with the auxiliary state produced by the evaluation. The
// derivative must have the shape of x.
type RateEquation[P, S any] func(p P, x tensor.Tensor) (S, tensor.Tensor, error)

// Scheme advances x from t0 by dt and returns the auxiliary state of its
// final stage with the new state.
type Scheme[P, S any] func(params ContinuousParameters[P], x tensor.Tensor, t0 float64, f RateEquation[P, S], dt float64) (S, tensor.Tensor, error)

// Step describes one completed step of the driver loop.
type Step[S any] struct {
	Index int
	Time  float64 // start of the step
	State tensor.Tensor
	Aux   S
}
