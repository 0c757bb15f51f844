package ode

import (
	"fmt"

	"github.com/san-kum/contnet/internal/tensor"
)

// IntegrateObserved advances x over [0, 1] in nStep uniform steps, calling
// observe after each step. Step i starts at t_i = i/nStep; the grid never
// includes 1. It returns the final state.
func IntegrateObserved[P, S any](params ContinuousParameters[P], x tensor.Tensor, f RateEquation[P, S], scheme Scheme[P, S], nStep int, observe func(Step[S])) (tensor.Tensor, error) {
	if nStep < 1 {
		return tensor.Tensor{}, fmt.Errorf("%w: got %d", ErrNoSteps, nStep)
	}

	dt := 1.0 / float64(nStep)
	for i := 0; i < nStep; i++ {
		t := float64(i) / float64(nStep)

		aux, next, err := scheme(params, x, t, f, dt)
		if err != nil {
			return tensor.Tensor{}, &StepError{Step: i, Time: t, Err: err}
		}
		x = next

		if observe != nil {
			observe(Step[S]{Index: i, Time: t, State: x, Aux: aux})
		}
	}
	return x, nil
}

// IntegrateFast advances x over [0, 1] in nStep steps and returns only the
// final state. Auxiliary state is discarded.
func IntegrateFast[P, S any](params ContinuousParameters[P], x tensor.Tensor, f RateEquation[P, S], scheme Scheme[P, S], nStep int) (tensor.Tensor, error) {
	return IntegrateObserved(params, x, f, scheme, nStep, nil)
}

// IntegrateWithPoints runs the same loop as IntegrateFast and returns the
// nStep+1 states visited, starting with a copy of x.
func IntegrateWithPoints[P, S any](params ContinuousParameters[P], x tensor.Tensor, f RateEquation[P, S], scheme Scheme[P, S], nStep int) ([]tensor.Tensor, error) {
	if nStep < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrNoSteps, nStep)
	}

	xs := make([]tensor.Tensor, 0, nStep+1)
	xs = append(xs, x.Clone())
	_, err := IntegrateObserved(params, x, f, scheme, nStep, func(s Step[S]) {
		xs = append(xs, s.State)
	})
	if err != nil {
		return nil, err
	}
	return xs, nil
}

// Integrator binds a method and step count for repeated runs.
type Integrator[P, S any] struct {
	Method Method
	NSteps int
}

// NewIntegrator returns an Integrator for the named scheme.
func NewIntegrator[P, S any](name string, nStep int) (*Integrator[P, S], error) {
	m, err := ParseMethod(name)
	if err != nil {
		return nil, err
	}
	if nStep < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrNoSteps, nStep)
	}
	return &Integrator[P, S]{Method: m, NSteps: nStep}, nil
}

// Dt returns the step size.
func (in *Integrator[P, S]) Dt() float64 {
	return 1.0 / float64(in.NSteps)
}

// Fast integrates x and returns the final state.
func (in *Integrator[P, S]) Fast(params ContinuousParameters[P], x tensor.Tensor, f RateEquation[P, S]) (tensor.Tensor, error) {
	scheme, err := SchemeFor[P, S](in.Method)
	if err != nil {
		return tensor.Tensor{}, err
	}
	return IntegrateFast(params, x, f, scheme, in.NSteps)
}

// WithPoints integrates x and returns every visited state.
func (in *Integrator[P, S]) WithPoints(params ContinuousParameters[P], x tensor.Tensor, f RateEquation[P, S]) ([]tensor.Tensor, error) {
	scheme, err := SchemeFor[P, S](in.Method)
	if err != nil {
		return nil, err
	}
	return IntegrateWithPoints(params, x, f, scheme, in.NSteps)
}

// Observed integrates x and reports each step to observe.
func (in *Integrator[P, S]) Observed(params ContinuousParameters[P], x tensor.Tensor, f RateEquation[P, S], observe func(Step[S])) (tensor.Tensor, error) {
	scheme, err := SchemeFor[P, S](in.Method)
	if err != nil {
		return tensor.Tensor{}, err
	}
	return IntegrateObserved(params, x, f, scheme, in.NSteps, observe)
}
