package ode

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownScheme indicates a scheme name missing from the registry.
	ErrUnknownScheme = errors.New("ode: unknown integration scheme")

	// ErrNoSteps indicates a driver call with fewer than one step.
	ErrNoSteps = errors.New("ode: n_step must be at least 1")

	// ErrStepTooSmall indicates a step no wider than DomainEpsilon for a
	// scheme whose final stage sits at t0+dt-DomainEpsilon.
	ErrStepTooSmall = errors.New("ode: step size not larger than domain epsilon")
)

// ConfigurationError reports a scheme requested by a name or tag the
// registry does not know.
type ConfigurationError struct {
	Name string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("ode: unknown integration scheme %q (available: %v)", e.Name, Names())
}

func (e *ConfigurationError) Unwrap() error {
	return ErrUnknownScheme
}

// StepError wraps a failure of the scheme at one grid point.
type StepError struct {
	Step int
	Time float64
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("ode: step %d (t=%.4f): %v", e.Step, e.Time, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// StepSizeError reports a step count whose step the final stage of Method
// would leave on the left.
type StepSizeError struct {
	Method Method
	NStep  int
	Dt     float64
}

func (e *StepSizeError) Error() string {
	return fmt.Sprintf("ode: %s with n_step=%d: dt=%g must exceed epsilon %g", e.Method, e.NStep, e.Dt, DomainEpsilon)
}

func (e *StepSizeError) Unwrap() error {
	return ErrStepTooSmall
}
