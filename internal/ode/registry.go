package ode

import (
	"fmt"
	"strconv"
	"strings"
)

// Method identifies one of the built-in schemes.
type Method int

const (
	MethodEuler Method = iota
	MethodMidpoint
	MethodRK4
	MethodRK438
)

// MethodInfo describes a scheme's tableau.
type MethodInfo struct {
	Name   string
	Stages int
	Order  int
}

var methodInfo = [...]MethodInfo{
	MethodEuler:    {Name: "Euler", Stages: 1, Order: 1},
	MethodMidpoint: {Name: "Midpoint", Stages: 2, Order: 2},
	MethodRK4:      {Name: "RK4", Stages: 4, Order: 4},
	MethodRK438:    {Name: "RK4_38", Stages: 4, Order: 4},
}

// Methods returns every built-in method in registry order.
func Methods() []Method {
	return []Method{MethodEuler, MethodMidpoint, MethodRK4, MethodRK438}
}

// Names returns the canonical scheme names in registry order.
func Names() []string {
	names := make([]string, 0, len(methodInfo))
	for _, info := range methodInfo {
		names = append(names, info.Name)
	}
	return names
}

// ParseMethod resolves a scheme name. Matching ignores case, so "rk4" and
// "RK4" name the same scheme.
func ParseMethod(name string) (Method, error) {
	for m, info := range methodInfo {
		if strings.EqualFold(info.Name, name) {
			return Method(m), nil
		}
	}
	return 0, &ConfigurationError{Name: name}
}

// Valid reports whether m names a built-in scheme.
func (m Method) Valid() bool {
	return m >= 0 && int(m) < len(methodInfo)
}

// Info returns the tableau summary of m.
func (m Method) Info() MethodInfo {
	if !m.Valid() {
		return MethodInfo{}
	}
	return methodInfo[m]
}

func (m Method) String() string {
	if !m.Valid() {
		return "Method(" + strconv.Itoa(int(m)) + ")"
	}
	return methodInfo[m].Name
}

// Set parses s into m, so *Method can back a command-line flag.
func (m *Method) Set(s string) error {
	v, err := ParseMethod(s)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Type names the flag value type.
func (m *Method) Type() string { return "scheme" }

func (m Method) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, &ConfigurationError{Name: m.String()}
	}
	return []byte(m.String()), nil
}

func (m *Method) UnmarshalText(text []byte) error {
	return m.Set(string(text))
}

// SchemeFor returns the scheme implementing m.
func SchemeFor[P, S any](m Method) (Scheme[P, S], error) {
	switch m {
	case MethodEuler:
		return Euler[P, S], nil
	case MethodMidpoint:
		return Midpoint[P, S], nil
	case MethodRK4:
		return RK4[P, S], nil
	case MethodRK438:
		return RK438[P, S], nil
	default:
		return nil, &ConfigurationError{Name: m.String()}
	}
}

// Lookup returns the scheme registered under name.
func Lookup[P, S any](name string) (Scheme[P, S], error) {
	m, err := ParseMethod(name)
	if err != nil {
		return nil, err
	}
	return SchemeFor[P, S](m)
}

// CheckStepSize fails when m cannot take nStep steps over [0, 1] without a
// stage leaving its step. Only the four-stage schemes query t0+dt-ε.
func CheckStepSize(m Method, nStep int) error {
	if nStep < 1 {
		return fmt.Errorf("%w: got %d", ErrNoSteps, nStep)
	}
	dt := 1.0 / float64(nStep)
	if (m == MethodRK4 || m == MethodRK438) && dt <= DomainEpsilon {
		return &StepSizeError{Method: m, NStep: nStep, Dt: dt}
	}
	return nil
}
