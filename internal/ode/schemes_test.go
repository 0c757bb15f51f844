package ode

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/contnet/internal/tensor"
	"gonum.org/v1/gonum/floats"
)

type none = struct{}

func decay(_ none, x tensor.Tensor) (none, tensor.Tensor, error) {
	return none{}, tensor.Scale(-1, x), nil
}

// timeRecorder remembers every time the parameters were queried at.
type timeRecorder struct {
	times []float64
}

func (r *timeRecorder) At(t float64) none {
	r.times = append(r.times, t)
	return none{}
}

// counter returns the running number of calls as its auxiliary state.
func counter() RateEquation[none, int] {
	calls := 0
	return func(_ none, x tensor.Tensor) (int, tensor.Tensor, error) {
		calls++
		return calls, tensor.Scale(-1, x), nil
	}
}

func allSchemes[P, S any]() map[string]Scheme[P, S] {
	return map[string]Scheme[P, S]{
		"Euler":    Euler[P, S],
		"Midpoint": Midpoint[P, S],
		"RK4":      RK4[P, S],
		"RK4_38":   RK438[P, S],
	}
}

func TestSchemes_StageTimes(t *testing.T) {
	const t0, dt = 0.25, 0.5

	tests := []struct {
		name   string
		scheme Scheme[none, none]
		want   []float64
	}{
		{"Euler", Euler[none, none], []float64{t0}},
		{"Midpoint", Midpoint[none, none], []float64{t0, t0 + 0.5*dt}},
		{"RK4", RK4[none, none], []float64{t0, t0 + 0.5*dt, t0 + 0.5*dt, t0 + dt - DomainEpsilon}},
		{"RK4_38", RK438[none, none], []float64{t0, t0 + dt/3, t0 + 2*dt/3, t0 + dt - DomainEpsilon}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &timeRecorder{}
			if _, _, err := tt.scheme(rec, tensor.Scalar(1), t0, decay, dt); err != nil {
				t.Fatalf("step: %v", err)
			}
			if !floats.EqualApprox(rec.times, tt.want, 1e-15) {
				t.Errorf("stage times = %v, want %v", rec.times, tt.want)
			}
		})
	}
}

func TestSchemes_StayInsideStep(t *testing.T) {
	for name, scheme := range allSchemes[none, none]() {
		t.Run(name, func(t *testing.T) {
			for _, n := range []int{1, 3, 10, 100} {
				dt := 1.0 / float64(n)
				for i := 0; i < n; i++ {
					t0 := float64(i) / float64(n)
					rec := &timeRecorder{}
					if _, _, err := scheme(rec, tensor.Scalar(1), t0, decay, dt); err != nil {
						t.Fatalf("step: %v", err)
					}
					for _, ts := range rec.times {
						if ts < t0 || ts >= t0+dt {
							t.Fatalf("n=%d step %d queried t=%v outside [%v, %v)", n, i, ts, t0, t0+dt)
						}
					}
				}
			}
		})
	}
}

func TestSchemes_AuxiliaryLastCallWins(t *testing.T) {
	tests := []struct {
		name   string
		scheme Scheme[none, int]
		stages int
	}{
		{"Euler", Euler[none, int], 1},
		{"Midpoint", Midpoint[none, int], 2},
		{"RK4", RK4[none, int], 4},
		{"RK4_38", RK438[none, int], 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			aux, _, err := tt.scheme(Constant(none{}), tensor.Scalar(1), 0, counter(), 0.1)
			if err != nil {
				t.Fatalf("step: %v", err)
			}
			if aux != tt.stages {
				t.Errorf("aux = %d, want %d (value of the final call)", aux, tt.stages)
			}
		})
	}
}

func TestSchemes_ShapePreserved(t *testing.T) {
	shapes := [][]int{{}, {1}, {5}, {2, 3}, {2, 1, 4}}

	for name, scheme := range allSchemes[none, none]() {
		for _, shape := range shapes {
			x, err := tensor.Zeros(shape...)
			if err != nil {
				t.Fatalf("zeros: %v", err)
			}
			_, next, err := scheme(Constant(none{}), x, 0, decay, 0.1)
			if err != nil {
				t.Fatalf("%s %v: %v", name, shape, err)
			}
			if !next.SameShape(x) {
				t.Errorf("%s: shape %v became %v", name, shape, next.Shape())
			}
		}
	}
}

func TestSchemes_ShapeErrorPropagates(t *testing.T) {
	tests := []struct {
		name  string
		x     tensor.Tensor
		deriv tensor.Tensor
	}{
		{"longer derivative", tensor.Vector(1, 2), tensor.Vector(1, 2, 3)},
		{"empty derivative for scalar", tensor.Scalar(1), tensor.Tensor{}},
		{"scalar derivative for vector", tensor.Vector(1), tensor.Scalar(1)},
	}

	for _, tt := range tests {
		wrong := func(_ none, _ tensor.Tensor) (none, tensor.Tensor, error) {
			return none{}, tt.deriv, nil
		}
		for name, scheme := range allSchemes[none, none]() {
			_, _, err := scheme(Constant(none{}), tt.x, 0, wrong, 0.1)
			var shapeErr *tensor.ShapeError
			if !errors.As(err, &shapeErr) {
				t.Errorf("%s/%s: expected *tensor.ShapeError, got %v", tt.name, name, err)
			}
		}
	}
}

func TestSchemes_RateErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	failing := func(_ none, x tensor.Tensor) (none, tensor.Tensor, error) {
		return none{}, tensor.Tensor{}, boom
	}

	for name, scheme := range allSchemes[none, none]() {
		if _, _, err := scheme(Constant(none{}), tensor.Scalar(1), 0, failing, 0.1); !errors.Is(err, boom) {
			t.Errorf("%s: expected rate equation error, got %v", name, err)
		}
	}
}

func TestSchemes_InputNotMutated(t *testing.T) {
	for name, scheme := range allSchemes[none, none]() {
		x := tensor.Vector(1, 2, 3)
		before := x.Clone()
		if _, _, err := scheme(Constant(none{}), x, 0, decay, 0.5); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if !x.Equal(before) {
			t.Errorf("%s mutated its input: %v", name, x)
		}
	}
}

func TestSchemes_SingleStepPolynomial(t *testing.T) {
	// For dx/dt = -x every scheme reproduces the Taylor polynomial of its order.
	const dt = 0.1
	taylor := func(order int) float64 {
		sum, term := 0.0, 1.0
		for k := 0; k <= order; k++ {
			sum += term
			term *= -dt / float64(k+1)
		}
		return sum
	}

	tests := []struct {
		name   string
		scheme Scheme[none, none]
		order  int
	}{
		{"Euler", Euler[none, none], 1},
		{"Midpoint", Midpoint[none, none], 2},
		{"RK4", RK4[none, none], 4},
		{"RK4_38", RK438[none, none], 4},
	}

	for _, tt := range tests {
		_, next, err := tt.scheme(Constant(none{}), tensor.Scalar(1), 0, decay, dt)
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if got, want := next.Item(), taylor(tt.order); math.Abs(got-want) > 1e-14 {
			t.Errorf("%s: one step = %.17g, want %.17g", tt.name, got, want)
		}
	}
}

func TestRK4_TimeDependentRate(t *testing.T) {
	// dx/dt = 2t has solution x(1) = x(0) + 1; RK4 integrates it exactly
	// up to the epsilon shift of the final stage.
	params := ParamsFunc[float64](func(t float64) float64 { return t })
	rate := func(p float64, x tensor.Tensor) (none, tensor.Tensor, error) {
		out, dst := tensor.ZerosLike(x)
		for i := range dst {
			dst[i] = 2 * p
		}
		return none{}, out, nil
	}

	for _, scheme := range []Scheme[float64, none]{RK4[float64, none], RK438[float64, none]} {
		x, err := IntegrateFast(params, tensor.Scalar(0), rate, scheme, 10)
		if err != nil {
			t.Fatalf("integrate: %v", err)
		}
		if math.Abs(x.Item()-1) > 1e-4 {
			t.Errorf("x(1) = %v, want ~1", x.Item())
		}
	}
}
