package experiment

import (
	"github.com/san-kum/contnet/internal/analysis"
	"github.com/san-kum/contnet/internal/metrics"
	"github.com/san-kum/contnet/internal/ode"
	"github.com/san-kum/contnet/internal/tensor"
)

// Sample is one completed step with its auxiliary state boxed.
type Sample struct {
	Index int
	Time  float64 // end of the step
	State tensor.Tensor
	Aux   any
}

// Model is a rate equation bound to its parameter basis, with the concrete
// parameter and auxiliary types hidden.
type Model interface {
	Name() string
	Integrate(m ode.Method, x tensor.Tensor, nStep int, observe func(Sample)) (tensor.Tensor, error)
	Convergence(m ode.Method, x0, exact tensor.Tensor, steps []int) (analysis.ConvergenceResult, error)
	Sensitivity(m ode.Method, x0 tensor.Tensor, nStep int, perturbation float64) (float64, error)
}

type system[P, S any] struct {
	name   string
	params ode.ContinuousParameters[P]
	rate   ode.RateEquation[P, S]
}

// Bind erases the type parameters of a rate equation and its parameters.
func Bind[P, S any](name string, params ode.ContinuousParameters[P], rate ode.RateEquation[P, S]) Model {
	return &system[P, S]{name: name, params: params, rate: rate}
}

func (s *system[P, S]) Name() string { return s.name }

func (s *system[P, S]) Integrate(m ode.Method, x tensor.Tensor, nStep int, observe func(Sample)) (tensor.Tensor, error) {
	scheme, err := ode.SchemeFor[P, S](m)
	if err != nil {
		return tensor.Tensor{}, err
	}
	var obs func(ode.Step[S])
	if observe != nil {
		obs = func(st ode.Step[S]) {
			observe(Sample{
				Index: st.Index,
				Time:  float64(st.Index+1) / float64(nStep),
				State: st.State,
				Aux:   st.Aux,
			})
		}
	}
	return ode.IntegrateObserved(s.params, x, s.rate, scheme, nStep, obs)
}

func (s *system[P, S]) Convergence(m ode.Method, x0, exact tensor.Tensor, steps []int) (analysis.ConvergenceResult, error) {
	return analysis.Convergence(s.params, x0, s.rate, exact, m, steps)
}

func (s *system[P, S]) Sensitivity(m ode.Method, x0 tensor.Tensor, nStep int, perturbation float64) (float64, error) {
	scheme, err := ode.SchemeFor[P, S](m)
	if err != nil {
		return 0, err
	}
	return analysis.Sensitivity(s.params, x0, s.rate, scheme, nStep, perturbation)
}

// Instance is a model built from a config, ready to run.
type Instance struct {
	Model   Model
	X0      tensor.Tensor
	Metrics []metrics.Metric
	// Exact returns the closed-form state at t=1, when the model has one.
	Exact func(x0 tensor.Tensor) tensor.Tensor
}
