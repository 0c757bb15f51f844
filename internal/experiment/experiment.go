package experiment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/san-kum/contnet/internal/analysis"
	"github.com/san-kum/contnet/internal/config"
	"github.com/san-kum/contnet/internal/ode"
	"github.com/san-kum/contnet/internal/storage"
	"github.com/san-kum/contnet/internal/tensor"
)

// epsilonMargin is how many domain epsilons a step must span before the
// final stage of RK4 stops being meaningfully inside the step.
const epsilonMargin = 10

type Result struct {
	Times    []float64
	States   []tensor.Tensor
	Aux      []any
	Metrics  map[string]float64
	Duration time.Duration
}

// Final returns the last visited state.
func (r *Result) Final() tensor.Tensor {
	return r.States[len(r.States)-1]
}

func (r *Result) Trajectory() storage.Trajectory {
	return storage.Trajectory{Times: r.Times, States: r.States}
}

type Option func(*Experiment)

func WithLogger(l log.Logger) Option {
	return func(e *Experiment) { e.logger = l }
}

func WithRegistry(r *Registry) Option {
	return func(e *Experiment) { e.registry = r }
}

// WithObserver is called after every step, in addition to the metrics.
// An Ensemble shares fn across its concurrent runs, so fn must be safe for
// concurrent use there.
func WithObserver(fn func(Sample)) Option {
	return func(e *Experiment) { e.observer = fn }
}

type Experiment struct {
	cfg      *config.Config
	registry *Registry
	logger   log.Logger
	observer func(Sample)
}

func New(cfg *config.Config, opts ...Option) *Experiment {
	e := &Experiment{
		cfg:      cfg,
		registry: NewRegistry(),
		logger:   log.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Experiment) Config() *config.Config { return e.cfg }

// CheckStepSize logs a warning when 1/nStep is within a few multiples of
// ode.DomainEpsilon. Steps the scheme cannot take at all are rejected by
// ode.CheckStepSize before this is reached.
func CheckStepSize(logger log.Logger, nStep int) bool {
	dt := 1.0 / float64(nStep)
	if dt >= epsilonMargin*ode.DomainEpsilon {
		return true
	}
	level.Warn(logger).Log("subsys", "ode", "msg", "step size close to domain epsilon", "dt", dt, "epsilon", ode.DomainEpsilon)
	return false
}

func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := ode.CheckStepSize(e.cfg.Scheme, e.cfg.NStep); err != nil {
		return nil, err
	}

	inst, err := e.registry.Build(e.cfg)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", e.cfg.Model, err)
	}
	CheckStepSize(e.logger, e.cfg.NStep)

	logger := log.With(e.logger, "subsys", "experiment", "model", e.cfg.Model, "scheme", e.cfg.Scheme)
	level.Info(logger).Log("msg", "start", "n_step", e.cfg.NStep, "basis", e.cfg.Basis, "nodes", e.cfg.Nodes, "shape", fmt.Sprint(inst.X0.Shape()))

	res := &Result{
		Times:  make([]float64, 0, e.cfg.NStep+1),
		States: make([]tensor.Tensor, 0, e.cfg.NStep+1),
		Aux:    make([]any, 0, e.cfg.NStep),
	}
	res.Times = append(res.Times, 0)
	res.States = append(res.States, inst.X0.Clone())
	for _, m := range inst.Metrics {
		m.Reset()
		m.Observe(inst.X0, nil, 0)
	}

	start := time.Now()
	_, err = inst.Model.Integrate(e.cfg.Scheme, inst.X0, e.cfg.NStep, func(s Sample) {
		res.Times = append(res.Times, s.Time)
		res.States = append(res.States, s.State)
		res.Aux = append(res.Aux, s.Aux)
		for _, m := range inst.Metrics {
			m.Observe(s.State, s.Aux, s.Time)
		}
		if e.observer != nil {
			e.observer(s)
		}
	})
	res.Duration = time.Since(start)
	if err != nil {
		level.Error(logger).Log("msg", "integration failed", "err", err)
		return nil, err
	}

	res.Metrics = make(map[string]float64, len(inst.Metrics))
	for _, m := range inst.Metrics {
		res.Metrics[m.Name()] = m.Value()
	}
	if inst.Exact != nil {
		if diff, err := tensor.Sub(res.Final(), inst.Exact(inst.X0)); err == nil {
			res.Metrics["global_error"] = diff.Norm()
		}
	}

	level.Info(logger).Log("msg", "finished", "duration", res.Duration, "final_norm", res.Final().Norm())
	return res, ctx.Err()
}

// Metadata describes a finished run for storage.
func Metadata(cfg *config.Config, res *Result) storage.RunMetadata {
	meta := storage.RunMetadata{
		Model:   cfg.Model,
		Seed:    cfg.Seed,
		Scheme:  cfg.Scheme.String(),
		NStep:   cfg.NStep,
		Basis:   string(cfg.Basis),
		Nodes:   cfg.Nodes,
		Metrics: res.Metrics,
	}
	if len(res.States) > 0 {
		meta.Shape = res.States[0].Shape()
	}
	return meta
}

// ErrNoExactSolution is returned by Converge for models without a closed
// form at t=1.
var ErrNoExactSolution = errors.New("experiment: model has no exact solution")

// Converge measures the global error of every method at each step count.
// The config's own scheme and n_step are ignored.
func (e *Experiment) Converge(methods []ode.Method, steps []int) ([]analysis.ConvergenceResult, error) {
	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}
	inst, err := e.registry.Build(e.cfg)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", e.cfg.Model, err)
	}
	if inst.Exact == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoExactSolution, e.cfg.Model)
	}

	exact := inst.Exact(inst.X0)
	out := make([]analysis.ConvergenceResult, 0, len(methods))
	for _, m := range methods {
		for _, n := range steps {
			if err := ode.CheckStepSize(m, n); err != nil {
				return nil, err
			}
		}
		res, err := inst.Model.Convergence(m, inst.X0, exact, steps)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", m, err)
		}
		level.Debug(e.logger).Log("subsys", "experiment", "msg", "convergence", "scheme", m, "order", res.Order)
		out = append(out, res)
	}
	return out, nil
}

// Sensitivity returns the log growth of a perturbation of the first
// component of the initial state over [0, 1].
func (e *Experiment) Sensitivity(perturbation float64) (float64, error) {
	if err := e.cfg.Validate(); err != nil {
		return 0, err
	}
	if err := ode.CheckStepSize(e.cfg.Scheme, e.cfg.NStep); err != nil {
		return 0, err
	}
	inst, err := e.registry.Build(e.cfg)
	if err != nil {
		return 0, fmt.Errorf("build %s: %w", e.cfg.Model, err)
	}
	return inst.Model.Sensitivity(e.cfg.Scheme, inst.X0, e.cfg.NStep, perturbation)
}
