package experiment

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/san-kum/contnet/internal/config"
	"github.com/san-kum/contnet/internal/metrics"
	"github.com/san-kum/contnet/internal/models"
	"github.com/san-kum/contnet/internal/params"
	"github.com/san-kum/contnet/internal/tensor"
)

// Builder turns a config into a runnable instance. rng is seeded from the
// config and may be used to draw initial states.
type Builder func(cfg *config.Config, rng *rand.Rand) (*Instance, error)

type Registry struct {
	models map[string]Builder
}

func NewRegistry() *Registry {
	r := &Registry{models: make(map[string]Builder)}

	r.models["decay"] = buildDecay
	r.models["oscillator"] = buildOscillator
	r.models["dense"] = buildDense

	return r
}

// Register adds or replaces a model builder.
func (r *Registry) Register(name string, b Builder) {
	r.models[name] = b
}

func (r *Registry) Build(cfg *config.Config) (*Instance, error) {
	fn, ok := r.models[cfg.Model]
	if !ok {
		return nil, fmt.Errorf("unknown model: %s", cfg.Model)
	}
	return fn(cfg, rand.New(rand.NewSource(cfg.Seed)))
}

func (r *Registry) ListModels() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func defaultMetrics() []metrics.Metric {
	return []metrics.Metric{
		metrics.NewStability(1e3),
		metrics.NewNormGrowth(),
		metrics.NewAuxUpdates(),
	}
}

func initialState(cfg *config.Config, fallback tensor.Tensor) (tensor.Tensor, error) {
	x, ok, err := cfg.InitialState()
	if err != nil {
		return tensor.Tensor{}, err
	}
	if !ok {
		return fallback, nil
	}
	return x, nil
}

func buildDecay(cfg *config.Config, _ *rand.Rand) (*Instance, error) {
	d := &models.Decay{Rate: cfg.ModelParams.Rate}
	basis, err := params.New(cfg.Basis, d.Nodes(cfg.Nodes), params.LerpFloat64)
	if err != nil {
		return nil, err
	}
	x0, err := initialState(cfg, tensor.Scalar(1))
	if err != nil {
		return nil, err
	}
	return &Instance{
		Model:   Bind[float64, struct{}](d.Name(), basis, d.Derivative),
		X0:      x0,
		Metrics: defaultMetrics(),
		Exact:   func(x0 tensor.Tensor) tensor.Tensor { return d.Exact(x0, 1) },
	}, nil
}

func buildOscillator(cfg *config.Config, _ *rand.Rand) (*Instance, error) {
	o := &models.Oscillator{Omega: cfg.ModelParams.Omega}
	basis, err := params.New(cfg.Basis, o.Nodes(cfg.Nodes), params.LerpFloat64)
	if err != nil {
		return nil, err
	}
	x0, err := initialState(cfg, tensor.Vector(1, 0))
	if err != nil {
		return nil, err
	}
	return &Instance{
		Model:   Bind[float64, struct{}](o.Name(), basis, o.Derivative),
		X0:      x0,
		Metrics: append(defaultMetrics(), metrics.NewEnergyDrift(o)),
		Exact:   func(x0 tensor.Tensor) tensor.Tensor { return o.Exact(x0, 1) },
	}, nil
}

func buildDense(cfg *config.Config, rng *rand.Rand) (*Instance, error) {
	d := models.NewDense(cfg.Dense.Batch, cfg.Dense.Width, cfg.Dense.Momentum)
	basis, err := params.New(cfg.Basis, d.Nodes(cfg.Nodes, cfg.Seed), models.LerpLayer)
	if err != nil {
		return nil, err
	}

	data := make([]float64, d.Batch*d.Width)
	for i := range data {
		data[i] = rng.NormFloat64()
	}
	x0, err := initialState(cfg, tensor.MustNew([]int{d.Batch, d.Width}, data))
	if err != nil {
		return nil, err
	}
	return &Instance{
		Model:   Bind[models.Layer, models.NormStats](d.Name(), basis, d.Derivative),
		X0:      x0,
		Metrics: defaultMetrics(),
	}, nil
}
