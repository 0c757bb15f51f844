package automation

import (
	"context"
	"fmt"

	"github.com/san-kum/contnet/internal/config"
	"github.com/san-kum/contnet/internal/experiment"
	"github.com/san-kum/contnet/internal/tensor"
)

// ParameterSweep varies one tunable parameter of a base config over an
// evenly spaced range.
type ParameterSweep struct {
	Base      *config.Config
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
}

// SweepResult holds results from a parameter sweep
type SweepResult struct {
	ParamValue float64
	FinalState tensor.Tensor
	FinalNorm  float64
	Metrics    map[string]float64
}

// Values returns the parameter values the sweep visits.
func (s *ParameterSweep) Values() []float64 {
	if s.NumSteps == 1 {
		return []float64{s.ParamMin}
	}
	vals := make([]float64, s.NumSteps)
	step := (s.ParamMax - s.ParamMin) / float64(s.NumSteps-1)
	for i := range vals {
		vals[i] = s.ParamMin + float64(i)*step
	}
	return vals
}

// RunSweep executes a parameter sweep
func RunSweep(ctx context.Context, sweep *ParameterSweep, opts ...experiment.Option) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("sweep needs at least one value (got %d)", sweep.NumSteps)
	}
	results := make([]SweepResult, 0, sweep.NumSteps)

	for _, v := range sweep.Values() {
		cfg := sweep.Base.Clone()
		if err := cfg.SetParam(sweep.ParamName, v); err != nil {
			return nil, err
		}

		res, err := experiment.New(cfg, opts...).Run(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sweep.ParamName, v, err)
		}
		final := res.Final()
		results = append(results, SweepResult{
			ParamValue: v,
			FinalState: final,
			FinalNorm:  final.Norm(),
			Metrics:    res.Metrics,
		})
	}

	return results, nil
}
