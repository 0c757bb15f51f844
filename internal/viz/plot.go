package viz

import (
	"fmt"
	"math"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/contnet/internal/analysis"
	"github.com/san-kum/contnet/internal/tensor"
)

// Component extracts flat component idx from every state.
func Component(states []tensor.Tensor, idx int) ([]float64, error) {
	out := make([]float64, len(states))
	for i, x := range states {
		if idx < 0 || idx >= x.Len() {
			return nil, fmt.Errorf("viz: component %d out of range for shape %v", idx, x.Shape())
		}
		out[i] = x.At(idx)
	}
	return out, nil
}

// Norms returns the L2 norm of every state.
func Norms(states []tensor.Tensor) []float64 {
	out := make([]float64, len(states))
	for i, x := range states {
		out[i] = x.Norm()
	}
	return out
}

// PlotComponent charts one component of a trajectory over its steps.
func PlotComponent(states []tensor.Tensor, idx, width, height int) (string, error) {
	data, err := Component(states, idx)
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", nil
	}
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(fmt.Sprintf("x%d", idx)),
	), nil
}

// PlotComponents charts several components on shared axes.
func PlotComponents(states []tensor.Tensor, idxs []int, width, height int) (string, error) {
	series := make([][]float64, 0, len(idxs))
	colors := []asciigraph.AnsiColor{asciigraph.Red, asciigraph.Green, asciigraph.Blue, asciigraph.Yellow, asciigraph.Cyan}
	for _, idx := range idxs {
		data, err := Component(states, idx)
		if err != nil {
			return "", err
		}
		series = append(series, data)
	}
	if len(series) == 0 || len(series[0]) == 0 {
		return "", nil
	}

	opts := []asciigraph.Option{
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(fmt.Sprintf("components %v", idxs)),
	}
	if len(series) <= len(colors) {
		opts = append(opts, asciigraph.SeriesColors(colors[:len(series)]...))
	}
	return asciigraph.PlotMany(series, opts...), nil
}

// PlotNorms charts ||x|| over a trajectory.
func PlotNorms(states []tensor.Tensor, width, height int) string {
	if len(states) == 0 {
		return ""
	}
	return asciigraph.Plot(Norms(states),
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption("||x||"),
	)
}

// PlotConvergence charts log2 of the global error of each study against
// log2 of the step count.
func PlotConvergence(results []analysis.ConvergenceResult, width, height int) string {
	series := make([][]float64, 0, len(results))
	for _, r := range results {
		s := make([]float64, len(r.Errors))
		for i, e := range r.Errors {
			s[i] = math.Log2(math.Max(e, math.SmallestNonzeroFloat64))
		}
		series = append(series, s)
	}
	if len(series) == 0 {
		return ""
	}
	return asciigraph.PlotMany(series,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption("log2 global error vs refinement"),
	)
}
