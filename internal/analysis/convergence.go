package analysis

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/contnet/internal/ode"
	"github.com/san-kum/contnet/internal/tensor"
	"gonum.org/v1/gonum/stat"
)

var ErrTooFewRuns = errors.New("analysis: convergence needs at least two step counts")

// ConvergenceResult holds the global error of one scheme at several
// resolutions.
type ConvergenceResult struct {
	Method ode.Method
	Steps  []int
	Errors []float64
	// Order is the least-squares slope of log(error) against log(1/n).
	Order float64
}

// Ratios returns the observed order between consecutive resolutions.
func (r ConvergenceResult) Ratios() []float64 {
	out := make([]float64, 0, len(r.Steps)-1)
	for i := 1; i < len(r.Steps); i++ {
		h := float64(r.Steps[i]) / float64(r.Steps[i-1])
		out = append(out, math.Log(r.Errors[i-1]/r.Errors[i])/math.Log(h))
	}
	return out
}

// Convergence integrates x0 with method m at every step count in steps and
// measures the distance of the final state from exact.
func Convergence[P, S any](
	params ode.ContinuousParameters[P],
	x0 tensor.Tensor,
	f ode.RateEquation[P, S],
	exact tensor.Tensor,
	m ode.Method,
	steps []int,
) (ConvergenceResult, error) {
	if len(steps) < 2 {
		return ConvergenceResult{}, ErrTooFewRuns
	}
	scheme, err := ode.SchemeFor[P, S](m)
	if err != nil {
		return ConvergenceResult{}, err
	}

	ns := append([]int(nil), steps...)
	sort.Ints(ns)

	res := ConvergenceResult{Method: m, Steps: ns, Errors: make([]float64, len(ns))}
	logH := make([]float64, len(ns))
	logE := make([]float64, len(ns))
	for i, n := range ns {
		x, err := ode.IntegrateFast(params, x0, f, scheme, n)
		if err != nil {
			return ConvergenceResult{}, fmt.Errorf("analysis: %s with %d steps: %w", m, n, err)
		}
		diff, err := tensor.Sub(x, exact)
		if err != nil {
			return ConvergenceResult{}, err
		}
		res.Errors[i] = diff.Norm()
		logH[i] = math.Log(1 / float64(n))
		logE[i] = math.Log(res.Errors[i])
	}

	_, res.Order = stat.LinearRegression(logH, logE, nil, false)
	return res, nil
}
