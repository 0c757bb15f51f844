package analysis

import (
	"math"

	"github.com/san-kum/contnet/internal/ode"
	"github.com/san-kum/contnet/internal/tensor"
)

// Sensitivity estimates how strongly the flow over [0, 1] amplifies a
// perturbation of the first component of x0. It runs two nearby
// trajectories and returns ln(|dx(1)| / |dx(0)|). A positive value means
// the flow separates nearby states.
func Sensitivity[P, S any](
	params ode.ContinuousParameters[P],
	x0 tensor.Tensor,
	f ode.RateEquation[P, S],
	scheme ode.Scheme[P, S],
	nStep int,
	perturbation float64,
) (float64, error) {
	if x0.Len() == 0 || perturbation == 0 {
		return 0, nil
	}

	shifted, dst := tensor.ZerosLike(x0)
	copy(dst, x0.Data())
	dst[0] += perturbation

	x, err := ode.IntegrateFast(params, x0, f, scheme, nStep)
	if err != nil {
		return 0, err
	}
	xp, err := ode.IntegrateFast(params, shifted, f, scheme, nStep)
	if err != nil {
		return 0, err
	}

	sep, err := tensor.Sub(xp, x)
	if err != nil {
		return 0, err
	}
	d := sep.Norm()
	if d == 0 {
		return math.Inf(-1), nil
	}
	return math.Log(d / math.Abs(perturbation)), nil
}
