package ode

import "github.com/san-kum/contnet/internal/tensor"

// DomainEpsilon is subtracted from the time of a final stage that would
// otherwise land on t0+dt, keeping every evaluation inside [t0, t0+dt).
const DomainEpsilon = 1.0e-5

const (
	half         = 0.5
	oneThird     = 1.0 / 3.0
	twoThirds    = 2.0 / 3.0
	oneSixth     = 1.0 / 6.0
	oneEighth    = 1.0 / 8.0
	threeEighths = 3.0 / 8.0
)

// stage evaluates f at time t and checks that the derivative is shaped like x.
func stage[P, S any](params ContinuousParameters[P], f RateEquation[P, S], t float64, x tensor.Tensor) (S, tensor.Tensor, error) {
	state, k, err := f(params.At(t), x)
	if err != nil {
		return state, tensor.Tensor{}, err
	}
	if err := tensor.CheckShape("rate equation", x, k); err != nil {
		return state, tensor.Tensor{}, err
	}
	return state, k, nil
}
