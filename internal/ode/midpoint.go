package ode

import "github.com/san-kum/contnet/internal/tensor"

// Midpoint is the explicit midpoint method, a two-stage Runge-Kutta, O(dt^2).
func Midpoint[P, S any](params ContinuousParameters[P], x tensor.Tensor, t0 float64, f RateEquation[P, S], dt float64) (S, tensor.Tensor, error) {
	var zero S

	_, k1, err := stage(params, f, t0, x)
	if err != nil {
		return zero, tensor.Tensor{}, err
	}
	x1, err := tensor.AddScaled(x, half*dt, k1)
	if err != nil {
		return zero, tensor.Tensor{}, err
	}

	state2, k2, err := stage(params, f, t0+half*dt, x1)
	if err != nil {
		return zero, tensor.Tensor{}, err
	}

	result, err := tensor.AddScaled(x, dt, k2)
	if err != nil {
		return zero, tensor.Tensor{}, err
	}
	return state2, result, nil
}
