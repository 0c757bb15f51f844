package ode

import "github.com/san-kum/contnet/internal/tensor"

// Euler is the forward Euler method, O(dt).
func Euler[P, S any](params ContinuousParameters[P], x tensor.Tensor, t0 float64, f RateEquation[P, S], dt float64) (S, tensor.Tensor, error) {
	var zero S

	state1, k1, err := stage(params, f, t0, x)
	if err != nil {
		return zero, tensor.Tensor{}, err
	}

	result, err := tensor.AddScaled(x, dt, k1)
	if err != nil {
		return zero, tensor.Tensor{}, err
	}
	return state1, result, nil
}
