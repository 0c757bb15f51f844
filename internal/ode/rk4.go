package ode

import "github.com/san-kum/contnet/internal/tensor"

// RK4 is the classic four-stage Runge-Kutta method, O(dt^4).
func RK4[P, S any](params ContinuousParameters[P], x tensor.Tensor, t0 float64, f RateEquation[P, S], dt float64) (S, tensor.Tensor, error) {
	var zero S

	// t = t0, inside the domain
	_, k1, err := stage(params, f, t0, x)
	if err != nil {
		return zero, tensor.Tensor{}, err
	}
	x1, err := tensor.AddScaled(x, half*dt, k1)
	if err != nil {
		return zero, tensor.Tensor{}, err
	}

	_, k2, err := stage(params, f, t0+half*dt, x1)
	if err != nil {
		return zero, tensor.Tensor{}, err
	}
	x2, err := tensor.AddScaled(x, half*dt, k2)
	if err != nil {
		return zero, tensor.Tensor{}, err
	}

	_, k3, err := stage(params, f, t0+half*dt, x2)
	if err != nil {
		return zero, tensor.Tensor{}, err
	}
	x3, err := tensor.AddScaled(x, dt, k3)
	if err != nil {
		return zero, tensor.Tensor{}, err
	}

	// t = (t0+dt)-, pulled back inside the domain
	state4, k4, err := stage(params, f, t0+dt-DomainEpsilon, x3)
	if err != nil {
		return zero, tensor.Tensor{}, err
	}

	result, dst := tensor.ZerosLike(x)
	xs, a, b, c, d := x.Data(), k1.Data(), k2.Data(), k3.Data(), k4.Data()
	for i := range dst {
		dst[i] = xs[i] + dt*(oneSixth*a[i]+oneThird*b[i]+oneThird*c[i]+oneSixth*d[i])
	}
	return state4, result, nil
}
