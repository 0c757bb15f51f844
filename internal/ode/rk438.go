package ode

import "github.com/san-kum/contnet/internal/tensor"

// RK438 is the 3/8-rule four-stage Runge-Kutta method, O(dt^4).
func RK438[P, S any](params ContinuousParameters[P], x tensor.Tensor, t0 float64, f RateEquation[P, S], dt float64) (S, tensor.Tensor, error) {
	var zero S

	_, k1, err := stage(params, f, t0, x)
	if err != nil {
		return zero, tensor.Tensor{}, err
	}
	x1, err := tensor.AddScaled(x, oneThird*dt, k1)
	if err != nil {
		return zero, tensor.Tensor{}, err
	}

	_, k2, err := stage(params, f, t0+oneThird*dt, x1)
	if err != nil {
		return zero, tensor.Tensor{}, err
	}
	x2, dst2 := tensor.ZerosLike(x)
	xs, a, b := x.Data(), k1.Data(), k2.Data()
	for i := range dst2 {
		dst2[i] = xs[i] + dt*(-oneThird*a[i]+b[i])
	}

	_, k3, err := stage(params, f, t0+twoThirds*dt, x2)
	if err != nil {
		return zero, tensor.Tensor{}, err
	}
	x3, dst3 := tensor.ZerosLike(x)
	c := k3.Data()
	for i := range dst3 {
		dst3[i] = xs[i] + dt*(a[i]-b[i]+c[i])
	}

	state4, k4, err := stage(params, f, t0+dt-DomainEpsilon, x3)
	if err != nil {
		return zero, tensor.Tensor{}, err
	}

	result, dst := tensor.ZerosLike(x)
	d := k4.Data()
	for i := range dst {
		dst[i] = xs[i] + dt*(oneEighth*a[i]+threeEighths*b[i]+threeEighths*c[i]+oneEighth*d[i])
	}
	return state4, result, nil
}
