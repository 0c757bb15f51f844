// Package ode integrates stateful rate equations over the unit interval.
//
// A rate equation maps a parameter snapshot and a state to a derivative and,
// alongside it, an auxiliary value such as updated normalization statistics:
//
//	f(p, x) = (aux, dx/dt)
//
// The parameters vary with time through a [ContinuousParameters] provider,
// which is only defined on the half-open interval [0, 1).
//
// Four explicit Runge-Kutta schemes are provided:
//
//   - [Euler]: one stage, first order
//   - [Midpoint]: two stages, second order
//   - [RK4]: the classic four-stage method, fourth order
//   - [RK438]: the 3/8-rule four-stage method, fourth order
//
// Each scheme returns the auxiliary value of its final stage only; auxiliary
// values from earlier stages are dropped. The four-stage schemes evaluate
// their last stage at t0+dt-[DomainEpsilon] so that no evaluation leaves
// [t0, t0+dt). Callers must keep dt well above DomainEpsilon.
//
// # Driving a run
//
//	params := ode.Constant(struct{}{})
//	x1, err := ode.IntegrateFast(params, tensor.Scalar(1), decay, ode.RK4[struct{}, struct{}], 100)
//
// Schemes can also be chosen from configuration through the registry:
//
//	scheme, err := ode.Lookup[P, S]("RK4_38")
//
// # Thread Safety
//
// Schemes and drivers hold no state. Independent runs may execute
// concurrently as long as the rate equation and parameters allow it.
package ode
