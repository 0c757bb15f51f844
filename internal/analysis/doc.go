// Package analysis studies integrations of the ode engine.
//
//   - [Convergence]: observed order of accuracy against a reference solution
//   - [Sensitivity]: growth of a perturbation of the initial state over [0, 1]
//   - [NewPhasePortrait]: two components of a trajectory, drawn as text
//
// # Order of accuracy
//
// Halving the step of a scheme of order p divides the global error by 2^p:
//
//	res, err := analysis.Convergence(params, x0, f, exact, ode.MethodRK4, []int{4, 8, 16, 32})
//	fmt.Printf("observed order %.2f\n", res.Order)
package analysis
