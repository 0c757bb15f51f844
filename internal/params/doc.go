// Package params turns a finite list of parameter snapshots into a function
// of time on [0, 1).
//
// A basis places its nodes on the unit interval. PiecewiseConstant holds
// node k on [k/n, (k+1)/n); PiecewiseLinear places node k at k/(n-1) and
// blends neighbours with a caller supplied Lerp. Both satisfy
// ode.ContinuousParameters.
//
// Refine doubles the resolution of a basis without changing the function it
// represents, which lets a coarse model seed a finer one.
package params
