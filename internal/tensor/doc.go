// Package tensor provides the fixed-shape float64 array that integration
// schemes advance.
//
// A [Tensor] pairs a flat row-major buffer with an explicit shape. Values are
// treated as immutable: every arithmetic helper allocates a new tensor and
// leaves its inputs untouched, so a state handed to a scheme is never changed
// behind the caller's back.
//
// Shape mismatches between operands are reported as [*ShapeError], which
// matches [ErrShapeMismatch] under errors.Is.
//
//	x := tensor.Vector(1, 0)
//	k := tensor.Vector(0, -1)
//	next, err := tensor.AddScaled(x, 0.1, k)
package tensor
