package params

import (
	"github.com/san-kum/contnet/internal/tensor"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Lerp blends two snapshots as (1-w)*a + w*b.
type Lerp[P any] func(a, b P, w float64) P

func LerpFloat64(a, b, w float64) float64 {
	return (1-w)*a + w*b
}

// LerpSlice blends equal-length slices. It panics on a length mismatch.
func LerpSlice(a, b []float64, w float64) []float64 {
	out := make([]float64, len(a))
	floats.ScaleTo(out, 1-w, a)
	floats.AddScaled(out, w, b)
	return out
}

// LerpDense blends matrices of equal dimensions.
func LerpDense(a, b *mat.Dense, w float64) *mat.Dense {
	var out, tmp mat.Dense
	out.Scale(1-w, a)
	tmp.Scale(w, b)
	out.Add(&out, &tmp)
	return &out
}

// LerpTensor blends tensors of the same shape. It panics on a mismatch.
func LerpTensor(a, b tensor.Tensor, w float64) tensor.Tensor {
	return tensor.MustNew(a.Shape(), LerpSlice(a.Data(), b.Data(), w))
}
