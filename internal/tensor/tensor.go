package tensor

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Tensor is a dense row-major float64 array with a fixed shape. The zero
// value is an empty tensor. An empty shape denotes a scalar.
type Tensor struct {
	shape []int
	data  []float64
}

// New copies shape and data into a new tensor. The product of shape must
// equal len(data).
func New(shape []int, data []float64) (Tensor, error) {
	n, err := size(shape)
	if err != nil {
		return Tensor{}, err
	}
	if n != len(data) {
		return Tensor{}, fmt.Errorf("%w: shape %v holds %d values, got %d", ErrInvalidShape, shape, n, len(data))
	}
	t := Tensor{shape: cloneInts(shape), data: make([]float64, n)}
	copy(t.data, data)
	return t, nil
}

// MustNew is like New but panics on an invalid shape.
func MustNew(shape []int, data []float64) Tensor {
	t, err := New(shape, data)
	if err != nil {
		panic(err)
	}
	return t
}

// Scalar returns a rank-0 tensor holding v.
func Scalar(v float64) Tensor {
	return Tensor{shape: []int{}, data: []float64{v}}
}

// Vector returns a rank-1 tensor over a copy of values.
func Vector(values ...float64) Tensor {
	data := make([]float64, len(values))
	copy(data, values)
	return Tensor{shape: []int{len(values)}, data: data}
}

// Zeros returns a zero-filled tensor of the given shape.
func Zeros(shape ...int) (Tensor, error) {
	n, err := size(shape)
	if err != nil {
		return Tensor{}, err
	}
	return Tensor{shape: cloneInts(shape), data: make([]float64, n)}, nil
}

// ZerosLike allocates a zero tensor shaped like t and returns it together
// with its backing buffer, which the caller fills before publishing the tensor.
func ZerosLike(t Tensor) (Tensor, []float64) {
	out := Tensor{shape: cloneInts(t.shape), data: make([]float64, len(t.data))}
	return out, out.data
}

// FromDense copies a matrix into a rank-2 tensor.
func FromDense(m mat.Matrix) Tensor {
	r, c := m.Dims()
	data := make([]float64, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			data[i*c+j] = m.At(i, j)
		}
	}
	return Tensor{shape: []int{r, c}, data: data}
}

// Dense copies a rank-2 tensor into a new matrix.
func (t Tensor) Dense() (*mat.Dense, error) {
	if len(t.shape) != 2 {
		return nil, fmt.Errorf("%w: dense view needs rank 2, got shape %v", ErrInvalidShape, t.shape)
	}
	data := make([]float64, len(t.data))
	copy(data, t.data)
	return mat.NewDense(t.shape[0], t.shape[1], data), nil
}

// Shape returns a copy of the tensor's shape.
func (t Tensor) Shape() []int { return cloneInts(t.shape) }

// Rank returns the number of dimensions.
func (t Tensor) Rank() int { return len(t.shape) }

// Len returns the number of elements.
func (t Tensor) Len() int { return len(t.data) }

// Data returns the backing buffer. Callers must not modify it.
func (t Tensor) Data() []float64 { return t.data }

// At returns the i-th element in row-major order.
func (t Tensor) At(i int) float64 { return t.data[i] }

// Item returns the single value of a one-element tensor.
func (t Tensor) Item() float64 {
	if len(t.data) != 1 {
		panic(fmt.Sprintf("tensor: Item on tensor with %d elements", len(t.data)))
	}
	return t.data[0]
}

// Clone returns a deep copy.
func (t Tensor) Clone() Tensor {
	c := Tensor{shape: cloneInts(t.shape), data: make([]float64, len(t.data))}
	copy(c.data, t.data)
	return c
}

// IsValid reports whether every element is finite.
func (t Tensor) IsValid() bool {
	for _, v := range t.data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Norm returns the Euclidean norm of the flattened tensor.
func (t Tensor) Norm() float64 {
	if len(t.data) == 0 {
		return 0
	}
	return floats.Norm(t.data, 2)
}

// SameShape reports whether t and o have identical shapes. The zero Tensor
// holds no values and matches only another zero Tensor, never a scalar.
func (t Tensor) SameShape(o Tensor) bool {
	if len(t.shape) != len(o.shape) || len(t.data) != len(o.data) {
		return false
	}
	for i := range t.shape {
		if t.shape[i] != o.shape[i] {
			return false
		}
	}
	return true
}

// Equal reports whether t and o have the same shape and bitwise-equal values.
func (t Tensor) Equal(o Tensor) bool {
	return t.SameShape(o) && floats.Equal(t.data, o.data)
}

// EqualApprox reports whether t and o have the same shape and values within
// tol, absolute or relative.
func (t Tensor) EqualApprox(o Tensor, tol float64) bool {
	return t.SameShape(o) && floats.EqualApprox(t.data, o.data, tol)
}

func (t Tensor) String() string {
	return fmt.Sprintf("Tensor%v%v", t.shape, t.data)
}

// CheckShape returns a *ShapeError when got is not shaped like want.
func CheckShape(op string, want, got Tensor) error {
	if want.SameShape(got) {
		return nil
	}
	return &ShapeError{Op: op, Want: want.Shape(), Got: got.Shape()}
}

// AddScaled returns x + alpha*k.
func AddScaled(x Tensor, alpha float64, k Tensor) (Tensor, error) {
	if err := CheckShape("add-scaled", x, k); err != nil {
		return Tensor{}, err
	}
	out, dst := ZerosLike(x)
	floats.AddScaledTo(dst, x.data, alpha, k.data)
	return out, nil
}

// Scale returns alpha*x.
func Scale(alpha float64, x Tensor) Tensor {
	out, dst := ZerosLike(x)
	copy(dst, x.data)
	floats.Scale(alpha, dst)
	return out
}

// Sub returns a - b.
func Sub(a, b Tensor) (Tensor, error) {
	if err := CheckShape("sub", a, b); err != nil {
		return Tensor{}, err
	}
	out, dst := ZerosLike(a)
	floats.SubTo(dst, a.data, b.data)
	return out, nil
}

func size(shape []int) (int, error) {
	n := 1
	for _, d := range shape {
		if d < 0 {
			return 0, fmt.Errorf("%w: negative dimension in %v", ErrInvalidShape, shape)
		}
		n *= d
	}
	return n, nil
}

func cloneInts(s []int) []int {
	c := make([]int, len(s))
	copy(c, s)
	return c
}
