package tensor

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestNew_ShapeValidation(t *testing.T) {
	tests := []struct {
		name  string
		shape []int
		data  []float64
		ok    bool
	}{
		{"scalar", []int{}, []float64{1}, true},
		{"vector", []int{3}, []float64{1, 2, 3}, true},
		{"matrix", []int{2, 2}, []float64{1, 2, 3, 4}, true},
		{"too short", []int{2, 2}, []float64{1, 2, 3}, false},
		{"negative", []int{-1}, []float64{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.shape, tt.data)
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidShape) {
				t.Fatalf("expected ErrInvalidShape, got %v", err)
			}
		})
	}
}

func TestNew_CopiesInput(t *testing.T) {
	data := []float64{1, 2}
	shape := []int{2}
	x := MustNew(shape, data)

	data[0] = 99
	shape[0] = 7
	if x.At(0) != 1 {
		t.Errorf("tensor aliased caller data: %v", x)
	}
	if x.Shape()[0] != 2 {
		t.Errorf("tensor aliased caller shape: %v", x.Shape())
	}
}

func TestAddScaled(t *testing.T) {
	x := Vector(1, 2, 3)
	k := Vector(1, 1, 1)

	got, err := AddScaled(x, 0.5, k)
	if err != nil {
		t.Fatalf("add scaled: %v", err)
	}
	want := Vector(1.5, 2.5, 3.5)
	if !got.Equal(want) {
		t.Errorf("AddScaled = %v, want %v", got, want)
	}
	if x.At(0) != 1 {
		t.Error("AddScaled mutated its input")
	}
}

func TestAddScaled_ShapeMismatch(t *testing.T) {
	_, err := AddScaled(Vector(1, 2), 1, Vector(1, 2, 3))

	var shapeErr *ShapeError
	if !errors.As(err, &shapeErr) {
		t.Fatalf("expected *ShapeError, got %v", err)
	}
	if !errors.Is(err, ErrShapeMismatch) {
		t.Error("ShapeError should match ErrShapeMismatch")
	}
	if shapeErr.Got[0] != 3 || shapeErr.Want[0] != 2 {
		t.Errorf("unexpected shapes in error: %+v", shapeErr)
	}
}

func TestSameShape_RankMatters(t *testing.T) {
	a := MustNew([]int{4}, make([]float64, 4))
	b := MustNew([]int{2, 2}, make([]float64, 4))
	if a.SameShape(b) {
		t.Error("[4] and [2 2] must not compare as the same shape")
	}
	if !Scalar(1).SameShape(Scalar(2)) {
		t.Error("scalars share a shape")
	}
}

func TestSameShape_ZeroValueIsNotScalar(t *testing.T) {
	var zero Tensor
	if zero.SameShape(Scalar(1)) || Scalar(1).SameShape(zero) {
		t.Error("the zero Tensor must not match a scalar")
	}
	if !zero.SameShape(Tensor{}) {
		t.Error("zero Tensors share a shape")
	}

	err := CheckShape("test", Scalar(1), zero)
	var shapeErr *ShapeError
	if !errors.As(err, &shapeErr) {
		t.Errorf("expected *ShapeError, got %v", err)
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		name  string
		x     Tensor
		valid bool
	}{
		{"empty", Tensor{}, true},
		{"normal", Vector(1, 2, 3), true},
		{"with NaN", Vector(1, math.NaN()), false},
		{"with +Inf", Vector(math.Inf(1)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.x.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestDenseRoundTrip(t *testing.T) {
	m := mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6})
	x := FromDense(m)

	if got := x.Shape(); got[0] != 2 || got[1] != 3 {
		t.Fatalf("unexpected shape %v", got)
	}
	back, err := x.Dense()
	if err != nil {
		t.Fatalf("dense: %v", err)
	}
	if !mat.Equal(m, back) {
		t.Errorf("round trip changed values: %v", mat.Formatted(back))
	}

	if _, err := Vector(1, 2).Dense(); !errors.Is(err, ErrInvalidShape) {
		t.Errorf("expected ErrInvalidShape for rank-1 dense view, got %v", err)
	}
}

func TestScaleAndSub(t *testing.T) {
	a := Vector(2, 4)
	if got := Scale(0.5, a); !got.Equal(Vector(1, 2)) {
		t.Errorf("Scale = %v", got)
	}
	d, err := Sub(a, Vector(1, 1))
	if err != nil {
		t.Fatalf("sub: %v", err)
	}
	if !d.Equal(Vector(1, 3)) {
		t.Errorf("Sub = %v", d)
	}
	if n := Vector(3, 4).Norm(); n != 5 {
		t.Errorf("Norm = %v, want 5", n)
	}
}
