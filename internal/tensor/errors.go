package tensor

import (
	"errors"
	"fmt"
)

var (
	// ErrShapeMismatch indicates two operands whose shapes differ.
	ErrShapeMismatch = errors.New("tensor: shape mismatch")

	// ErrInvalidShape indicates a shape that does not describe the data length.
	ErrInvalidShape = errors.New("tensor: invalid shape")
)

// ShapeError reports an operation applied to tensors of different shapes.
type ShapeError struct {
	Op   string
	Want []int
	Got  []int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("tensor: %s: shape %v does not match %v", e.Op, e.Got, e.Want)
}

func (e *ShapeError) Unwrap() error {
	return ErrShapeMismatch
}
