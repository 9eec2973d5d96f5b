package tensor

import "fmt"

// Shape represents the dimensions of a tensor.
// An empty shape is a rank-0 (scalar) tensor.
type Shape []int

// Cube returns a shape with rank axes, each of extent dim.
func Cube(rank, dim int) Shape {
	s := make(Shape, rank)
	for i := range s {
		s[i] = dim
	}
	return s
}

// Rank returns the number of axes.
func (s Shape) Rank() int {
	return len(s)
}

// NumElements returns the total number of elements in the tensor.
func (s Shape) NumElements() int {
	if len(s) == 0 {
		return 1 // Scalar has 1 element
	}
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate checks if the shape is valid (all dimensions > 0).
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim <= 0 {
			return fmt.Errorf("%w: axis %d has extent %d (must be > 0)", ErrInvalidShape, i, dim)
		}
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Uniform reports whether every axis has the same extent dim.
// A rank-0 shape is uniform for any dim.
func (s Shape) Uniform(dim int) bool {
	for _, d := range s {
		if d != dim {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// ComputeStrides calculates row-major strides for the shape.
// Strides define memory layout: stride[i] = product of all dimensions after i.
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}

	strides[len(s)-1] = 1
	for i := len(s) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * s[i+1]
	}
	return strides
}

// Unravel writes the multi-index of the flat row-major offset into idx.
// idx must have len(s) elements.
func (s Shape) Unravel(flat int, idx []int) {
	for axis := len(s) - 1; axis >= 0; axis-- {
		idx[axis] = flat % s[axis]
		flat /= s[axis]
	}
}

// String renders the shape as (d0, d1, ...).
func (s Shape) String() string {
	if len(s) == 0 {
		return "()"
	}
	out := "("
	for i, d := range s {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprint(d)
	}
	return out + ")"
}
