// Package tensor provides the dense integer tensor used by the isotropic and
// orthogonality builders.
package tensor

import (
	"errors"
	"fmt"
)

// ErrInvalidShape is returned when a shape has a non-positive extent or does
// not match the supplied data.
var ErrInvalidShape = errors.New("tensor: invalid shape")

// Tensor is a dense, row-major, int64-valued multi-dimensional array.
//
// A rank-0 tensor holds exactly one element and stands in for a scalar, so
// callers never have to distinguish a bare integer from an array.
//
// Tensors are owned by whoever created them. Set and SetFlat exist for the
// creator while the tensor is being filled; everything else treats a tensor
// as read-only.
type Tensor struct {
	shape  Shape
	stride []int
	data   []int64
}

// Shape returns a copy of the tensor's shape.
func (t *Tensor) Shape() Shape {
	return t.shape.Clone()
}

// Rank returns the number of axes.
func (t *Tensor) Rank() int {
	return len(t.shape)
}

// NumElements returns the total number of elements.
func (t *Tensor) NumElements() int {
	return len(t.data)
}

// Strides returns the row-major strides.
func (t *Tensor) Strides() []int {
	return append([]int(nil), t.stride...)
}

// Data returns a copy of the row-major elements.
func (t *Tensor) Data() []int64 {
	return append([]int64(nil), t.data...)
}

// Item returns the value of a rank-0 tensor.
// Panics if the tensor is not a scalar.
func (t *Tensor) Item() int64 {
	if len(t.shape) != 0 {
		panic(fmt.Sprintf("Item() only works for scalar tensors, got shape %v", t.shape))
	}
	return t.data[0]
}

// At returns the element at the given indices.
// Panics if indices are out of bounds.
func (t *Tensor) At(indices ...int) int64 {
	return t.data[t.offset(indices)]
}

// Set stores value at the given indices.
// Panics if indices are out of bounds.
func (t *Tensor) Set(value int64, indices ...int) {
	t.data[t.offset(indices)] = value
}

// AtFlat returns the element at a row-major offset.
func (t *Tensor) AtFlat(i int) int64 {
	return t.data[i]
}

// SetFlat stores value at a row-major offset.
func (t *Tensor) SetFlat(i int, value int64) {
	t.data[i] = value
}

// Offset returns the row-major offset of indices.
// Panics if indices are out of bounds.
func (t *Tensor) Offset(indices ...int) int {
	return t.offset(indices)
}

func (t *Tensor) offset(indices []int) int {
	if len(indices) != len(t.shape) {
		panic(fmt.Sprintf("expected %d indices, got %d", len(t.shape), len(indices)))
	}

	offset := 0
	for i, idx := range indices {
		if idx < 0 || idx >= t.shape[i] {
			panic(fmt.Sprintf("index %d out of bounds for dimension %d (size %d)", idx, i, t.shape[i]))
		}
		offset += idx * t.stride[i]
	}
	return offset
}

// Equal reports whether two tensors have the same shape and elements.
func (t *Tensor) Equal(other *Tensor) bool {
	if t == nil || other == nil {
		return t == other
	}
	if !t.shape.Equal(other.shape) {
		return false
	}
	for i := range t.data {
		if t.data[i] != other.data[i] {
			return false
		}
	}
	return true
}

// Clone returns a deep copy that shares no memory with t.
func (t *Tensor) Clone() *Tensor {
	return &Tensor{
		shape:  t.shape.Clone(),
		stride: append([]int(nil), t.stride...),
		data:   append([]int64(nil), t.data...),
	}
}
