package tensor

import (
	"github.com/lbtheory/isoortho/internal/tensor"
)

// Tensor is a dense, row-major, int64-valued multi-dimensional array.
type Tensor = tensor.Tensor

// Shape represents the dimensions of a tensor.
// Example: Shape{3, 3, 3, 3} is a rank-4 tensor with extent 3 on every axis.
type Shape = tensor.Shape

// ErrInvalidShape is returned for non-positive extents or data that does not
// fill the shape.
var ErrInvalidShape = tensor.ErrInvalidShape

// New allocates a zero-filled tensor.
func New(shape Shape) (*Tensor, error) {
	return tensor.New(shape)
}

// FromSlice creates a tensor from row-major data. The data is copied.
func FromSlice(data []int64, shape Shape) (*Tensor, error) {
	return tensor.FromSlice(data, shape)
}

// Scalar returns a rank-0 tensor holding v.
func Scalar(v int64) *Tensor {
	return tensor.Scalar(v)
}

// Identity returns the dim×dim identity matrix.
func Identity(dim int) *Tensor {
	return tensor.Identity(dim)
}

// Cube returns a shape with rank axes of extent dim.
func Cube(rank, dim int) Shape {
	return tensor.Cube(rank, dim)
}
