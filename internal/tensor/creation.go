package tensor

import "fmt"

// New allocates a zero-filled tensor with the given shape.
func New(shape Shape) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	return &Tensor{
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		data:   make([]int64, shape.NumElements()),
	}, nil
}

// Zeros is New for shapes known to be valid.
// Panics on an invalid shape.
func Zeros(shape Shape) *Tensor {
	t, err := New(shape)
	if err != nil {
		panic(err)
	}
	return t
}

// Scalar returns a rank-0 tensor holding v.
func Scalar(v int64) *Tensor {
	return &Tensor{
		shape:  Shape{},
		stride: []int{},
		data:   []int64{v},
	}
}

// FromSlice creates a tensor from row-major data.
// The slice is copied into the tensor's memory.
func FromSlice(data []int64, shape Shape) (*Tensor, error) {
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("%w: shape %v requires %d elements, but got %d",
			ErrInvalidShape, shape, shape.NumElements(), len(data))
	}
	t, err := New(shape)
	if err != nil {
		return nil, err
	}
	copy(t.data, data)
	return t, nil
}

// Identity returns the rank-2 tensor of extent dim with ones on the diagonal.
//
// Example:
//
//	id := tensor.Identity(3) // 3x3, At(i, i) == 1
func Identity(dim int) *Tensor {
	t := Zeros(Shape{dim, dim})
	for i := 0; i < dim; i++ {
		t.Set(1, i, i)
	}
	return t
}
