// Package tensor is the public view of the dense int64 tensors returned by
// package isotensor.
//
// # Overview
//
// A Tensor is row-major with an arbitrary number of axes. Rank 0 stands for
// a scalar, so Δ(0) and Ο(0) are tensors like every other order:
//
//	t := tensor.Scalar(1)
//	t.Rank()  // 0
//	t.Item()  // 1
//
// # Reading elements
//
//	iso, _ := isotensor.Isotropic(2, 3)
//	iso.Shape()        // (3, 3, 3, 3)
//	iso.At(0, 0, 1, 1) // 1
//	iso.Nested()       // [][][][]any, ready for encoding/json
//
// Tensors returned by the library are never shared with its caches; callers
// own them.
package tensor
