// Package kronecker supplies the Kronecker delta tensor for the supported
// space dimensions.
package kronecker

import (
	"errors"
	"fmt"
	"sync"

	"github.com/lbtheory/isoortho/internal/tensor"
)

// MinDim and MaxDim bound the supported space dimensions.
const (
	MinDim = 1
	MaxDim = 3
)

// ErrUnsupportedDim is returned for a space dimension outside [MinDim, MaxDim].
var ErrUnsupportedDim = errors.New("kronecker: unsupported space dimension")

var (
	tableOnce sync.Once
	table     [MaxDim + 1]*tensor.Tensor
)

// Supported reports whether d is a supported space dimension.
func Supported(d int) bool {
	return d >= MinDim && d <= MaxDim
}

// Delta returns the Kronecker delta for space dimension d.
//
// For d = 1 the delta degenerates to the rank-0 scalar 1; otherwise it is the
// d×d identity. The returned tensor is a fresh copy owned by the caller.
func Delta(d int) (*tensor.Tensor, error) {
	if !Supported(d) {
		return nil, fmt.Errorf("%w: %d (want %d..%d)", ErrUnsupportedDim, d, MinDim, MaxDim)
	}
	return lookup(d).Clone(), nil
}

// lookup returns the shared table entry. Callers must not mutate it.
func lookup(d int) *tensor.Tensor {
	tableOnce.Do(func() {
		table[1] = tensor.Scalar(1)
		for d := 2; d <= MaxDim; d++ {
			table[d] = tensor.Identity(d)
		}
	})
	return table[d]
}
