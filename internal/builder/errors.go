package builder

import (
	"errors"
	"fmt"
)

// Domain errors. Both are reported through *DomainError.
var (
	ErrInvalidDimension = errors.New("builder: space dimension must be 1, 2 or 3")
	ErrInvalidOrder     = errors.New("builder: order must be non-negative")
	ErrUnknownKind      = errors.New("builder: unknown tensor kind")
)

// DomainError reports an argument outside the builders' domain. It is
// returned before any computation starts.
//
// The sentinel can be matched with errors.Is.
type DomainError struct {
	Op    string // "isotropic", "orthogonal" or "delta"
	Param string // "dim" or "order"
	Value int
	Err   error
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: invalid %s %d: %v", e.Op, e.Param, e.Value, e.Err)
}

func (e *DomainError) Unwrap() error { return e.Err }

// Validate checks n and d against the builders' domain.
// The dimension is checked first.
func Validate(op string, n, d int) error {
	if d < 1 || d > 3 {
		return &DomainError{Op: op, Param: "dim", Value: d, Err: ErrInvalidDimension}
	}
	if n < 0 {
		return &DomainError{Op: op, Param: "order", Value: n, Err: ErrInvalidOrder}
	}
	return nil
}
