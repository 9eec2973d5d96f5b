// Package index enumerates the index-assignment tuples that parametrize the
// nonstandard tensor products.
//
// Axis positions and labels are 1-based throughout: a tuple t of length n
// says that result position j+1 reads source label t[j].
package index

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Errors returned by the generators.
var (
	ErrEmptyOperands   = errors.New("index: no operands")
	ErrNegativeRank    = errors.New("index: negative operand rank")
	ErrFixedOutOfRange = errors.New("index: fixed position out of range")
	ErrUnknownKind     = errors.New("index: unknown generator kind")
)

// Tuple maps each result axis position to the source axis label feeding it.
type Tuple []int

// FixedSet is a set of 1-based axis positions whose labels never move.
type FixedSet map[int]struct{}

// NewFixedSet builds a FixedSet from positions.
func NewFixedSet(positions ...int) FixedSet {
	f := make(FixedSet, len(positions))
	for _, p := range positions {
		f[p] = struct{}{}
	}
	return f
}

// OddPositions returns {1, 3, ..., 2n-1}: the first axis of each of n
// consecutive rank-2 operands.
func OddPositions(n int) FixedSet {
	f := make(FixedSet, n)
	for i := 0; i < n; i++ {
		f[2*i+1] = struct{}{}
	}
	return f
}

// Contains reports whether position p is fixed.
func (f FixedSet) Contains(p int) bool {
	_, ok := f[p]
	return ok
}

// Sorted returns the fixed positions in ascending order.
func (f FixedSet) Sorted() []int {
	out := make([]int, 0, len(f))
	for p := range f {
		out = append(out, p)
	}
	sort.Ints(out)
	return out
}

// String renders the set as {1, 3, 5}.
func (f FixedSet) String() string {
	parts := make([]string, 0, len(f))
	for _, p := range f.Sorted() {
		parts = append(parts, fmt.Sprint(p))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Kind selects how free labels are distributed over an operand's free slots.
type Kind int

const (
	// Combination makes an unordered choice per operand.
	Combination Kind = iota
	// Permutation makes an ordered choice per operand.
	Permutation
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case Combination:
		return "combination"
	case Permutation:
		return "permutation"
	default:
		return "unknown"
	}
}

// ParseKind parses "combination" or "permutation".
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "combination", "comb", "c":
		return Combination, nil
	case "permutation", "perm", "p":
		return Permutation, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// TotalRank returns the sum of the operand ranks.
func TotalRank(dims []int) int {
	n := 0
	for _, d := range dims {
		n += d
	}
	return n
}

// validate checks the generator preconditions and returns the total rank.
func validate(dims []int, fixed FixedSet) (int, error) {
	if len(dims) == 0 {
		return 0, ErrEmptyOperands
	}
	for i, d := range dims {
		if d < 0 {
			return 0, fmt.Errorf("%w: operand %d has rank %d", ErrNegativeRank, i, d)
		}
	}
	total := TotalRank(dims)
	for p := range fixed {
		if p < 1 || p > total {
			return 0, fmt.Errorf("%w: %d not in 1..%d", ErrFixedOutOfRange, p, total)
		}
	}
	return total, nil
}
