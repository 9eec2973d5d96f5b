package index

import "fmt"

// Count returns the number of tuples Generate would produce, without
// enumerating them.
func Count(kind Kind, dims []int, fixed FixedSet) (int, error) {
	total, err := validate(dims, fixed)
	if err != nil {
		return 0, err
	}
	if kind != Combination && kind != Permutation {
		return 0, fmt.Errorf("%w: %d", ErrUnknownKind, kind)
	}

	pool := total - len(fixed)
	count := 1
	offset := 0
	for _, rank := range dims {
		slots := 0
		for p := offset + 1; p <= offset+rank; p++ {
			if !fixed.Contains(p) {
				slots++
			}
		}
		if kind == Combination {
			count *= Binomial(pool, slots)
		} else {
			count *= FallingFactorial(pool, slots)
		}
		pool -= slots
		offset += rank
	}
	return count, nil
}

// Binomial returns C(n, k), or 0 when k is outside [0, n].
func Binomial(n, k int) int {
	if k < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	c := 1
	for i := 1; i <= k; i++ {
		c = c * (n - k + i) / i
	}
	return c
}

// FallingFactorial returns P(n, k) = n!/(n-k)!, or 0 when k is outside [0, n].
func FallingFactorial(n, k int) int {
	if k < 0 || k > n {
		return 0
	}
	p := 1
	for i := 0; i < k; i++ {
		p *= n - i
	}
	return p
}
