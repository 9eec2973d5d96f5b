package index

import "fmt"

// chooser enumerates every selection of k labels from pool, calling emit with
// a buffer that is only valid for the duration of the call.
type chooser func(pool []int, k int, emit func([]int))

// Combinations enumerates the index-assignment tuples of the combinatorial
// product for operands with the given ranks.
//
// Operands are consumed left to right. Fixed positions keep their own label.
// The free slots of each operand are filled, in ascending slot order, with
// every unordered choice of labels from the globally free labels that the
// partial tuple has not used yet. The result has
// ∏ C(pool_i, free_i) tuples, each of length Σ dims.
//
// Example:
//
//	tuples, _ := index.Combinations([]int{2, 2}, index.NewFixedSet(1))
//	// [1 2 3 4] [1 3 2 4] [1 4 2 3]
func Combinations(dims []int, fixed FixedSet) ([]Tuple, error) {
	return generate(dims, fixed, combinations)
}

// Permutations is Combinations with an ordered choice per operand: every
// ordering of a label subset is a distinct tuple. The result has
// ∏ P(pool_i, free_i) tuples.
//
// Example:
//
//	tuples, _ := index.Permutations([]int{2, 2}, index.NewFixedSet(1, 3))
//	// [1 2 3 4] [1 4 3 2]
func Permutations(dims []int, fixed FixedSet) ([]Tuple, error) {
	return generate(dims, fixed, permutations)
}

// Generate dispatches to Combinations or Permutations.
func Generate(kind Kind, dims []int, fixed FixedSet) ([]Tuple, error) {
	switch kind {
	case Combination:
		return Combinations(dims, fixed)
	case Permutation:
		return Permutations(dims, fixed)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, kind)
	}
}

// generate expands a frontier of partial tuples one operand at a time.
func generate(dims []int, fixed FixedSet, choose chooser) ([]Tuple, error) {
	total, err := validate(dims, fixed)
	if err != nil {
		return nil, err
	}

	free := make([]int, 0, total)
	for label := 1; label <= total; label++ {
		if !fixed.Contains(label) {
			free = append(free, label)
		}
	}

	frontier := []Tuple{{}}
	offset := 0
	used := make([]bool, total+1)
	pool := make([]int, 0, len(free))

	for _, rank := range dims {
		slots := make([]int, 0, rank) // operand-relative free slots
		for j := 0; j < rank; j++ {
			if !fixed.Contains(offset + j + 1) {
				slots = append(slots, j)
			}
		}

		next := make([]Tuple, 0, len(frontier))
		for _, prefix := range frontier {
			for i := range used {
				used[i] = false
			}
			for _, label := range prefix {
				used[label] = true
			}
			pool = pool[:0]
			for _, label := range free {
				if !used[label] {
					pool = append(pool, label)
				}
			}

			choose(pool, len(slots), func(picked []int) {
				t := make(Tuple, offset+rank, total)
				copy(t, prefix)
				for j := 0; j < rank; j++ {
					t[offset+j] = offset + j + 1
				}
				for s, j := range slots {
					t[offset+j] = picked[s]
				}
				next = append(next, t)
			})
		}

		frontier = next
		offset += rank
	}

	return frontier, nil
}

// combinations emits the k-subsets of pool in lexicographic order.
func combinations(pool []int, k int, emit func([]int)) {
	n := len(pool)
	if k > n {
		return
	}

	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	out := make([]int, k)
	for {
		for i, j := range idx {
			out[i] = pool[j]
		}
		emit(out)

		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

// permutations emits the ordered k-selections of pool in lexicographic order,
// walking an explicit stack instead of recursing.
func permutations(pool []int, k int, emit func([]int)) {
	n := len(pool)
	if k > n {
		return
	}
	if k == 0 {
		emit(nil)
		return
	}

	used := make([]bool, n)
	pick := make([]int, k) // pool index chosen at each depth, -1 before the first
	out := make([]int, k)
	depth := 0
	pick[0] = -1

	for depth >= 0 {
		if pick[depth] >= 0 {
			used[pick[depth]] = false
		}
		next := pick[depth] + 1
		for next < n && used[next] {
			next++
		}
		if next == n {
			depth--
			continue
		}

		pick[depth] = next
		used[next] = true
		out[depth] = pool[next]
		if depth == k-1 {
			emit(out)
			continue
		}
		depth++
		pick[depth] = -1
	}
}
