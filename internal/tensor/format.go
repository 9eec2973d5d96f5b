package tensor

import (
	"fmt"
	"strings"
)

// Nested returns the tensor as nested slices suitable for JSON or YAML
// encoding. A rank-0 tensor is returned as a bare int64; otherwise the
// outermost slice runs over axis 0.
func (t *Tensor) Nested() any {
	if len(t.shape) == 0 {
		return t.data[0]
	}
	return t.nested(0, 0)
}

func (t *Tensor) nested(axis, base int) []any {
	out := make([]any, t.shape[axis])
	for i := range out {
		off := base + i*t.stride[axis]
		if axis == len(t.shape)-1 {
			out[i] = t.data[off]
			continue
		}
		out[i] = t.nested(axis+1, off)
	}
	return out
}

// String renders the tensor for terminals.
//
// Rank 0 prints the value, rank 1 a row and rank 2 a matrix. Higher ranks
// print one matrix over the first two axes for every combination of the
// trailing axes, labelled with 1-based positions, first trailing axis
// varying fastest:
//
//	[:, :, 1, 1] =
//	 3 0
//	 0 1
func (t *Tensor) String() string {
	switch len(t.shape) {
	case 0:
		return fmt.Sprint(t.data[0])
	case 1:
		return t.row(0, t.shape[0], 1)
	case 2:
		return t.matrix(0)
	}

	var b strings.Builder
	trailing := t.shape[2:]
	idx := make([]int, len(trailing))
	n := trailing.NumElements()
	for k := 0; k < n; k++ {
		// column-major walk: first trailing axis varies fastest
		rem := k
		for a := range trailing {
			idx[a] = rem % trailing[a]
			rem /= trailing[a]
		}

		base := 0
		labels := make([]string, len(idx))
		for a, v := range idx {
			base += v * t.stride[a+2]
			labels[a] = fmt.Sprint(v + 1)
		}

		if k > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[:, :, %s] =\n", strings.Join(labels, ", "))
		b.WriteString(t.matrix(base))
	}
	return b.String()
}

func (t *Tensor) matrix(base int) string {
	rows := make([]string, t.shape[0])
	for i := range rows {
		rows[i] = t.row(base+i*t.stride[0], t.shape[1], t.stride[1])
	}
	return strings.Join(rows, "\n")
}

func (t *Tensor) row(base, n, stride int) string {
	cells := make([]string, n)
	for j := range cells {
		cells[j] = fmt.Sprint(t.data[base+j*stride])
	}
	return " " + strings.Join(cells, " ")
}
