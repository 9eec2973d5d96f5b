// Package isotensor builds the isotropic (Δ) and orthogonality (Ο) tensors
// of order n over Euclidean spaces of dimension d ∈ {1, 2, 3}.
//
// # Overview
//
// Both families have rank 2n and extent d on every axis. They are assembled
// from Kronecker deltas with two nonstandard tensor products that sum over
// ways of assigning source axis labels to result positions:
//
//   - the combinatorial product, where each operand takes an unordered set
//     of labels (CombinatorialProduct, GenerateCombinations)
//   - the permutatorial product, where labels are taken in order
//     (PermutatorialProduct, GeneratePermutations)
//
// Δ(n) is δ combined with Δ(n-1) under the combinatorial product with the
// first axis fixed. Ο(n) is the permutatorial product of n deltas with the
// first axis of every delta fixed.
//
// # Basic Usage
//
//	iso, err := isotensor.Isotropic(2, 3)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(iso.Shape())          // (3, 3, 3, 3)
//	fmt.Println(iso.At(0, 0, 0, 0))   // 3
//
// # Errors
//
// A dimension outside {1, 2, 3} or a negative order fails with a
// *DomainError before any computation. The dimension is checked first:
//
//	_, err := isotensor.Orthogonal(-1, 4)
//	errors.Is(err, isotensor.ErrInvalidDimension) // true
//
// # Cost
//
// Tuple counts grow factorially with n and every result has d^(2n)
// elements. Use the Context variants to bound long builds, and
// WithParallel to spread a build over goroutines.
package isotensor
