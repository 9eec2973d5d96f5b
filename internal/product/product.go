// Package product evaluates the nonstandard tensor products.
//
// For operands A_1..A_k with ranks r_1..r_k and a list of index-assignment
// tuples T, the product P has rank r = Σ r_i and
//
//	P[idx] = Σ_{t ∈ T} Π_i A_i[slice_i(idx∘t)]
//
// where (idx∘t)[j] = idx[t[j]-1] and slice_i takes the r_i consecutive
// entries belonging to operand i. The evaluation is a brute-force walk over
// all D^r result positions and all tuples.
package product

import (
	"context"
	"errors"
	"fmt"

	"github.com/lbtheory/isoortho/internal/index"
	"github.com/lbtheory/isoortho/internal/parallel"
	"github.com/lbtheory/isoortho/internal/tensor"
)

// Errors returned by Evaluate.
var (
	ErrNoOperands       = errors.New("product: no operands")
	ErrExtentMismatch   = errors.New("product: operand axis extent does not match dimension")
	ErrInvalidDimension = errors.New("product: dimension must be positive")
)

type options struct {
	parallel parallel.Config
}

// Option configures an evaluation.
type Option func(*options)

// WithParallel splits the loop over result positions according to cfg.
// The result is identical to the sequential one.
func WithParallel(cfg parallel.Config) Option {
	return func(o *options) {
		o.parallel = cfg
	}
}

// Evaluate computes the nonstandard product of operands, holding the
// positions in fixed in place and distributing the rest with the generator
// selected by kind. Every axis of every operand must have extent d.
func Evaluate(operands []*tensor.Tensor, fixed index.FixedSet, kind index.Kind, d int, opts ...Option) (*tensor.Tensor, error) {
	return EvaluateContext(context.Background(), operands, fixed, kind, d, opts...)
}

// EvaluateContext is Evaluate with cancellation between chunks of result
// positions.
func EvaluateContext(ctx context.Context, operands []*tensor.Tensor, fixed index.FixedSet, kind index.Kind, d int, opts ...Option) (*tensor.Tensor, error) {
	o := options{parallel: parallel.Sequential()}
	for _, opt := range opts {
		opt(&o)
	}

	dims, err := operandDims(operands, d)
	if err != nil {
		return nil, err
	}

	tuples, err := index.Generate(kind, dims, fixed)
	if err != nil {
		return nil, fmt.Errorf("product: generate %s tuples: %w", kind, err)
	}

	total := index.TotalRank(dims)
	result := tensor.Zeros(tensor.Cube(total, d))
	shape := result.Shape()

	// Pre-split operand offsets so the inner loop only indexes slices.
	starts := make([]int, len(dims))
	for i := 1; i < len(dims); i++ {
		starts[i] = starts[i-1] + dims[i-1]
	}

	err = parallel.ForContext(ctx, result.NumElements(), func(ctx context.Context, begin, end int) error {
		idx := make([]int, total)
		permuted := make([]int, total)
		for flat := begin; flat < end; flat++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			shape.Unravel(flat, idx)

			var sum int64
			for _, t := range tuples {
				for j, label := range t {
					permuted[j] = idx[label-1]
				}
				term := int64(1)
				for i, op := range operands {
					term *= op.At(permuted[starts[i] : starts[i]+dims[i]]...)
					if term == 0 {
						break
					}
				}
				sum += term
			}
			result.SetFlat(flat, sum)
		}
		return nil
	}, o.parallel)
	if err != nil {
		return nil, err
	}

	return result, nil
}

// operandDims returns the operand ranks after checking every axis has extent d.
func operandDims(operands []*tensor.Tensor, d int) ([]int, error) {
	if d <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDimension, d)
	}
	if len(operands) == 0 {
		return nil, ErrNoOperands
	}

	dims := make([]int, len(operands))
	for i, op := range operands {
		if !op.Shape().Uniform(d) {
			return nil, fmt.Errorf("%w: operand %d has shape %v, want extent %d", ErrExtentMismatch, i, op.Shape(), d)
		}
		dims[i] = op.Rank()
	}
	return dims, nil
}
