package product

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lbtheory/isoortho/internal/index"
	"github.com/lbtheory/isoortho/internal/parallel"
	"github.com/lbtheory/isoortho/internal/tensor"
)

func mustFromSlice(t *testing.T, data []int64, shape tensor.Shape) *tensor.Tensor {
	t.Helper()
	tt, err := tensor.FromSlice(data, shape)
	require.NoError(t, err)
	return tt
}

func TestEvaluateDeltaCombination(t *testing.T) {
	delta := tensor.Identity(2)

	got, err := Evaluate([]*tensor.Tensor{delta, delta}, index.NewFixedSet(1), index.Combination, 2)
	require.NoError(t, err)

	// δ_ij δ_kl + δ_ik δ_jl + δ_il δ_jk
	want := mustFromSlice(t, []int64{
		3, 0, 0, 1,
		0, 1, 1, 0,
		0, 1, 1, 0,
		1, 0, 0, 3,
	}, tensor.Cube(4, 2))
	assert.True(t, want.Equal(got), "got\n%v", got)
}

func TestEvaluateDeltaPermutation(t *testing.T) {
	delta := tensor.Identity(2)

	got, err := Evaluate([]*tensor.Tensor{delta, delta}, index.OddPositions(2), index.Permutation, 2)
	require.NoError(t, err)

	// δ_ij δ_kl + δ_il δ_kj
	want := mustFromSlice(t, []int64{
		2, 0, 0, 1,
		0, 0, 1, 0,
		0, 1, 0, 0,
		1, 0, 0, 2,
	}, tensor.Cube(4, 2))
	assert.True(t, want.Equal(got), "got\n%v", got)
}

func TestEvaluateSignedOperands(t *testing.T) {
	a := mustFromSlice(t, []int64{1, -2}, tensor.Shape{2})
	b := mustFromSlice(t, []int64{3, 4}, tensor.Shape{2})

	got, err := Evaluate([]*tensor.Tensor{a, b}, index.NewFixedSet(), index.Combination, 2)
	require.NoError(t, err)

	// a_i b_j + a_j b_i
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			want := a.At(i)*b.At(j) + a.At(j)*b.At(i)
			assert.Equal(t, want, got.At(i, j), "P[%d,%d]", i, j)
		}
	}
	assert.Equal(t, int64(-2), got.At(0, 1))
}

func TestEvaluateScalars(t *testing.T) {
	got, err := Evaluate([]*tensor.Tensor{tensor.Scalar(3), tensor.Scalar(5)}, index.NewFixedSet(), index.Permutation, 2)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Rank())
	assert.Equal(t, int64(15), got.Item())
}

func TestEvaluateParallelMatchesSequential(t *testing.T) {
	delta := tensor.Identity(3)
	ops := []*tensor.Tensor{delta, delta, delta}
	fixed := index.OddPositions(3)

	seq, err := Evaluate(ops, fixed, index.Permutation, 3)
	require.NoError(t, err)

	par, err := Evaluate(ops, fixed, index.Permutation, 3,
		WithParallel(parallel.Config{Enabled: true, NumWorkers: 4, MinChunkSize: 16}))
	require.NoError(t, err)

	assert.True(t, seq.Equal(par))
	assert.True(t, seq.Shape().Equal(tensor.Cube(6, 3)))
}

func TestEvaluateDoesNotMutateOperands(t *testing.T) {
	delta := tensor.Identity(2)
	before := delta.Clone()

	_, err := Evaluate([]*tensor.Tensor{delta, delta}, index.NewFixedSet(1), index.Combination, 2)
	require.NoError(t, err)
	assert.True(t, before.Equal(delta))
}

func TestEvaluateErrors(t *testing.T) {
	delta := tensor.Identity(2)

	_, err := Evaluate(nil, index.NewFixedSet(), index.Combination, 2)
	assert.ErrorIs(t, err, ErrNoOperands)

	_, err = Evaluate([]*tensor.Tensor{delta, tensor.Identity(3)}, index.NewFixedSet(1), index.Combination, 2)
	assert.ErrorIs(t, err, ErrExtentMismatch)

	_, err = Evaluate([]*tensor.Tensor{delta}, index.NewFixedSet(), index.Combination, 0)
	assert.ErrorIs(t, err, ErrInvalidDimension)

	_, err = Evaluate([]*tensor.Tensor{delta, delta}, index.NewFixedSet(7), index.Combination, 2)
	assert.ErrorIs(t, err, index.ErrFixedOutOfRange)
}

func TestEvaluateContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	delta := tensor.Identity(2)
	_, err := EvaluateContext(ctx, []*tensor.Tensor{delta, delta}, index.NewFixedSet(1), index.Combination, 2)
	assert.True(t, errors.Is(err, context.Canceled))
}

func BenchmarkEvaluatePermutation(b *testing.B) {
	delta := tensor.Identity(3)
	ops := []*tensor.Tensor{delta, delta, delta}
	fixed := index.OddPositions(3)

	b.Run("sequential", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = Evaluate(ops, fixed, index.Permutation, 3)
		}
	})

	b.Run("parallel", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = Evaluate(ops, fixed, index.Permutation, 3, WithParallel(parallel.DefaultConfig()))
		}
	})
}
