package isotensor_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lbtheory/isoortho/isotensor"
	"github.com/lbtheory/isoortho/tensor"
)

func TestIsotropicOrder2Dim2(t *testing.T) {
	iso, err := isotensor.Isotropic(2, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 0, 0, 1, 0, 1, 1, 0, 0, 1, 1, 0, 1, 0, 0, 3}, iso.Data())
}

func TestOrthogonalOrder2Dim2(t *testing.T) {
	ortho, err := isotensor.Orthogonal(2, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 0, 0, 1, 0, 0, 1, 0, 0, 1, 0, 0, 1, 0, 0, 2}, ortho.Data())
}

func TestDelta(t *testing.T) {
	d3, err := isotensor.Delta(3)
	require.NoError(t, err)
	assert.True(t, d3.Equal(tensor.Identity(3)))

	d1, err := isotensor.Delta(1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), d1.Item())
}

func TestDomainErrors(t *testing.T) {
	_, err := isotensor.Orthogonal(-1, 4)
	require.ErrorIs(t, err, isotensor.ErrInvalidDimension)

	_, err = isotensor.Isotropic(-1, 2)
	require.ErrorIs(t, err, isotensor.ErrInvalidOrder)

	var domainErr *isotensor.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "order", domainErr.Param)
	assert.Equal(t, -1, domainErr.Value)
}

func TestParallelOption(t *testing.T) {
	seq, err := isotensor.Isotropic(3, 3)
	require.NoError(t, err)

	cfg := isotensor.DefaultParallel()
	cfg.Enabled = true
	cfg.NumWorkers = 4
	cfg.MinChunkSize = 1
	par, err := isotensor.Isotropic(3, 3, isotensor.WithParallel(cfg))
	require.NoError(t, err)
	assert.True(t, seq.Equal(par))
}

func TestLoggerOption(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := isotensor.Orthogonal(2, 2, isotensor.WithLogger(l))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "kind=orthogonal")
}

func TestContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := isotensor.OrthogonalContext(ctx, 3, 3)
	require.ErrorIs(t, err, context.Canceled)
	_, err = isotensor.IsotropicContext(ctx, 3, 3)
	require.ErrorIs(t, err, context.Canceled)
}

func TestGenerators(t *testing.T) {
	combos, err := isotensor.GenerateCombinations([]int{2, 2}, 1)
	require.NoError(t, err)
	assert.Len(t, combos, 3)

	perms, err := isotensor.GeneratePermutations([]int{2, 2}, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, []isotensor.Tuple{{1, 2, 3, 4}, {1, 4, 3, 2}}, perms)
}

func TestProductsMatchBuilders(t *testing.T) {
	delta, err := isotensor.Delta(3)
	require.NoError(t, err)

	ortho, err := isotensor.PermutatorialProduct([]*tensor.Tensor{delta, delta}, []int{1, 3}, 3)
	require.NoError(t, err)
	want, err := isotensor.Orthogonal(2, 3)
	require.NoError(t, err)
	assert.True(t, want.Equal(ortho))

	iso, err := isotensor.CombinatorialProduct([]*tensor.Tensor{delta, delta}, []int{1}, 3)
	require.NoError(t, err)
	want, err = isotensor.Isotropic(2, 3)
	require.NoError(t, err)
	assert.True(t, want.Equal(iso))
}
