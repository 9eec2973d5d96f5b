package cache

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lbtheory/isoortho/internal/tensor"
)

func sample(t *testing.T) *tensor.Tensor {
	t.Helper()
	tt, err := tensor.FromSlice([]int64{3, 0, 0, 1, 0, 1, 1, 0, 0, 1, 1, 0, 1, 0, 0, 3}, tensor.Cube(4, 2))
	require.NoError(t, err)
	return tt
}

// storeContract runs the behavior every Store must share.
func storeContract(t *testing.T, s Store) {
	ctx := context.Background()
	key := Key{Kind: "isotropic", Order: 2, Dim: 2}

	_, ok, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	want := sample(t)
	require.NoError(t, s.Put(ctx, key, want))

	// mutating the original after Put must not reach the store
	want.SetFlat(0, 99)

	got, ok, err := s.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, sample(t).Equal(got))

	// mutating a returned tensor must not reach the store either
	got.SetFlat(1, 42)
	again, ok, err := s.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(0), again.AtFlat(1))

	scalarKey := Key{Kind: "orthogonal", Order: 0, Dim: 3}
	require.NoError(t, s.Put(ctx, scalarKey, tensor.Scalar(1)))
	scalar, ok, err := s.Get(ctx, scalarKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 0, scalar.Rank())
	assert.Equal(t, int64(1), scalar.Item())

	require.NoError(t, s.Close())
	_, _, err = s.Get(ctx, key)
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, s.Put(ctx, key, want), ErrClosed)
}

func TestMemoryStore(t *testing.T) {
	storeContract(t, NewMemory())
}

func TestMemoryLen(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Put(context.Background(), Key{Kind: "isotropic", Order: 1, Dim: 2}, tensor.Identity(2)))
	assert.Equal(t, 1, m.Len())
}

func TestSQLiteStore(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	storeContract(t, s)
}

func TestSQLitePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	ctx := context.Background()
	key := Key{Kind: "orthogonal", Order: 1, Dim: 3}

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, key, tensor.Identity(3)))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()

	got, ok, err := s.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, tensor.Identity(3).Equal(got))

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Key{key}, keys)
}

func TestSQLiteCorruptEntry(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO tensors (kind, ord, dim, shape, data, created_at) VALUES ('isotropic', 1, 2, '[2,2]', x'00', 0)`)
	require.NoError(t, err)

	_, _, err = s.Get(ctx, Key{Kind: "isotropic", Order: 1, Dim: 2})
	assert.ErrorIs(t, err, ErrCorruptEntry)
}

func TestKeyString(t *testing.T) {
	assert.Equal(t, "isotropic/n=3/d=2", Key{Kind: "isotropic", Order: 3, Dim: 2}.String())
}
