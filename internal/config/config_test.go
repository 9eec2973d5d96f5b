package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 3, cfg.Dim)
	assert.Equal(t, "text", cfg.Format)
	assert.Empty(t, cfg.Cache.Path)
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "full.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Dim)
	assert.Equal(t, "json", cfg.Format)
	assert.True(t, cfg.Parallel.Enabled)
	assert.Equal(t, 4, cfg.Parallel.NumWorkers)
	assert.Equal(t, 16, cfg.Parallel.MinChunkSize)
	assert.Equal(t, "/tmp/isoortho.db", cfg.Cache.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "/tmp/isoortho.prom", cfg.Metrics.Textfile)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestParsePartialKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte("dim: 1\n"))
	require.NoError(t, err)

	want := Default()
	want.Dim = 1
	assert.Equal(t, want, cfg)
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("dimension: 2\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestParseInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"dim zero", "dim: 0\n"},
		{"dim four", "dim: 4\n"},
		{"format", "format: xml\n"},
		{"workers", "parallel:\n  workers: -1\n"},
		{"chunk", "parallel:\n  min_chunk_size: -1\n"},
		{"log level", "log:\n  level: trace\n"},
		{"log format", "log:\n  format: yaml\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.ErrorIs(t, err, ErrInvalid)
		})
	}
}
