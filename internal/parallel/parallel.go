// Package parallel splits loops over result positions across goroutines.
package parallel

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool `yaml:"enabled"`        // Whether parallel execution is enabled.
	NumWorkers   int  `yaml:"workers"`        // Number of worker goroutines to use.
	MinChunkSize int  `yaml:"min_chunk_size"` // Minimum items per goroutine to avoid overhead.
}

// DefaultConfig returns sensible defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 64,
	}
}

// Sequential returns a Config that always runs on the calling goroutine.
func Sequential() Config {
	return Config{Enabled: false, NumWorkers: 1, MinChunkSize: 1}
}

func (cfg Config) sequential(n int) bool {
	return !cfg.Enabled || cfg.NumWorkers <= 1 || n < cfg.MinChunkSize
}

func (cfg Config) chunkSize(n int) int {
	return max((n+cfg.NumWorkers-1)/cfg.NumWorkers, cfg.MinChunkSize, 1)
}

// ForContext calls f once per contiguous chunk [start, end) of [0, n), so a
// worker can set up scratch buffers once. It falls back to a single call on
// the calling goroutine if parallelism is disabled or n is too small.
//
// Chunks not yet started when ctx is cancelled are skipped and the context
// error is returned. f may also return an error, which cancels the remaining
// chunks.
func ForContext(ctx context.Context, n int, f func(ctx context.Context, start, end int) error, cfg Config) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if n == 0 {
		return nil
	}
	if cfg.sequential(n) {
		return f(ctx, 0, n)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.NumWorkers)
	chunkSize := cfg.chunkSize(n)

	for start := 0; start < n; start += chunkSize {
		s, e := start, min(start+chunkSize, n)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return f(gctx, s, e)
		})
	}
	return g.Wait()
}
