package parallel

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestForContext(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 4, MinChunkSize: 8}

	var counter int64
	err := ForContext(context.Background(), 500, func(_ context.Context, s, e int) error {
		atomic.AddInt64(&counter, int64(e-s))
		return nil
	}, cfg)
	if err != nil {
		t.Fatalf("ForContext failed: %v", err)
	}
	if counter != 500 {
		t.Errorf("Expected 500, got %d", counter)
	}
}

func TestForContext_CoversRangeOnce(t *testing.T) {
	const n = 1000
	cfg := Config{Enabled: true, NumWorkers: 3, MinChunkSize: 1}

	var mu sync.Mutex
	seen := make([]int, n)
	err := ForContext(context.Background(), n, func(_ context.Context, s, e int) error {
		mu.Lock()
		defer mu.Unlock()
		for i := s; i < e; i++ {
			seen[i]++
		}
		return nil
	}, cfg)
	if err != nil {
		t.Fatalf("ForContext failed: %v", err)
	}
	for i, c := range seen {
		if c != 1 {
			t.Fatalf("index %d visited %d times", i, c)
		}
	}
}

func TestForContext_Sequential(t *testing.T) {
	calls := 0
	err := ForContext(context.Background(), 100, func(_ context.Context, s, e int) error {
		calls++
		if s != 0 || e != 100 {
			t.Errorf("chunk = [%d, %d), want [0, 100)", s, e)
		}
		return nil
	}, Sequential())
	if err != nil {
		t.Fatalf("ForContext failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected 1 call, got %d", calls)
	}
}

func TestForContext_SmallInputRunsInline(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 8, MinChunkSize: 64}
	calls := 0
	_ = ForContext(context.Background(), 10, func(_ context.Context, _, _ int) error {
		calls++
		return nil
	}, cfg)
	if calls != 1 {
		t.Errorf("Expected 1 call below MinChunkSize, got %d", calls)
	}
}

func TestForContext_Empty(t *testing.T) {
	called := false
	err := ForContext(context.Background(), 0, func(_ context.Context, _, _ int) error {
		called = true
		return nil
	}, DefaultConfig())
	if err != nil || called {
		t.Errorf("empty range: err=%v called=%v", err, called)
	}
}

func TestForContext_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ForContext(ctx, 100, func(_ context.Context, _, _ int) error {
		t.Error("f called after cancellation")
		return nil
	}, DefaultConfig())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestForContext_Error(t *testing.T) {
	boom := errors.New("boom")
	cfg := Config{Enabled: true, NumWorkers: 2, MinChunkSize: 4}

	err := ForContext(context.Background(), 64, func(_ context.Context, s, _ int) error {
		if s == 0 {
			return boom
		}
		return nil
	}, cfg)
	if !errors.Is(err, boom) {
		t.Errorf("Expected boom, got %v", err)
	}
}

func BenchmarkForContext(b *testing.B) {
	cfg := DefaultConfig()
	n := 10000
	ctx := context.Background()

	work := func(_ context.Context, s, e int) error {
		var sum int64
		for i := s; i < e; i++ {
			sum += int64(i)
		}
		_ = sum
		return nil
	}

	b.Run("parallel", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = ForContext(ctx, n, work, cfg)
		}
	})

	b.Run("sequential", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = ForContext(ctx, n, work, Sequential())
		}
	})
}
