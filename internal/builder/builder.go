// Package builder builds the isotropic (Δ) and orthogonality (Ο) tensors of
// order n over a space of dimension d ∈ {1, 2, 3}.
//
// Both tensors have rank 2n and extent d on every axis. They are assembled
// from Kronecker deltas with the nonstandard products of package product:
//
//	Δ(n) = δ ⊗_C Δ(n-1)        fixed {1}, unordered label choice
//	Ο(n) = δ ⊗_P δ ⊗_P ... δ   fixed {1, 3, ..., 2n-1}, ordered label choice
//
// Δ(0) = Ο(0) = 1, Δ(1) = Ο(1) = δ, and for d = 1 every order is 1.
package builder

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lbtheory/isoortho/internal/cache"
	"github.com/lbtheory/isoortho/internal/index"
	"github.com/lbtheory/isoortho/internal/kronecker"
	"github.com/lbtheory/isoortho/internal/logging"
	"github.com/lbtheory/isoortho/internal/metrics"
	"github.com/lbtheory/isoortho/internal/parallel"
	"github.com/lbtheory/isoortho/internal/product"
	"github.com/lbtheory/isoortho/internal/tensor"
)

// Kind names one of the two tensor families.
type Kind int

const (
	// Isotropic is Δ, built with the combinatorial product.
	Isotropic Kind = iota
	// Orthogonal is Ο, built with the permutatorial product.
	Orthogonal
)

// String returns "isotropic" or "orthogonal".
func (k Kind) String() string {
	switch k {
	case Isotropic:
		return "isotropic"
	case Orthogonal:
		return "orthogonal"
	default:
		return "unknown"
	}
}

// ParseKind parses a tensor kind name.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "isotropic", "iso", "delta":
		return Isotropic, nil
	case "orthogonal", "ortho", "orthogonality":
		return Orthogonal, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// Builder builds Δ and Ο tensors. A Builder is safe for concurrent use when
// its cache is.
type Builder struct {
	parallel parallel.Config
	logger   *logging.Logger
	cache    cache.Store
	metrics  metrics.Observer
}

// New returns a Builder. Without options it evaluates sequentially, logs
// nothing and caches nothing.
func New(opts ...Option) *Builder {
	o := options{
		parallel: parallel.Sequential(),
		logger:   logging.Noop(),
		metrics:  metrics.Noop{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Builder{
		parallel: o.parallel,
		logger:   o.logger,
		cache:    o.cache,
		metrics:  o.metrics,
	}
}

// Delta returns the Kronecker delta for dimension d.
func Delta(d int) (*tensor.Tensor, error) {
	if err := Validate("delta", 0, d); err != nil {
		return nil, err
	}
	return kronecker.Delta(d)
}

// Build dispatches to Isotropic or Orthogonal.
func (b *Builder) Build(ctx context.Context, kind Kind, n, d int) (*tensor.Tensor, error) {
	switch kind {
	case Isotropic:
		return b.Isotropic(ctx, n, d)
	case Orthogonal:
		return b.Orthogonal(ctx, n, d)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, kind)
	}
}

// Isotropic returns Δ(n) for dimension d. It fails with a *DomainError
// before any computation if d ∉ {1, 2, 3} or n < 0.
func (b *Builder) Isotropic(ctx context.Context, n, d int) (*tensor.Tensor, error) {
	if err := Validate(Isotropic.String(), n, d); err != nil {
		return nil, err
	}
	return b.isotropic(ctx, n, d)
}

func (b *Builder) isotropic(ctx context.Context, n, d int) (*tensor.Tensor, error) {
	if t, ok := b.base(n, d); ok {
		return t, nil
	}

	key := cache.Key{Kind: Isotropic.String(), Order: n, Dim: d}
	if t, ok := b.lookup(ctx, key); ok {
		return t, nil
	}

	prev, err := b.isotropic(ctx, n-1, d)
	if err != nil {
		return nil, err
	}
	delta, err := kronecker.Delta(d)
	if err != nil {
		return nil, err
	}

	t, err := b.evaluate(ctx, key, []*tensor.Tensor{delta, prev}, index.NewFixedSet(1), index.Combination)
	if err != nil {
		return nil, err
	}
	b.store(ctx, key, t)
	return t, nil
}

// Orthogonal returns Ο(n) for dimension d. It fails with a *DomainError
// before any computation if d ∉ {1, 2, 3} or n < 0.
func (b *Builder) Orthogonal(ctx context.Context, n, d int) (*tensor.Tensor, error) {
	if err := Validate(Orthogonal.String(), n, d); err != nil {
		return nil, err
	}
	if t, ok := b.base(n, d); ok {
		return t, nil
	}

	key := cache.Key{Kind: Orthogonal.String(), Order: n, Dim: d}
	if t, ok := b.lookup(ctx, key); ok {
		return t, nil
	}

	delta, err := kronecker.Delta(d)
	if err != nil {
		return nil, err
	}
	operands := make([]*tensor.Tensor, n)
	for i := range operands {
		operands[i] = delta
	}

	t, err := b.evaluate(ctx, key, operands, index.OddPositions(n), index.Permutation)
	if err != nil {
		return nil, err
	}
	b.store(ctx, key, t)
	return t, nil
}

// base handles n = 0, d = 1 and n = 1, which need no product.
func (b *Builder) base(n, d int) (*tensor.Tensor, bool) {
	if n == 0 || d == 1 {
		return tensor.Scalar(1), true
	}
	if n == 1 {
		delta, err := kronecker.Delta(d)
		if err != nil {
			return nil, false
		}
		return delta, true
	}
	return nil, false
}

func (b *Builder) evaluate(ctx context.Context, key cache.Key, operands []*tensor.Tensor, fixed index.FixedSet, kind index.Kind) (*tensor.Tensor, error) {
	dims := make([]int, len(operands))
	for i, op := range operands {
		dims[i] = op.Rank()
	}

	log := b.logger.WithKind(key.Kind).WithOrder(key.Order).WithDim(key.Dim)
	terms, err := index.Count(kind, dims, fixed)
	if err == nil {
		log.Debug("evaluating product", "generator", kind.String(), "operands", len(operands), "terms", terms)
	}

	start := time.Now()
	t, err := product.EvaluateContext(ctx, operands, fixed, kind, key.Dim, product.WithParallel(b.parallel))
	elapsed := time.Since(start)
	b.metrics.OnProduct(key.Kind, key.Order, key.Dim, terms, elapsed, err)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	log.Debug("built tensor", "rank", t.Rank(), "elements", t.NumElements(), "elapsed", elapsed)
	return t, nil
}

func (b *Builder) lookup(ctx context.Context, key cache.Key) (*tensor.Tensor, bool) {
	if b.cache == nil {
		return nil, false
	}
	t, ok, err := b.cache.Get(ctx, key)
	if err != nil {
		b.logger.Warn("cache lookup failed", "key", key.String(), "error", err)
		return nil, false
	}
	b.metrics.OnCacheLookup(key.Kind, ok)
	if ok {
		b.logger.Debug("cache hit", "key", key.String())
	}
	return t, ok
}

func (b *Builder) store(ctx context.Context, key cache.Key, t *tensor.Tensor) {
	if b.cache == nil {
		return
	}
	if err := b.cache.Put(ctx, key, t); err != nil {
		b.logger.Warn("cache store failed", "key", key.String(), "error", err)
	}
}
