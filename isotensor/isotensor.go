package isotensor

import (
	"context"
	"log/slog"

	"github.com/lbtheory/isoortho/internal/builder"
	"github.com/lbtheory/isoortho/internal/index"
	"github.com/lbtheory/isoortho/internal/logging"
	"github.com/lbtheory/isoortho/internal/parallel"
	"github.com/lbtheory/isoortho/internal/product"
	"github.com/lbtheory/isoortho/tensor"
)

// Domain errors, matched with errors.Is.
var (
	ErrInvalidDimension = builder.ErrInvalidDimension
	ErrInvalidOrder     = builder.ErrInvalidOrder
)

// DomainError reports a dimension or order outside the builders' domain.
type DomainError = builder.DomainError

// Tuple maps each result axis position to the 1-based source axis label
// feeding it.
type Tuple = index.Tuple

// ParallelConfig controls how a product is split across goroutines.
type ParallelConfig = parallel.Config

// DefaultParallel returns a ParallelConfig sized to the CPU count.
func DefaultParallel() ParallelConfig {
	return parallel.DefaultConfig()
}

// Option configures a build.
type Option func(*settings)

type settings struct {
	parallel ParallelConfig
	logger   *logging.Logger
}

// WithParallel evaluates each product on up to cfg.NumWorkers goroutines.
// Results are identical to sequential evaluation.
func WithParallel(cfg ParallelConfig) Option {
	return func(s *settings) {
		s.parallel = cfg
	}
}

// WithLogger logs each product evaluation at debug level through l.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = logging.New(l.Handler())
		}
	}
}

func newBuilder(opts []Option) *builder.Builder {
	s := settings{parallel: parallel.Sequential()}
	for _, opt := range opts {
		opt(&s)
	}
	return builder.New(
		builder.WithParallel(s.parallel),
		builder.WithLogger(s.logger),
	)
}

// Delta returns the Kronecker delta for dimension d: the d×d identity, or
// the scalar 1 when d is 1.
func Delta(d int) (*tensor.Tensor, error) {
	return builder.Delta(d)
}

// Isotropic returns Δ(n) for dimension d.
func Isotropic(n, d int, opts ...Option) (*tensor.Tensor, error) {
	return IsotropicContext(context.Background(), n, d, opts...)
}

// IsotropicContext is Isotropic with cancellation.
func IsotropicContext(ctx context.Context, n, d int, opts ...Option) (*tensor.Tensor, error) {
	return newBuilder(opts).Isotropic(ctx, n, d)
}

// Orthogonal returns Ο(n) for dimension d.
func Orthogonal(n, d int, opts ...Option) (*tensor.Tensor, error) {
	return OrthogonalContext(context.Background(), n, d, opts...)
}

// OrthogonalContext is Orthogonal with cancellation.
func OrthogonalContext(ctx context.Context, n, d int, opts ...Option) (*tensor.Tensor, error) {
	return newBuilder(opts).Orthogonal(ctx, n, d)
}

// GenerateCombinations enumerates the combinatorial index tuples for
// operands of the given ranks. fixed lists 1-based positions whose labels
// never move.
func GenerateCombinations(ranks []int, fixed ...int) ([]Tuple, error) {
	return index.Combinations(ranks, index.NewFixedSet(fixed...))
}

// GeneratePermutations enumerates the permutatorial index tuples for
// operands of the given ranks.
func GeneratePermutations(ranks []int, fixed ...int) ([]Tuple, error) {
	return index.Permutations(ranks, index.NewFixedSet(fixed...))
}

// CombinatorialProduct evaluates the combinatorial product of operands,
// every axis of which has extent d.
func CombinatorialProduct(operands []*tensor.Tensor, fixed []int, d int) (*tensor.Tensor, error) {
	return product.Evaluate(operands, index.NewFixedSet(fixed...), index.Combination, d)
}

// PermutatorialProduct evaluates the permutatorial product of operands,
// every axis of which has extent d.
func PermutatorialProduct(operands []*tensor.Tensor, fixed []int, d int) (*tensor.Tensor, error) {
	return product.Evaluate(operands, index.NewFixedSet(fixed...), index.Permutation, d)
}
