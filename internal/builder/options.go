package builder

import (
	"github.com/lbtheory/isoortho/internal/cache"
	"github.com/lbtheory/isoortho/internal/logging"
	"github.com/lbtheory/isoortho/internal/metrics"
	"github.com/lbtheory/isoortho/internal/parallel"
)

type options struct {
	parallel parallel.Config
	logger   *logging.Logger
	cache    cache.Store
	metrics  metrics.Observer
}

// Option configures a Builder.
type Option func(*options)

// WithParallel splits each product evaluation across goroutines.
// Results are identical to sequential evaluation.
func WithParallel(cfg parallel.Config) Option {
	return func(o *options) {
		o.parallel = cfg
	}
}

// WithLogger sets the logger. If nil is passed, logging is disabled.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) {
		if l == nil {
			l = logging.Noop()
		}
		o.logger = l
	}
}

// WithCache memoizes every built order, including the intermediate orders
// of a recursive build. Cache failures are logged and otherwise ignored.
func WithCache(s cache.Store) Option {
	return func(o *options) {
		o.cache = s
	}
}

// WithMetrics reports every product evaluation and cache lookup to o.
func WithMetrics(o metrics.Observer) Option {
	return func(opts *options) {
		if o == nil {
			o = metrics.Noop{}
		}
		opts.metrics = o
	}
}
