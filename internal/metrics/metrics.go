// Package metrics records builder activity.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Observer receives builder events. Implementations must be safe for
// concurrent use.
type Observer interface {
	// OnProduct is called after each product evaluation. terms is the number
	// of index tuples summed per result element.
	OnProduct(kind string, order, dim, terms int, elapsed time.Duration, err error)

	// OnCacheLookup is called after each cache lookup.
	OnCacheLookup(kind string, hit bool)
}

// Noop discards all events.
type Noop struct{}

func (Noop) OnProduct(string, int, int, int, time.Duration, error) {}
func (Noop) OnCacheLookup(string, bool)                            {}

// Prometheus exports builder events through its own registry.
type Prometheus struct {
	registry *prometheus.Registry
	products *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	terms    *prometheus.CounterVec
	lookups  *prometheus.CounterVec
}

// NewPrometheus creates a Prometheus observer with a fresh registry.
func NewPrometheus() *Prometheus {
	p := &Prometheus{
		registry: prometheus.NewRegistry(),
		products: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "isoortho_products_total",
			Help: "Product evaluations by tensor kind and status",
		}, []string{"kind", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "isoortho_product_duration_seconds",
			Help:    "Product evaluation latency",
			Buckets: prometheus.ExponentialBuckets(1e-5, 4, 12),
		}, []string{"kind", "dim"}),
		terms: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "isoortho_product_terms_total",
			Help: "Index tuples summed per result element, accumulated over evaluations",
		}, []string{"kind"}),
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "isoortho_cache_lookups_total",
			Help: "Tensor cache lookups by result",
		}, []string{"kind", "result"}),
	}
	p.registry.MustRegister(p.products, p.latency, p.terms, p.lookups)
	return p
}

// OnProduct implements Observer.
func (p *Prometheus) OnProduct(kind string, _, dim, terms int, elapsed time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	p.products.WithLabelValues(kind, status).Inc()
	if err != nil {
		return
	}
	p.latency.WithLabelValues(kind, fmt.Sprint(dim)).Observe(elapsed.Seconds())
	p.terms.WithLabelValues(kind).Add(float64(terms))
}

// OnCacheLookup implements Observer.
func (p *Prometheus) OnCacheLookup(kind string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	p.lookups.WithLabelValues(kind, result).Inc()
}

// Registry returns the registry holding the builder metrics.
func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}

// WriteTextfile writes the metrics in the text exposition format to path,
// for the node exporter's textfile collector.
func (p *Prometheus) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, p.registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}
