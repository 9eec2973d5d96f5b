package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopSatisfiesObserver(t *testing.T) {
	var o Observer = Noop{}
	o.OnProduct("isotropic", 2, 3, 3, time.Millisecond, nil)
	o.OnCacheLookup("isotropic", true)
}

func TestPrometheusProducts(t *testing.T) {
	p := NewPrometheus()
	p.OnProduct("orthogonal", 2, 3, 6, time.Millisecond, nil)
	p.OnProduct("orthogonal", 3, 3, 90, time.Millisecond, nil)
	p.OnProduct("orthogonal", 4, 3, 0, time.Millisecond, errors.New("cancelled"))

	assert.Equal(t, 2.0, testutil.ToFloat64(p.products.WithLabelValues("orthogonal", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.products.WithLabelValues("orthogonal", "error")))
	assert.Equal(t, 96.0, testutil.ToFloat64(p.terms.WithLabelValues("orthogonal")))
}

func TestPrometheusCacheLookups(t *testing.T) {
	p := NewPrometheus()
	p.OnCacheLookup("isotropic", true)
	p.OnCacheLookup("isotropic", false)
	p.OnCacheLookup("isotropic", true)

	assert.Equal(t, 2.0, testutil.ToFloat64(p.lookups.WithLabelValues("isotropic", "hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.lookups.WithLabelValues("isotropic", "miss")))
}

func TestPrometheusRegistry(t *testing.T) {
	p := NewPrometheus()
	p.OnProduct("isotropic", 2, 2, 3, time.Millisecond, nil)

	count, err := testutil.GatherAndCount(p.Registry(), "isoortho_products_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestWriteTextfile(t *testing.T) {
	p := NewPrometheus()
	p.OnProduct("isotropic", 2, 2, 3, time.Millisecond, nil)

	path := filepath.Join(t.TempDir(), "isoortho.prom")
	require.NoError(t, p.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `isoortho_products_total{kind="isotropic",status="success"} 1`)
}
