// Package metrics exports resolution statistics to Prometheus. The
// collector is optional: a nil *Collector is a valid no-op, so callers
// instrument unconditionally.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/collabdata/roles/types"
)

// Collector counts role resolutions and cache effectiveness
type Collector struct {
	resolutions   *prometheus.CounterVec
	cacheHits     prometheus.Counter
	cacheMisses   prometheus.Counter
	batchDuration prometheus.Histogram
}

// NewCollector registers the engine metrics with the given registerer
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		resolutions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "roles_resolutions_total",
			Help: "Total number of role resolutions, by resource kind",
		}, []string{"kind"}),
		cacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "roles_cache_hits_total",
			Help: "Total number of resolution cache hits",
		}),
		cacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "roles_cache_misses_total",
			Help: "Total number of resolution cache misses",
		}),
		batchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "roles_batch_compile_duration_seconds",
			Help:    "Duration of batch permission compilations in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),
	}
}

// Resolution counts one resolution for the resource kind
func (c *Collector) Resolution(kind types.ResourceKind) {
	if c == nil {
		return
	}
	c.resolutions.WithLabelValues(string(kind)).Inc()
}

// CacheHit counts one resolution served from cache
func (c *Collector) CacheHit() {
	if c == nil {
		return
	}
	c.cacheHits.Inc()
}

// CacheMiss counts one resolution computed from snapshots
func (c *Collector) CacheMiss() {
	if c == nil {
		return
	}
	c.cacheMisses.Inc()
}

// ObserveBatch records the duration of one batch compilation
func (c *Collector) ObserveBatch(d time.Duration) {
	if c == nil {
		return
	}
	c.batchDuration.Observe(d.Seconds())
}
