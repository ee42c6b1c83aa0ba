package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the result cache. All methods are
// nil-safe so callers can pass nil when metrics are not wired.
type Metrics struct {
	Hits          prometheus.Counter
	Misses        prometheus.Counter
	Invalidations *prometheus.CounterVec
}

// NewMetrics creates and registers the cache metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		Hits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "consensus_cache_hits_total",
			Help: "Total classifier cache hits",
		}),
		Misses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "consensus_cache_misses_total",
			Help: "Total classifier cache misses",
		}),
		Invalidations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "consensus_cache_invalidations_total",
			Help: "Cache entries invalidated, by reason",
		}, []string{"reason"}), // reason: "version", "category"
	}
}

func (m *Metrics) ObserveHit() {
	if m != nil {
		m.Hits.Inc()
	}
}

func (m *Metrics) ObserveMiss() {
	if m != nil {
		m.Misses.Inc()
	}
}

func (m *Metrics) ObserveInvalidation(reason string, count int) {
	if m != nil {
		m.Invalidations.WithLabelValues(reason).Add(float64(count))
	}
}
