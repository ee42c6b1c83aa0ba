package resolver

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for entity resolution. All methods are
// nil-safe so callers can pass nil when metrics are not wired.
type Metrics struct {
	// Resolution outcomes by trust category and review flag.
	Outcomes *prometheus.CounterVec

	// Full resolution latency including validator fan-out.
	ResolveLatency prometheus.Histogram
}

// NewMetrics creates and registers the resolver metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		Outcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "consensus_resolutions_total",
			Help: "Total entity resolutions by trust category and review flag",
		}, []string{"category", "needs_review"}),

		ResolveLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "consensus_resolve_duration_seconds",
			Help:    "Duration of full entity resolution including validator fan-out",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

func (m *Metrics) ObserveOutcome(category string, needsReview bool, d time.Duration) {
	if m == nil {
		return
	}
	review := "false"
	if needsReview {
		review = "true"
	}
	m.Outcomes.WithLabelValues(category, review).Inc()
	m.ResolveLatency.Observe(d.Seconds())
}
