package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CartMetrics records cart mutation outcomes and lock waits.
type CartMetrics struct {
	operations *prometheus.CounterVec
	lockWait   prometheus.Histogram
}

// NewCartMetrics registers the cart metrics on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_operations_total",
		Help: "Cart operations by name and outcome.",
	}, []string{"operation", "outcome"})
	lockWait := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cart_lock_wait_seconds",
		Help:    "Time spent waiting for the per-user cart lock.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 3},
	})
	reg.MustRegister(operations, lockWait)
	return &CartMetrics{
		operations: operations,
		lockWait:   lockWait,
	}
}

// IncSuccess counts a successful cart operation.
func (c *CartMetrics) IncSuccess(operation string) {
	c.inc(operation, "success")
}

// IncFailure counts a failed cart operation.
func (c *CartMetrics) IncFailure(operation string) {
	c.inc(operation, "failure")
}

// ObserveLockWait records how long a caller waited for the cart lock.
func (c *CartMetrics) ObserveLockWait(d time.Duration) {
	if c == nil || c.lockWait == nil {
		return
	}
	c.lockWait.Observe(d.Seconds())
}

func (c *CartMetrics) inc(operation, outcome string) {
	if c == nil || c.operations == nil {
		return
	}
	c.operations.WithLabelValues(normalizeLabel(operation), outcome).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
