package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records payment-redirect reconciliation outcomes.
type CheckoutMetrics struct {
	outcomes *prometheus.CounterVec
	duration prometheus.Histogram
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_reconcile_total",
		Help: "Reconciliation runs by displayed state and order update status.",
	}, []string{"display", "order_update"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "checkout_reconcile_duration_seconds",
		Help:    "Wall time of one reconciliation run.",
		Buckets: prometheus.DefBuckets,
	})
	reg.MustRegister(outcomes, duration)
	return &CheckoutMetrics{outcomes: outcomes, duration: duration}
}

// Observe records one finished run.
func (c *CheckoutMetrics) Observe(display, orderUpdate string, elapsed time.Duration) {
	if c == nil || c.outcomes == nil {
		return
	}
	c.outcomes.WithLabelValues(normalizeLabel(display), normalizeLabel(orderUpdate)).Inc()
	c.duration.Observe(elapsed.Seconds())
}
