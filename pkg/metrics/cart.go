package metrics

import "github.com/prometheus/client_golang/prometheus"

// CartMetrics counts device-storage problems hit by the cart store.
type CartMetrics struct {
	persistFailures *prometheus.CounterVec
	corruptLoads    prometheus.Counter
}

// NewCartMetrics registers the cart metrics on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	persistFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_persist_failures_total",
		Help: "Cart snapshot writes that failed, by operation.",
	}, []string{"op"})
	corruptLoads := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cart_corrupt_loads_total",
		Help: "Persisted carts discarded because they could not be parsed.",
	})
	reg.MustRegister(persistFailures, corruptLoads)
	return &CartMetrics{
		persistFailures: persistFailures,
		corruptLoads:    corruptLoads,
	}
}

// IncPersistFailure records a failed snapshot write for the named mutation.
func (c *CartMetrics) IncPersistFailure(op string) {
	if c == nil || c.persistFailures == nil {
		return
	}
	c.persistFailures.WithLabelValues(normalizeLabel(op)).Inc()
}

// IncCorruptLoad records a discarded snapshot.
func (c *CartMetrics) IncCorruptLoad() {
	if c == nil || c.corruptLoads == nil {
		return
	}
	c.corruptLoads.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
