package cache

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Operation labels used on the failures counter.
const (
	OpGet    = "get"
	OpSet    = "set"
	OpDelete = "delete"
	OpKeys   = "keys"
	OpEncode = "encode"
	OpDecode = "decode"
)

// Metrics holds the prometheus collectors for cache traffic. Every method is
// safe to call on a nil *Metrics.
type Metrics struct {
	registry *prometheus.Registry

	Hits        *prometheus.CounterVec
	Misses      *prometheus.CounterVec
	Failures    *prometheus.CounterVec
	Invalidated *prometheus.CounterVec
}

// NewMetrics creates the collectors under namespace and registers them on a
// private registry.
func NewMetrics(namespace string) *Metrics {
	registry := prometheus.NewRegistry()

	hits := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Cache reads served from the key-value store.",
		},
		[]string{"family"},
	)
	misses := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Cache reads that fell through to the data store.",
		},
		[]string{"family"},
	)
	failures := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "failures_total",
			Help:      "Cache store operations that failed and were contained.",
		},
		[]string{"family", "op"},
	)
	invalidated := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "invalidated_keys_total",
			Help:      "Keys removed by write-path invalidation.",
		},
		[]string{"family"},
	)

	registry.MustRegister(hits, misses, failures, invalidated)

	return &Metrics{
		registry:    registry,
		Hits:        hits,
		Misses:      misses,
		Failures:    failures,
		Invalidated: invalidated,
	}
}

// Registry exposes the registry for an HTTP handler or a test gatherer.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) hit(family string) {
	if m == nil {
		return
	}
	m.Hits.WithLabelValues(family).Inc()
}

func (m *Metrics) miss(family string) {
	if m == nil {
		return
	}
	m.Misses.WithLabelValues(family).Inc()
}

func (m *Metrics) failure(family, op string) {
	if m == nil {
		return
	}
	m.Failures.WithLabelValues(family, op).Inc()
}

func (m *Metrics) invalidated(family string, n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.Invalidated.WithLabelValues(family).Add(float64(n))
}
