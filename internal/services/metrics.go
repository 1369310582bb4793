package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all custom Prometheus metrics for the honeypot pipeline
type Metrics struct {
	TurnsProcessed *prometheus.CounterVec // outcome: "engaged" or "skipped"
	TurnLatency    prometheus.Histogram
	OracleErrors   *prometheus.CounterVec
	IntelItems     *prometheus.CounterVec // newly extracted items per category
}

var globalMetrics *Metrics

// InitMetrics initializes the Prometheus metrics
func InitMetrics(store *SessionStore) *Metrics {
	metrics := &Metrics{
		TurnsProcessed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "honeynet_turns_total",
			Help: "Total number of analyzed turns by outcome",
		}, []string{"outcome"}),

		TurnLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "honeynet_turn_duration_seconds",
			Help:    "End-to-end turn processing latency in seconds",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60}, // oracle calls dominate the tail
		}),

		OracleErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "honeynet_oracle_errors_total",
			Help: "Total oracle failures recovered into fail-closed defaults",
		}, []string{"error_type"}), // "unavailable", "malformed", "reply"

		IntelItems: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "honeynet_intelligence_items_total",
			Help: "Total intelligence items extracted per category",
		}, []string{"category"}),
	}

	// Live session count comes straight from the store
	prometheus.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "honeynet_sessions_active",
			Help: "Current number of in-memory conversation sessions",
		},
		func() float64 {
			if store != nil {
				return float64(store.Count())
			}
			return 0
		},
	))

	globalMetrics = metrics
	return metrics
}

// GetMetrics returns the global metrics instance
func GetMetrics() *Metrics {
	return globalMetrics
}

// RecordTurn records a processed turn and its outcome
func (m *Metrics) RecordTurn(outcome string, seconds float64) {
	m.TurnsProcessed.WithLabelValues(outcome).Inc()
	m.TurnLatency.Observe(seconds)
}

// RecordOracleError records a recovered oracle failure
func (m *Metrics) RecordOracleError(errorType string) {
	m.OracleErrors.WithLabelValues(errorType).Inc()
}

// RecordIntel records newly extracted intelligence items for a category
func (m *Metrics) RecordIntel(category string, count int) {
	if count > 0 {
		m.IntelItems.WithLabelValues(category).Add(float64(count))
	}
}
