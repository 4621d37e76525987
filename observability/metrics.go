package observability

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ActionMetrics records the lending action pipeline: outcomes, gas fallback
// uses, approvals, and oracle refreshes.
type ActionMetrics struct {
	actions         *prometheus.CounterVec
	duration        *prometheus.HistogramVec
	gasFallbacks    *prometheus.CounterVec
	approvals       prometheus.Counter
	oracleRefreshes prometheus.Counter
}

var (
	actionMetricsOnce sync.Once
	actionRegistry    *ActionMetrics
)

// Metrics returns the lazily-initialised action metrics registry.
func Metrics() *ActionMetrics {
	actionMetricsOnce.Do(func() {
		actionRegistry = &ActionMetrics{
			actions: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "pairlend",
				Subsystem: "action",
				Name:      "total",
				Help:      "Total lending actions segmented by action and outcome.",
			}, []string{"action", "outcome"}),
			duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: "pairlend",
				Subsystem: "action",
				Name:      "duration_seconds",
				Help:      "End-to-end latency of lending actions including confirmation waits.",
				Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
			}, []string{"action"}),
			gasFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "pairlend",
				Subsystem: "action",
				Name:      "gas_fallbacks_total",
				Help:      "Count of actions that fell back to the fixed gas ceiling after a failed estimate.",
			}, []string{"action"}),
			approvals: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "pairlend",
				Subsystem: "action",
				Name:      "approvals_total",
				Help:      "Count of ERC-20 approval transactions issued by the authorizer.",
			}),
			oracleRefreshes: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "pairlend",
				Subsystem: "action",
				Name:      "oracle_refreshes_total",
				Help:      "Count of oracle update transactions triggered by staleness.",
			}),
		}
		prometheus.MustRegister(
			actionRegistry.actions,
			actionRegistry.duration,
			actionRegistry.gasFallbacks,
			actionRegistry.approvals,
			actionRegistry.oracleRefreshes,
		)
	})
	return actionRegistry
}

// ObserveAction records one completed action with its outcome and duration.
func (m *ActionMetrics) ObserveAction(action, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.actions.WithLabelValues(action, outcome).Inc()
	m.duration.WithLabelValues(action).Observe(elapsed.Seconds())
}

// GasFallback records an estimate failure recovered via the fixed ceiling.
func (m *ActionMetrics) GasFallback(action string) {
	if m == nil {
		return
	}
	m.gasFallbacks.WithLabelValues(action).Inc()
}

// ApprovalSubmitted records an issued approval transaction.
func (m *ActionMetrics) ApprovalSubmitted() {
	if m == nil {
		return
	}
	m.approvals.Inc()
}

// OracleRefreshed records a staleness-triggered oracle update.
func (m *ActionMetrics) OracleRefreshed() {
	if m == nil {
		return
	}
	m.oracleRefreshes.Inc()
}
