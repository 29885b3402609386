// Package metrics holds the Prometheus instrumentation for searchcore.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search engine Prometheus metrics.
var (
	EngineRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "searchcore",
			Name:      "engine_requests_total",
			Help:      "Total number of engine invocations",
		},
		[]string{"engine", "status"}, // status: "ok" / "degraded"
	)

	EngineRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "searchcore",
			Name:      "engine_request_duration_seconds",
			Help:      "Engine invocation duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"engine"},
	)

	EngineResultCount = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "searchcore",
			Name:      "engine_result_count",
			Help:      "Number of results returned per engine invocation",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100},
		},
		[]string{"engine"},
	)

	RefinementDecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "searchcore",
			Name:      "refinement_decisions_total",
			Help:      "Refinement decisions by outcome and grouping strategy",
		},
		[]string{"outcome", "strategy"}, // outcome: "direct" / "refine"
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(EngineRequestsTotal)
	prometheus.MustRegister(EngineRequestDuration)
	prometheus.MustRegister(EngineResultCount)
	prometheus.MustRegister(RefinementDecisionsTotal)
	searchMetricsRegistered = true
}
