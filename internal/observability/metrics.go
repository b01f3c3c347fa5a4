package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups all Prometheus instruments used by the service.
type Metrics struct {
	CommandsRouted *prometheus.CounterVec
	WorkflowTurns  prometheus.Counter
	ActiveWorkflow prometheus.Gauge
	SamplerErrors  prometheus.Counter
	ActionFailures *prometheus.CounterVec
	RouteLatency   prometheus.Histogram
}

func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		CommandsRouted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_routed_total",
			Help:      "Routed commands by intent and outcome.",
		}, []string{"intent", "outcome"}),
		WorkflowTurns: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "workflow_turns_total",
			Help:      "Utterances consumed by an active workflow.",
		}),
		ActiveWorkflow: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_workflow",
			Help:      "1 while a guided workflow is in progress.",
		}),
		SamplerErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sampler_errors_total",
			Help:      "Desktop sampling failures.",
		}),
		ActionFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "action_failures_total",
			Help:      "External action failures by category.",
		}, []string{"category"}),
		RouteLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "route_latency_ms",
			Help:      "Latency of one routed command in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}),
	}
}

func (m *Metrics) ObserveRouteLatency(d time.Duration) {
	m.RouteLatency.Observe(float64(d.Milliseconds()))
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
