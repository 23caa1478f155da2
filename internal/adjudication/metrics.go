package adjudication

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the orchestrator's Prometheus instruments.
type Metrics struct {
	RunsTotal               *prometheus.CounterVec
	AgentRunsTotal          *prometheus.CounterVec
	ValidationFailuresTotal *prometheus.CounterVec
	RunDurationSeconds      prometheus.Histogram
}

// NewMetrics registers the orchestrator metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "isnad",
			Subsystem: "adjudication",
			Name:      "runs_total",
			Help:      "Adjudication runs by final status.",
		}, []string{"status"}),
		AgentRunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "isnad",
			Subsystem: "adjudication",
			Name:      "agent_runs_total",
			Help:      "Agent executions by result.",
		}, []string{"agent_type", "result"}),
		ValidationFailuresTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "isnad",
			Subsystem: "adjudication",
			Name:      "validation_failures_total",
			Help:      "Validator rejections by validator name.",
		}, []string{"validator"}),
		RunDurationSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "isnad",
			Subsystem: "adjudication",
			Name:      "run_duration_seconds",
			Help:      "Wall-clock duration of adjudication runs.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}
