package observability

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	phaseDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ideaforge_phase_duration_seconds",
			Help:    "Workflow phase duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"phase"},
	)

	phaseRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ideaforge_phase_runs_total",
			Help: "Total number of phase executions",
		},
		[]string{"phase", "status"},
	)

	agentRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ideaforge_agent_runs_total",
			Help: "Total number of agent executions",
		},
		[]string{"agent", "status"},
	)

	agentDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ideaforge_agent_duration_seconds",
			Help:    "Agent execution duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"agent"},
	)

	generationCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ideaforge_generation_calls_total",
			Help: "Total number of text-generation calls",
		},
		[]string{"provider", "status"},
	)

	workflowsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ideaforge_workflows_total",
			Help: "Total number of completed workflow runs",
		},
		[]string{"status"},
	)
)

var registerMetricsOnce sync.Once

// InitMetrics registers the pipeline metrics with the default registry.
// Safe to call more than once.
func InitMetrics() {
	registerMetricsOnce.Do(func() {
		prometheus.MustRegister(
			phaseDuration,
			phaseRunsTotal,
			agentRunsTotal,
			agentDuration,
			generationCallsTotal,
			workflowsTotal,
		)
	})
}

// MetricsHandler returns the Prometheus scrape handler.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// ObservePhase records one phase execution.
func ObservePhase(phase, status string, seconds float64) {
	phaseDuration.WithLabelValues(phase).Observe(seconds)
	phaseRunsTotal.WithLabelValues(phase, status).Inc()
}

// ObserveAgent records one agent execution.
func ObserveAgent(agent, status string, seconds float64) {
	agentDuration.WithLabelValues(agent).Observe(seconds)
	agentRunsTotal.WithLabelValues(agent, status).Inc()
}

// ObserveGeneration records one text-generation call.
func ObserveGeneration(provider, status string) {
	generationCallsTotal.WithLabelValues(provider, status).Inc()
}

// ObserveWorkflow records one finished workflow run.
func ObserveWorkflow(status string) {
	workflowsTotal.WithLabelValues(status).Inc()
}
