// Package observability holds the Prometheus instrumentation for the
// orchestration engine.
package observability

import "github.com/prometheus/client_golang/prometheus"

// Metrics groups the collectors the engine updates while running
// sessions. Register them once on a registry and share the struct.
type Metrics struct {
	SessionsStarted  prometheus.Counter
	SessionsResumed  prometheus.Counter
	SessionsFinished *prometheus.CounterVec
	NodeRuns         *prometheus.CounterVec
	NodeDuration     *prometheus.HistogramVec
}

// NewMetrics creates and registers the engine collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SessionsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "agenticum_sessions_started_total",
			Help: "Campaign sessions created.",
		}),
		SessionsResumed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "agenticum_sessions_resumed_total",
			Help: "Sessions resumed after approval.",
		}),
		SessionsFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "agenticum_sessions_finished_total",
			Help: "Sessions that reached a terminal status.",
		}, []string{"status"}),
		NodeRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "agenticum_node_runs_total",
			Help: "Node executions by node ID and outcome.",
		}, []string{"node", "outcome"}),
		NodeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "agenticum_node_duration_seconds",
			Help:    "Wall-clock duration of node executions.",
			Buckets: prometheus.DefBuckets,
		}, []string{"node"}),
	}
	reg.MustRegister(m.SessionsStarted, m.SessionsResumed, m.SessionsFinished, m.NodeRuns, m.NodeDuration)
	return m
}

// NewNopMetrics returns metrics backed by a private registry, for
// tests and callers that don't scrape.
func NewNopMetrics() *Metrics {
	return NewMetrics(prometheus.NewRegistry())
}
