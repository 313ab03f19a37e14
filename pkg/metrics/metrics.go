// Package metrics holds the prometheus instrumentation of the persistence engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the engine collectors. A nil *Metrics records nothing.
type Metrics struct {
	Statements       *prometheus.CounterVec
	StatementSeconds *prometheus.HistogramVec
	MemoryPaging     *prometheus.CounterVec
	ReleaseFailures  prometheus.Counter
}

// New creates unregistered collectors
func New() *Metrics {
	return &Metrics{
		Statements: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "persistence_statements_total",
				Help: "Statements executed by the persistence engine",
			},
			[]string{"op", "status"},
		),
		StatementSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "persistence_statement_duration_seconds",
				Help:    "Duration of statements executed by the persistence engine",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"op"},
		),
		MemoryPaging: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "persistence_memory_paging_total",
				Help: "Paged queries that fell back to in-memory pagination",
			},
			[]string{"dialect"},
		),
		ReleaseFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "persistence_resource_release_failures_total",
				Help: "Parameter resources that failed to close",
			},
		),
	}
}

// MustRegister registers all collectors on registry.
// If metrics with the same name already exist on the registry this function will panic.
func (m *Metrics) MustRegister(registry prometheus.Registerer) {
	registry.MustRegister(m.Statements, m.StatementSeconds, m.MemoryPaging, m.ReleaseFailures)
}

// SampleStatement records one executed statement
func (m *Metrics) SampleStatement(op string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.Statements.With(prometheus.Labels{"op": op, "status": status}).Inc()
	m.StatementSeconds.With(prometheus.Labels{"op": op}).Observe(elapsed.Seconds())
}

// SampleMemoryPaging records one in-memory pagination fallback
func (m *Metrics) SampleMemoryPaging(dialect string) {
	if m == nil {
		return
	}
	m.MemoryPaging.With(prometheus.Labels{"dialect": dialect}).Inc()
}

// SampleReleaseFailures records resources that failed to close
func (m *Metrics) SampleReleaseFailures(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.ReleaseFailures.Add(float64(n))
}
