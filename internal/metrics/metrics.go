// Package metrics exposes Prometheus counters for generation and mail calls.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels.
const (
	OutcomeOK        = "ok"
	OutcomeError     = "error"
	OutcomeMalformed = "malformed"
	OutcomeRejected  = "rejected"
)

// Metrics holds the collectors of one process.
type Metrics struct {
	registry *prometheus.Registry

	generationRequests *prometheus.CounterVec
	generationDuration *prometheus.HistogramVec
	toneFallbacks      prometheus.Counter
	mailOperations     *prometheus.CounterVec
}

// New registers every collector on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		generationRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "generation_requests_total",
			Help: "Generation provider calls by task and outcome.",
		}, []string{"task", "outcome"}),
		generationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "generation_duration_seconds",
			Help:    "Generation provider round trip time.",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40},
		}, []string{"task"}),
		toneFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tone_fallbacks_total",
			Help: "Requests whose tone id fell back to the default tone.",
		}),
		mailOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mail_operations_total",
			Help: "Mail provider calls by operation and outcome.",
		}, []string{"op", "outcome"}),
	}

	reg.MustRegister(
		m.generationRequests,
		m.generationDuration,
		m.toneFallbacks,
		m.mailOperations,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// ObserveGeneration records one provider round trip.
func (m *Metrics) ObserveGeneration(task, outcome string, took time.Duration) {
	if m == nil {
		return
	}
	m.generationRequests.WithLabelValues(task, outcome).Inc()
	if outcome != OutcomeRejected {
		m.generationDuration.WithLabelValues(task).Observe(took.Seconds())
	}
}

// ToneFallback records a tone id that resolved to the default tone.
func (m *Metrics) ToneFallback() {
	if m == nil {
		return
	}
	m.toneFallbacks.Inc()
}

// ObserveMail records one mail provider call.
func (m *Metrics) ObserveMail(op string, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	m.mailOperations.WithLabelValues(op, outcome).Inc()
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
