package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds Prometheus metrics for the triage service.
type Metrics struct {
	TicketsTotal     *prometheus.CounterVec
	EscalationsTotal *prometheus.CounterVec
	StageDuration    *prometheus.HistogramVec
	FeedbackTotal    *prometheus.CounterVec
	RetryTotal       prometheus.Counter
	Confidence       prometheus.Histogram
	RequestsTotal    *prometheus.CounterVec
	ErrorsTotal      *prometheus.CounterVec
}

// NewMetrics registers and returns service metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		TicketsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "triage_tickets_total",
			Help: "Total pipeline runs by final outcome.",
		}, []string{"outcome"}),
		EscalationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "triage_escalations_total",
			Help: "Total escalations by reason.",
		}, []string{"reason"}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "triage_stage_duration_seconds",
			Help:    "Duration of individual pipeline stages in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8), // 1ms .. ~16s
		}, []string{"stage"}),
		FeedbackTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "triage_feedback_total",
			Help: "Total feedback events by transition taken.",
		}, []string{"transition"}),
		RetryTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "triage_retries_total",
			Help: "Total feedback-driven pipeline re-runs.",
		}),
		Confidence: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "triage_confidence",
			Help:    "Overall confidence computed per evaluation.",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11), // 0.0 .. 1.0
		}),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "triage_http_requests_total",
			Help: "Total HTTP requests by path, method and status.",
		}, []string{"path", "method", "status"}),
		ErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "triage_http_errors_total",
			Help: "Total HTTP error responses by path, method and error code.",
		}, []string{"path", "method", "code"}),
	}

	reg.MustRegister(
		m.TicketsTotal,
		m.EscalationsTotal,
		m.StageDuration,
		m.FeedbackTotal,
		m.RetryTotal,
		m.Confidence,
		m.RequestsTotal,
		m.ErrorsTotal,
	)

	return m
}

// RecordRequest increments the request counter.
func (m *Metrics) RecordRequest(path, method, status string) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(path, method, status).Inc()
}

// RecordError increments the error counter.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(path, method, code).Inc()
}
