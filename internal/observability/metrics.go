package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce           sync.Once
	httpRequestsTotal      *prometheus.CounterVec
	httpLatencySeconds     *prometheus.HistogramVec
	contactSubmissionTotal *prometheus.CounterVec
	contactEmailTotal      *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latency distribution for HTTP requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0, 5.0},
		}, []string{"method", "route"})

		contactSubmissionTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "contact_submissions_total",
			Help: "Contact submissions by outcome (invalid, stored, storage_unavailable).",
		}, []string{"outcome"})

		contactEmailTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "contact_confirmation_emails_total",
			Help: "Confirmation emails by outcome (sent, not_configured, failed).",
		}, []string{"outcome"})

		prometheus.MustRegister(httpRequestsTotal, httpLatencySeconds, contactSubmissionTotal, contactEmailTotal)
	})
}

// HTTPRequests exposes the request counter.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the request latency histogram.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// ContactSubmissions counts submissions by outcome.
func ContactSubmissions() *prometheus.CounterVec {
	RegisterMetrics()
	return contactSubmissionTotal
}

// ContactEmails counts confirmation emails by outcome.
func ContactEmails() *prometheus.CounterVec {
	RegisterMetrics()
	return contactEmailTotal
}
