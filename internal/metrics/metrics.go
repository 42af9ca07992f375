// Package metrics holds the Prometheus collectors shared by the server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Attempt outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeSkipped = "skipped"
)

var (
	ProviderAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "xylogen",
		Name:      "provider_attempts_total",
		Help:      "Provider attempts made by the fallback sequencer, by outcome.",
	}, []string{"provider", "outcome"})

	ProviderLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "xylogen",
		Name:      "provider_attempt_seconds",
		Help:      "Duration of a single provider attempt.",
		Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 15, 30},
	}, []string{"provider"})

	Responses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "xylogen",
		Name:      "responses_total",
		Help:      "Chat and news responses by surface and status.",
	}, []string{"surface", "status"})
)

// HTTPRequests counts served requests by route template and status code.
var HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "xylogen",
	Name:      "http_requests_total",
	Help:      "HTTP requests served, by route and status code.",
}, []string{"method", "route", "code"})
