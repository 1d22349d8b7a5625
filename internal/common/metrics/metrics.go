// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ApplicationsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "applications_processed_total",
			Help: "Total number of credit applications processed",
		},
		[]string{"status"},
	)

	ProviderAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_attempts_total",
			Help: "Total number of external provider calls attempted",
		},
		[]string{"processor", "provider"},
	)

	ProviderFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_fallbacks_total",
			Help: "Total number of times a processor fell back from a provider",
		},
		[]string{"processor", "provider", "reason"},
	)

	ProcessorDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "processor_duration_seconds",
			Help: "Duration of processor execution in seconds",
		},
		[]string{"processor"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "Duration of HTTP request handling in seconds",
		},
		[]string{"path", "method"},
	)
)
