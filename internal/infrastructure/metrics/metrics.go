package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for RateLookupsTotal
const (
	OutcomeCached   = "cached"
	OutcomeFresh    = "fresh"
	OutcomeFallback = "fallback"
)

type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	RateLookupsTotal      *prometheus.CounterVec
	UpstreamFetchDuration prometheus.Histogram
	UpstreamFailuresTotal prometheus.Counter
}

// NewMetrics registers the collectors on reg. Pass prometheus.DefaultRegisterer
// in production and a fresh prometheus.NewRegistry() in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"path", "method", "status_code"},
		),

		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"path", "method"},
		),

		RateLookupsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rate_lookups_total",
				Help: "Rate lookups by outcome (cached, fresh, fallback)",
			},
			[]string{"outcome"},
		),

		UpstreamFetchDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "rates_upstream_fetch_duration_seconds",
				Help:    "Duration of calls to the exchange rate API",
				Buckets: prometheus.DefBuckets,
			},
		),

		UpstreamFailuresTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "rates_upstream_failures_total",
				Help: "Failed calls to the exchange rate API",
			},
		),
	}
}
