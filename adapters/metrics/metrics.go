// Package metrics provides Prometheus metrics collection for the gateway.
package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// knownPrefixes maps request paths onto a bounded label set.
var knownPrefixes = []string{
	"/api/humanize",
	"/api/detect",
	"/api/payments",
	"/api/transactions",
	"/api/usage",
	"/users",
	"/token",
	"/admin",
	"/health",
	"/status",
	"/docs",
}

// NormalizePath collapses a request path to a known route prefix so the
// path label keeps bounded cardinality.
func NormalizePath(path string) string {
	for _, p := range knownPrefixes {
		if path == p || strings.HasPrefix(path, p+"/") {
			return p
		}
	}
	return "other"
}

// Collector holds all Prometheus metrics for the gateway.
type Collector struct {
	// Request metrics
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge

	// Auth metrics
	AuthFailures *prometheus.CounterVec

	// Rate limit metrics
	RateLimitHits    *prometheus.CounterVec
	RateLimitAllowed *prometheus.CounterVec

	// Usage metrics
	UsageRequests *prometheus.CounterVec
	UsageWords    *prometheus.CounterVec

	// External service metrics
	ServiceDuration *prometheus.HistogramVec
	ServiceErrors   *prometheus.CounterVec

	// Config metrics
	ConfigReloads      prometheus.Counter
	ConfigReloadErrors prometheus.Counter
	ConfigLastReload   prometheus.Gauge
}

// New creates a new metrics collector with all metrics registered on
// the default registry.
func New() *Collector {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates a new metrics collector with a custom registry.
// Useful for testing to avoid global state.
func NewWithRegistry(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		// Request metrics
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "andikar",
				Name:      "requests_total",
				Help:      "Total number of requests processed",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "andikar",
				Name:      "request_duration_seconds",
				Help:      "Request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path", "status"},
		),
		RequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "andikar",
				Name:      "requests_in_flight",
				Help:      "Number of requests currently being processed",
			},
		),

		// Auth metrics
		AuthFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "andikar",
				Name:      "auth_failures_total",
				Help:      "Total number of authentication failures",
			},
			[]string{"reason"},
		),

		// Rate limit metrics
		RateLimitHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "andikar",
				Name:      "rate_limit_hits_total",
				Help:      "Total number of rejected requests",
			},
			[]string{"key_type"},
		),
		RateLimitAllowed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "andikar",
				Name:      "rate_limit_allowed_total",
				Help:      "Total number of admitted requests",
			},
			[]string{"key_type"},
		),

		// Usage metrics
		UsageRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "andikar",
				Name:      "usage_requests_total",
				Help:      "Total text operations by kind",
			},
			[]string{"kind"},
		),
		UsageWords: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "andikar",
				Name:      "usage_words_total",
				Help:      "Total words processed by kind",
			},
			[]string{"kind"},
		),

		// External service metrics
		ServiceDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "andikar",
				Name:      "service_duration_seconds",
				Help:      "External service call duration in seconds",
				Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"service"},
		),
		ServiceErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "andikar",
				Name:      "service_errors_total",
				Help:      "Total number of external service errors",
			},
			[]string{"service"},
		),

		// Config metrics
		ConfigReloads: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "andikar",
				Name:      "config_reloads_total",
				Help:      "Total number of successful config reloads",
			},
		),
		ConfigReloadErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "andikar",
				Name:      "config_reload_errors_total",
				Help:      "Total number of config reload errors",
			},
		),
		ConfigLastReload: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "andikar",
				Name:      "config_last_reload_timestamp",
				Help:      "Unix timestamp of last successful config reload",
			},
		),
	}
}
