// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hackstack_http_requests_total",
			Help: "Total number of HTTP requests by route pattern",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hackstack_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	HealthProbeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hackstack_health_probe_duration_seconds",
			Help:    "Duration of downstream service health probes",
			Buckets: []float64{.005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"service", "status"},
	)

	ReadinessScore = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hackstack_demo_readiness_score",
			Help: "Most recent demo readiness score (0-100)",
		},
	)

	VendorCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hackstack_vendor_calls_total",
			Help: "Vendor calls by outcome mode",
		},
		[]string{"vendor", "operation", "mode"},
	)

	BusinessCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hackstack_business_cache_lookups_total",
			Help: "Business list cache lookups",
		},
		[]string{"result"},
	)

	AlertsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hackstack_readiness_alerts_total",
			Help: "Readiness alerts by channel and outcome",
		},
		[]string{"channel", "status"},
	)
)
