package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricing_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pricing_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	CalculationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pricing_calculations_total",
			Help: "Total number of rule-based price calculations",
		},
	)

	RulesAppliedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricing_rules_applied_total",
			Help: "Total number of rule applications by rule type",
		},
		[]string{"rule_type"},
	)

	UsageRecordingFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pricing_usage_recording_failures_total",
			Help: "Total number of failed usage-count writes",
		},
	)

	BulkPricingHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pricing_bulk_hits_total",
			Help: "Total number of bulk price calculations that matched a tier",
		},
	)

	BulkPricingMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pricing_bulk_misses_total",
			Help: "Total number of bulk price calculations without a matching tier",
		},
	)
)
