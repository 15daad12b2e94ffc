// Package metrics exposes Prometheus collectors shared by the HTTP adapter
// and the services.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts handled requests per endpoint and status class.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "protetor",
		Name:      "http_requests_total",
		Help:      "HTTP requests handled, by endpoint and status code.",
	}, []string{"endpoint", "status"})

	// RequestDuration tracks wall-clock handler latency.
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "protetor",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint"})

	// CacheOps counts cache lookups by endpoint category and outcome
	// (hit, miss, error).
	CacheOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "protetor",
		Name:      "cache_ops_total",
		Help:      "Cache lookups by category and outcome.",
	}, []string{"category", "outcome"})

	// RateLimitRejections counts 429s issued locally, per category.
	RateLimitRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "protetor",
		Name:      "rate_limit_rejections_total",
		Help:      "Requests rejected by the local rate limiter.",
	}, []string{"category"})

	// UpstreamDuration tracks upstream API call latency per collaborator.
	UpstreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "protetor",
		Name:      "upstream_duration_seconds",
		Help:      "Upstream API call duration.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"upstream"})

	// SweeperPurged counts entries removed by the expiry sweeper.
	SweeperPurged = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "protetor",
		Name:      "sweeper_purged_total",
		Help:      "Expired store entries purged by the background sweeper.",
	})
)
