// Package metrics defines the Prometheus collectors shared across the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Cache metrics
var (
	// CacheHits counts response cache hits.
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "localreco_cache_hits_total",
		Help: "Total cache hits",
	})

	// CacheMisses counts response cache misses (including expired entries).
	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "localreco_cache_misses_total",
		Help: "Total cache misses",
	})

	// CacheEvictions counts entries dropped by periodic eviction.
	CacheEvictions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "localreco_cache_evictions_total",
		Help: "Total expired cache entries evicted",
	})
)

// Admission / rate limiting
var (
	// RateLimitRefusals counts requests refused by the sliding-window
	// admission controller.
	RateLimitRefusals = promauto.NewCounter(prometheus.CounterOpts{
		Name: "localreco_rate_limit_refusals_total",
		Help: "Total requests refused by the admission controller",
	})
)

// Pipeline metrics
var (
	// SearchDuration tracks end-to-end search-and-aggregate latency.
	SearchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "localreco_search_duration_seconds",
		Help:    "Search and aggregation duration in seconds",
		Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
	})

	// EstablishmentsDropped counts establishments dropped during enrichment.
	EstablishmentsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "localreco_establishments_dropped_total",
		Help: "Establishments dropped because enrichment failed",
	})
)

// Upstream metrics
var (
	// UpstreamRequests counts calls to external services by upstream and status.
	UpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "localreco_upstream_requests_total",
		Help: "Upstream requests by service and status",
	}, []string{"upstream", "status"})
)
