// Package metrics provides Prometheus metrics for the poke-finder service.
// Scrape these at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pokefinder_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pokefinder_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Upstream Metrics
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pokefinder_upstream_requests_total",
			Help: "Requests made to upstream sources",
		},
		[]string{"source", "result"}, // source: "portal" or "wiki", result: "ok" or "error"
	)

	UpstreamLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pokefinder_upstream_latency_seconds",
			Help:    "Upstream request latency in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"source"},
	)

	// Roster cache
	RosterCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pokefinder_roster_cache_hits_total",
			Help: "Roster cache hit count",
		},
	)

	RosterCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pokefinder_roster_cache_misses_total",
			Help: "Roster cache miss count",
		},
	)

	// Lookup Metrics
	LookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pokefinder_lookups_total",
			Help: "Lookups by kind and outcome",
		},
		[]string{"kind", "outcome"}, // kind: "name" or "body"
	)

	MatchTolerance = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pokefinder_match_tolerance",
			Help:    "Tolerance at which a body match settled",
			Buckets: []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
		},
	)

	MalformedRecordsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pokefinder_malformed_records_total",
			Help: "Roster entries skipped during body matching",
		},
	)
)
