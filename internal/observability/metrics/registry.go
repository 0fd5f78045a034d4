// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics track HTTP request patterns and performance
var (
	// HTTPRequestsTotal counts total HTTP requests by method, path, and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures HTTP request duration in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestSize measures HTTP request body size in bytes
	HTTPRequestSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_size_bytes",
			Help:    "HTTP request size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)

	// HTTPResponseSize measures HTTP response body size in bytes
	HTTPResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "HTTP response size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)

	// ActiveConnections tracks the number of active HTTP connections
	ActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)
)

// Catalog metrics track the fetch cascade and its sources
var (
	// CatalogEntriesTotal tracks total number of cached anime entries
	CatalogEntriesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_entries_total",
			Help: "Total number of anime entries in the catalog cache",
		},
	)

	// CatalogFetchesTotal counts catalog fetch attempts by source and result
	CatalogFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_fetches_total",
			Help: "Total number of catalog fetch attempts",
		},
		[]string{"source", "result"}, // result: success, failure
	)

	// CatalogFetchDuration measures time to fetch from a catalog source
	CatalogFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_fetch_duration_seconds",
			Help:    "Time taken to fetch from a catalog source",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
		[]string{"source"},
	)

	// CascadeResolutionsTotal counts which source ultimately served a request
	CascadeResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cascade_resolutions_total",
			Help: "Total number of fetch cascades resolved, by winning source",
		},
		[]string{"source"}, // includes "sample" when every upstream failed
	)

	// ProbeLatency measures connectivity probe round-trip time per source
	ProbeLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "probe_latency_seconds",
			Help:    "Connectivity probe round-trip time",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"source"},
	)

	// ProbeFailuresTotal counts failed connectivity probes per source
	ProbeFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "probe_failures_total",
			Help: "Total number of failed connectivity probes",
		},
		[]string{"source"},
	)
)

// Review and account metrics
var (
	// ReviewsTotal tracks total number of stored reviews
	ReviewsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reviews_total",
			Help: "Total number of reviews in the store",
		},
	)

	// UsersTotal tracks total number of registered users
	UsersTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "users_total",
			Help: "Total number of registered users",
		},
	)

	// ReviewWritesTotal counts review write operations by backend and result
	ReviewWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "review_writes_total",
			Help: "Total number of review write operations",
		},
		[]string{"backend", "result"}, // backend: relational, kv
	)

	// StoreDegradationsTotal counts falls from the relational store to the
	// key-value mirror, by operation
	StoreDegradationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_degradations_total",
			Help: "Total number of store operations that fell back to the key-value mirror",
		},
		[]string{"operation"},
	)
)

// Database metrics track database performance
var (
	// DBQueryDuration measures database query duration
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 10),
		},
		[]string{"operation"},
	)

	// DBConnectionsActive tracks active database connections
	DBConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_active",
			Help: "Number of active database connections",
		},
	)

	// DBConnectionsIdle tracks idle database connections
	DBConnectionsIdle = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_idle",
			Help: "Number of idle database connections",
		},
	)
)

// RecordHTTPRequest records an HTTP request with its metadata
func RecordHTTPRequest(method, path, status string, duration time.Duration, requestSize, responseSize int) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())

	if requestSize > 0 {
		HTTPRequestSize.WithLabelValues(method, path).Observe(float64(requestSize))
	}
	if responseSize > 0 {
		HTTPResponseSize.WithLabelValues(method, path).Observe(float64(responseSize))
	}
}

// RecordOperationDuration records the duration of a named operation
func RecordOperationDuration(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
