package metrics

import (
	"time"
)

// RecordCatalogFetch records a catalog fetch attempt against a source.
// Status is derived from err being nil.
func RecordCatalogFetch(source string, duration time.Duration, success bool) {
	result := "success"
	if !success {
		result = "failure"
	}
	CatalogFetchesTotal.WithLabelValues(source, result).Inc()
	CatalogFetchDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// RecordCascadeResolution records which source ultimately served a fetch
// cascade. Source is "sample" when every upstream failed.
func RecordCascadeResolution(source string) {
	CascadeResolutionsTotal.WithLabelValues(source).Inc()
}

// RecordProbe records the outcome of a connectivity probe.
func RecordProbe(source string, latency time.Duration, reachable bool) {
	if reachable {
		ProbeLatency.WithLabelValues(source).Observe(latency.Seconds())
		return
	}
	ProbeFailuresTotal.WithLabelValues(source).Inc()
}

// RecordReviewWrite records the result of a review write operation.
// Backend is "relational" or "kv".
func RecordReviewWrite(backend string, success bool) {
	result := "success"
	if !success {
		result = "failure"
	}
	ReviewWritesTotal.WithLabelValues(backend, result).Inc()
}

// RecordStoreDegradation records a store operation that fell back to the
// key-value mirror after the relational store failed.
func RecordStoreDegradation(operation string) {
	StoreDegradationsTotal.WithLabelValues(operation).Inc()
}

// UpdateCatalogEntriesTotal updates the total count of cached anime entries.
// This gauge should be updated periodically to reflect the current state.
func UpdateCatalogEntriesTotal(count int) {
	CatalogEntriesTotal.Set(float64(count))
}

// UpdateReviewsTotal updates the total count of stored reviews.
func UpdateReviewsTotal(count int) {
	ReviewsTotal.Set(float64(count))
}

// UpdateUsersTotal updates the total count of registered users.
func UpdateUsersTotal(count int) {
	UsersTotal.Set(float64(count))
}

// RecordDBQuery records the duration of a database query operation.
// Operation should describe the query type (e.g., "select_anime", "insert_review").
func RecordDBQuery(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// UpdateDBConnectionStats updates database connection pool statistics.
func UpdateDBConnectionStats(active, idle int) {
	DBConnectionsActive.Set(float64(active))
	DBConnectionsIdle.Set(float64(idle))
}
