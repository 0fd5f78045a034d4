// Package metrics provides Prometheus metrics registry and recording utilities.
//
// This package centralizes all application metrics including:
//   - HTTP request metrics (duration, count, size)
//   - Catalog metrics (fetch cascade, source probes)
//   - Review and account metrics
//   - Database query metrics
//
// All metrics are automatically registered with the Prometheus default registry
// and exposed via the /metrics endpoint.
//
// Example usage:
//
//	import "anishelf/internal/observability/metrics"
//
//	func fetchTrending(source string) {
//	    start := time.Now()
//	    // ... call the source ...
//	    metrics.RecordCatalogFetch(source, time.Since(start), err == nil)
//	}
package metrics
