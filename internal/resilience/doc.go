// Package resilience holds the fault tolerance building blocks shared by
// the API and worker: circuit breakers around the catalog sources and the
// database, and retry with exponential backoff and jitter for transient
// failures.
//
//	cb := circuitbreaker.NewCircuitBreaker("anilist", circuitbreaker.DefaultConfig())
//	result, err := cb.Execute(func() (interface{}, error) {
//	    return fetchSeason(ctx)
//	})
//
//	err := retry.WithBackoff(ctx, retry.DefaultConfig(), func() error {
//	    return refreshFeed(ctx)
//	})
package resilience
