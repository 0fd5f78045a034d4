package pathutil_test

import (
	"fmt"

	"anishelf/internal/handler/http/pathutil"
)

// ExampleNormalizePath demonstrates how path normalization works
// to prevent metrics label cardinality explosion.
func ExampleNormalizePath() {
	// After normalization: all anime IDs map to the same template
	fmt.Println(pathutil.NormalizePath("/anime/123"))
	fmt.Println(pathutil.NormalizePath("/anime/456"))
	fmt.Println(pathutil.NormalizePath("/anime/789"))

	// Output:
	// /anime/:id
	// /anime/:id
	// /anime/:id
}

// ExampleNormalizePath_reviews demonstrates normalization for review endpoints.
func ExampleNormalizePath_reviews() {
	fmt.Println(pathutil.NormalizePath("/reviews/1"))
	fmt.Println(pathutil.NormalizePath("/reviews/2"))
	fmt.Println(pathutil.NormalizePath("/reviews/3"))

	// Output:
	// /reviews/:id
	// /reviews/:id
	// /reviews/:id
}

// ExampleNormalizePath_static demonstrates that static endpoints remain unchanged.
func ExampleNormalizePath_static() {
	fmt.Println(pathutil.NormalizePath("/health"))
	fmt.Println(pathutil.NormalizePath("/metrics"))
	fmt.Println(pathutil.NormalizePath("/auth/token"))

	// Output:
	// /health
	// /metrics
	// /auth/token
}

// ExampleNormalizePath_search demonstrates that search endpoints remain unchanged.
func ExampleNormalizePath_search() {
	fmt.Println(pathutil.NormalizePath("/anime/search"))
	fmt.Println(pathutil.NormalizePath("/anime/top"))

	// Output:
	// /anime/search
	// /anime/top
}

// ExampleNormalizePath_queryParameters demonstrates that query parameters are stripped.
func ExampleNormalizePath_queryParameters() {
	fmt.Println(pathutil.NormalizePath("/anime/123?page=1"))
	fmt.Println(pathutil.NormalizePath("/anime/search?q=cowboy"))
	fmt.Println(pathutil.NormalizePath("/health?format=json"))

	// Output:
	// /anime/:id
	// /anime/search
	// /health
}

// ExampleNormalizePath_nested demonstrates normalization of nested routes.
func ExampleNormalizePath_nested() {
	fmt.Println(pathutil.NormalizePath("/anime/123/reviews"))
	fmt.Println(pathutil.NormalizePath("/anime/456/rating"))

	// Output:
	// /anime/:id/reviews
	// /anime/:id/rating
}

// ExampleGetExpectedCardinality demonstrates how to check expected metric cardinality.
func ExampleGetExpectedCardinality() {
	cardinality := pathutil.GetExpectedCardinality()
	fmt.Printf("Expected unique path labels: ~%d\n", cardinality)

	// Output is approximate, so we just demonstrate the usage
	// In real output: Expected unique path labels: ~15
}
