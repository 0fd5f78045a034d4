// Package catalog provides clients for external anime catalog APIs.
// Each client normalizes its upstream's responses into entity.Anime so the
// fetch cascade can treat every source interchangeably.
package catalog

import (
	"fmt"
	"net/http"
)

// Kind classifies a fetch failure so callers can decide whether the next
// source in the cascade is worth trying.
type Kind string

const (
	// KindNoConnection indicates the source could not be reached at all.
	KindNoConnection Kind = "no_connection"

	// KindNotFound indicates the source answered but has no such entry.
	KindNotFound Kind = "not_found"

	// KindRateLimited indicates the source rejected the request for quota reasons.
	KindRateLimited Kind = "rate_limited"

	// KindServerError indicates the source failed internally (5xx).
	KindServerError Kind = "server_error"

	// KindUnknown covers everything else.
	KindUnknown Kind = "unknown"
)

// FetchError describes a failed request against a catalog source.
type FetchError struct {
	Source     string
	Kind       Kind
	StatusCode int
	Err        error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s (HTTP %d): %v", e.Source, e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Source, e.Kind, e.Err)
}

// Unwrap returns the underlying error.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// classifyStatus maps an HTTP status code to a failure kind.
func classifyStatus(status int) Kind {
	switch {
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusTooManyRequests:
		return KindRateLimited
	case status >= 500:
		return KindServerError
	default:
		return KindUnknown
	}
}

// connectionError wraps a transport-level failure where no HTTP response
// was received.
func connectionError(source string, err error) *FetchError {
	return &FetchError{Source: source, Kind: KindNoConnection, Err: err}
}

// statusError wraps a non-2xx HTTP response.
func statusError(source string, status int, err error) *FetchError {
	return &FetchError{Source: source, Kind: classifyStatus(status), StatusCode: status, Err: err}
}
