// Package catalog provides use cases for retrieving anime catalog data
// from external sources with cascading fallback. Sources are tried
// strictly in preference order and the static sample set terminates every
// cascade, so catalog reads always resolve to usable data.
package catalog

import "errors"

// Sentinel errors for catalog use case operations.
var (
	// ErrAllSourcesFailed indicates that every source in a cascade rejected.
	// Callers that wire the sample provider as the last attempt never see it.
	ErrAllSourcesFailed = errors.New("all catalog sources failed")

	// ErrInvalidAnimeID indicates that the provided anime ID is invalid.
	// Anime IDs must be positive integers.
	ErrInvalidAnimeID = errors.New("invalid anime ID")

	// ErrAnimeNotFound indicates that no source, cache, or sample entry
	// matched the requested anime.
	ErrAnimeNotFound = errors.New("anime not found")
)
