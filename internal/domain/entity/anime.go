// Package entity defines the core domain entities and validation logic for the application.
// It contains the fundamental business objects such as Anime, Review and User, along with
// their validation rules and domain-specific errors.
package entity

import (
	"math"
	"strings"
	"time"
)

// Status is the lifecycle status of a catalog entry.
type Status string

// Lifecycle statuses for anime entries. Unrecognized source values map to StatusUnknown.
const (
	StatusFinished  Status = "finished"
	StatusAiring    Status = "airing"
	StatusUpcoming  Status = "upcoming"
	StatusCancelled Status = "cancelled"
	StatusPaused    Status = "paused"
	StatusUnknown   Status = "unknown"
)

// statusLookup maps raw status strings from the external catalogs onto the
// canonical Status set. Keys are lowercased before lookup.
var statusLookup = map[string]Status{
	"finished":         StatusFinished,
	"finished airing":  StatusFinished,
	"complete":         StatusFinished,
	"completed":        StatusFinished,
	"releasing":        StatusAiring,
	"currently airing": StatusAiring,
	"airing":           StatusAiring,
	"not_yet_released": StatusUpcoming,
	"not yet aired":    StatusUpcoming,
	"upcoming":         StatusUpcoming,
	"cancelled":        StatusCancelled,
	"canceled":         StatusCancelled,
	"hiatus":           StatusPaused,
	"paused":           StatusPaused,
}

// ParseStatus maps a source-specific status string to a canonical Status.
// Unrecognized values fall back to StatusUnknown.
func ParseStatus(raw string) Status {
	if s, ok := statusLookup[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return s
	}
	return StatusUnknown
}

// Anime represents a normalized catalog entry.
// Entries come from one of the external catalogs (or the sample provider) and
// share this shape regardless of source. User-created entries synthesize the
// ID from the creation timestamp.
type Anime struct {
	ID           int64
	Title        string
	TitleEnglish string
	Description  string
	ImageURL     string
	Rating       float64
	Genres       []string
	Year         int
	Status       Status
	Episodes     int
	Duration     string
	Studio       string
	SourceMedium string
}

// NormalizeRating clamps the rating to a finite non-negative number.
// A missing or malformed source rating maps to 0.
func NormalizeRating(r float64) float64 {
	if math.IsNaN(r) || math.IsInf(r, 0) || r < 0 {
		return 0
	}
	return r
}

// SynthesizeID derives an identifier for a user-generated entry from its
// creation timestamp.
func SynthesizeID(t time.Time) int64 {
	return t.UnixMilli()
}

// Validate validates the Anime entity fields.
func (a *Anime) Validate() error {
	if a.Title == "" {
		return &ValidationError{Field: "title", Message: "title is required"}
	}
	if math.IsNaN(a.Rating) || math.IsInf(a.Rating, 0) || a.Rating < 0 {
		return &ValidationError{Field: "rating", Message: "rating must be a finite non-negative number"}
	}
	if a.ImageURL != "" {
		if err := ValidateURL(a.ImageURL); err != nil {
			return err
		}
	}
	return nil
}
