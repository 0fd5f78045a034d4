// Package review provides use cases for creating and querying reviews.
// Storage failures never propagate out of this package: operations degrade
// from the relational store to the key-value mirror and finally to
// empty/false/zero results, with the original error logged. Errors returned
// to callers are always about their input, never about storage health.
package review

import "errors"

// Sentinel errors for review use case operations.
var (
	// ErrReviewNotFound indicates that the requested review was not found.
	ErrReviewNotFound = errors.New("review not found")

	// ErrInvalidReviewID indicates that the provided review ID is invalid.
	// Review IDs must be positive integers.
	ErrInvalidReviewID = errors.New("invalid review ID")

	// ErrNotOwner indicates the caller tried to modify another user's review.
	ErrNotOwner = errors.New("review belongs to another user")
)
