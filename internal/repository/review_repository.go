package repository

import (
	"context"

	"anishelf/internal/domain/entity"
)

// ReviewUpdate carries the mutable fields of a review for partial updates.
// Nil fields are left untouched.
type ReviewUpdate struct {
	Rating   *int
	Comment  *string
	PhotoURL *string
}

// ReviewRepository manages persisted review records.
// The table does not enforce uniqueness of (user_id, anime_id); a second
// insert for the same pair creates a duplicate row. Callers wanting upsert
// behavior must check HasReviewed and update by ID.
type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	ListByAnime(ctx context.Context, animeID int64) ([]*entity.Review, error)
	ListByUser(ctx context.Context, userID int64) ([]*entity.Review, error)
	// Get returns (nil, nil) when no review has the given ID.
	Get(ctx context.Context, id int64) (*entity.Review, error)
	Update(ctx context.Context, id int64, update ReviewUpdate) error
	Delete(ctx context.Context, id int64) error
	// AverageRating returns the mean rating for the entry, or 0 when the
	// entry has no reviews.
	AverageRating(ctx context.Context, animeID int64) (float64, error)
	HasReviewed(ctx context.Context, userID, animeID int64) (bool, error)
}
