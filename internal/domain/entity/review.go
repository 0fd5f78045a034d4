package entity

import "time"

// Review represents a user's star-rated review of a catalog entry.
// The store allows more than one review per (user, anime) pair; callers that
// want upsert semantics must update the existing review by ID.
type Review struct {
	ID        int64
	UserID    int64
	AnimeID   int64
	Rating    int
	Comment   string
	PhotoURL  string
	CreatedAt time.Time
}

const (
	// MinRating is the lowest allowed star rating.
	MinRating = 1
	// MaxRating is the highest allowed star rating.
	MaxRating = 5

	// maxCommentLength bounds free-text comments.
	maxCommentLength = 2000
)

// Validate validates the Review entity fields.
func (r *Review) Validate() error {
	if r.UserID == 0 {
		return &ValidationError{Field: "user_id", Message: "user_id is required"}
	}
	if r.AnimeID == 0 {
		return &ValidationError{Field: "anime_id", Message: "anime_id is required"}
	}
	if r.Rating < MinRating || r.Rating > MaxRating {
		return &ValidationError{Field: "rating", Message: "rating must be between 1 and 5"}
	}
	if len([]rune(r.Comment)) > maxCommentLength {
		return &ValidationError{Field: "comment", Message: "comment is too long"}
	}
	if r.PhotoURL != "" {
		if err := ValidateURL(r.PhotoURL); err != nil {
			return err
		}
	}
	return nil
}
