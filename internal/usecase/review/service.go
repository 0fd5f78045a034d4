package review

import (
	"context"
	"log/slog"
	"time"

	"anishelf/internal/domain/entity"
	"anishelf/internal/observability/metrics"
	"anishelf/internal/repository"
)

// Mirror is the slice of the key-value store the review service degrades
// to when the relational store is unavailable. Records are keyed by the
// owning user's email.
type Mirror interface {
	GetReviews(email string) ([]*entity.Review, error)
	PutReviews(email string, reviews []*entity.Review) error
}

// CreateInput represents the input parameters for creating a new review.
type CreateInput struct {
	UserID    int64
	UserEmail string
	AnimeID   int64
	Rating    int
	Comment   string
	PhotoURL  string
}

// UpdateInput represents the input parameters for a partial review update.
// Nil fields are left untouched.
type UpdateInput struct {
	ID       int64
	UserID   int64
	Rating   *int
	Comment  *string
	PhotoURL *string
}

// Service provides review use cases over the relational repository with
// the key-value mirror as fallback.
type Service struct {
	Repo   repository.ReviewRepository
	Mirror Mirror
}

// NewService creates a review Service. mirror may be nil, in which case
// degradation skips straight to empty/false/zero.
func NewService(repo repository.ReviewRepository, mirror Mirror) Service {
	return Service{Repo: repo, Mirror: mirror}
}

// Create stores a new review. The returned error is only ever about the
// input; a relational failure degrades to the mirror, and ok reports
// whether any store accepted the review.
func (s *Service) Create(ctx context.Context, in CreateInput) (*entity.Review, bool, error) {
	rev := &entity.Review{
		UserID:    in.UserID,
		AnimeID:   in.AnimeID,
		Rating:    in.Rating,
		Comment:   in.Comment,
		PhotoURL:  in.PhotoURL,
		CreatedAt: time.Now(),
	}
	if err := rev.Validate(); err != nil {
		return nil, false, err
	}

	err := s.Repo.Create(ctx, rev)
	if err == nil {
		metrics.RecordReviewWrite("relational", true)
		return rev, true, nil
	}
	metrics.RecordReviewWrite("relational", false)
	metrics.RecordStoreDegradation("create_review")
	slog.Error("review create failed, degrading to mirror",
		slog.Int64("user_id", in.UserID),
		slog.Int64("anime_id", in.AnimeID),
		slog.Any("error", err))

	if s.Mirror == nil || in.UserEmail == "" {
		return nil, false, nil
	}

	existing, err := s.Mirror.GetReviews(in.UserEmail)
	if err != nil {
		metrics.RecordReviewWrite("kv", false)
		slog.Error("mirror read failed", slog.Any("error", err))
		return nil, false, nil
	}

	rev.ID = entity.SynthesizeID(rev.CreatedAt)
	if err := s.Mirror.PutReviews(in.UserEmail, append(existing, rev)); err != nil {
		metrics.RecordReviewWrite("kv", false)
		slog.Error("mirror write failed", slog.Any("error", err))
		return nil, false, nil
	}

	metrics.RecordReviewWrite("kv", true)
	return rev, true, nil
}

// ListByAnime returns all reviews for a catalog entry. A storage failure
// degrades to an empty list; the mirror cannot index by entry.
func (s *Service) ListByAnime(ctx context.Context, animeID int64) []*entity.Review {
	reviews, err := s.Repo.ListByAnime(ctx, animeID)
	if err != nil {
		metrics.RecordStoreDegradation("list_by_anime")
		slog.Error("review list failed, returning empty",
			slog.Int64("anime_id", animeID),
			slog.Any("error", err))
		return []*entity.Review{}
	}
	return reviews
}

// ListMine returns the calling user's reviews, degrading to the mirror and
// finally to an empty list.
func (s *Service) ListMine(ctx context.Context, userID int64, email string) []*entity.Review {
	reviews, err := s.Repo.ListByUser(ctx, userID)
	if err == nil {
		return reviews
	}

	metrics.RecordStoreDegradation("list_mine")
	slog.Error("review list failed, degrading to mirror",
		slog.Int64("user_id", userID),
		slog.Any("error", err))

	if s.Mirror == nil || email == "" {
		return []*entity.Review{}
	}
	mirrored, err := s.Mirror.GetReviews(email)
	if err != nil {
		slog.Error("mirror read failed", slog.Any("error", err))
		return []*entity.Review{}
	}

	if mirrored == nil {
		return []*entity.Review{}
	}
	return mirrored
}

// AverageRating returns the mean rating for a catalog entry. An entry with
// no reviews and a failing store both yield 0.
func (s *Service) AverageRating(ctx context.Context, animeID int64) float64 {
	avg, err := s.Repo.AverageRating(ctx, animeID)
	if err != nil {
		metrics.RecordStoreDegradation("average_rating")
		slog.Error("average rating failed, returning 0",
			slog.Int64("anime_id", animeID),
			slog.Any("error", err))
		return 0
	}
	return avg
}

// HasReviewed reports whether the user already reviewed the entry,
// degrading to false. Callers use it to decide between create and update.
func (s *Service) HasReviewed(ctx context.Context, userID, animeID int64) bool {
	has, err := s.Repo.HasReviewed(ctx, userID, animeID)
	if err != nil {
		metrics.RecordStoreDegradation("has_reviewed")
		slog.Error("has reviewed check failed, returning false",
			slog.Int64("user_id", userID),
			slog.Int64("anime_id", animeID),
			slog.Any("error", err))
		return false
	}
	return has
}

// Update applies a partial update to the caller's own review. Input and
// ownership problems come back as errors; storage failures degrade to
// ok=false.
func (s *Service) Update(ctx context.Context, in UpdateInput) (bool, error) {
	if in.ID <= 0 {
		return false, ErrInvalidReviewID
	}
	if in.Rating != nil && (*in.Rating < entity.MinRating || *in.Rating > entity.MaxRating) {
		return false, &entity.ValidationError{Field: "rating", Message: "rating must be between 1 and 5"}
	}
	if in.PhotoURL != nil && *in.PhotoURL != "" {
		if err := entity.ValidateURL(*in.PhotoURL); err != nil {
			return false, err
		}
	}

	existing, err := s.Repo.Get(ctx, in.ID)
	if err != nil {
		metrics.RecordStoreDegradation("update_review")
		slog.Error("review lookup failed",
			slog.Int64("review_id", in.ID),
			slog.Any("error", err))
		return false, nil
	}
	if existing == nil {
		return false, ErrReviewNotFound
	}
	if existing.UserID != in.UserID {
		return false, ErrNotOwner
	}

	update := repository.ReviewUpdate{
		Rating:   in.Rating,
		Comment:  in.Comment,
		PhotoURL: in.PhotoURL,
	}
	if err := s.Repo.Update(ctx, in.ID, update); err != nil {
		metrics.RecordStoreDegradation("update_review")
		slog.Error("review update failed",
			slog.Int64("review_id", in.ID),
			slog.Any("error", err))
		return false, nil
	}
	return true, nil
}

// Delete removes the caller's own review. Ownership problems come back as
// errors; storage failures degrade to ok=false.
func (s *Service) Delete(ctx context.Context, userID, id int64) (bool, error) {
	if id <= 0 {
		return false, ErrInvalidReviewID
	}

	existing, err := s.Repo.Get(ctx, id)
	if err != nil {
		metrics.RecordStoreDegradation("delete_review")
		slog.Error("review lookup failed",
			slog.Int64("review_id", id),
			slog.Any("error", err))
		return false, nil
	}
	if existing == nil {
		return false, ErrReviewNotFound
	}
	if existing.UserID != userID {
		return false, ErrNotOwner
	}

	if err := s.Repo.Delete(ctx, id); err != nil {
		metrics.RecordStoreDegradation("delete_review")
		slog.Error("review delete failed",
			slog.Int64("review_id", id),
			slog.Any("error", err))
		return false, nil
	}
	return true, nil
}
