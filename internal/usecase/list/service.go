// Package list implements the use cases for per-user watch lists.
package list

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"anishelf/internal/domain/entity"
	"anishelf/internal/observability/metrics"
	"anishelf/internal/repository"
)

// ErrEntryNotFound indicates no list entry exists for the given pair.
var ErrEntryNotFound = errors.New("list entry not found")

// ErrInvalidAnimeID indicates a non-positive catalog entry ID.
var ErrInvalidAnimeID = errors.New("invalid anime ID")

// Service provides watch list use cases.
type Service struct {
	Repo repository.ListRepository
}

// NewService creates a watch list Service.
func NewService(repo repository.ListRepository) Service {
	return Service{Repo: repo}
}

// Mine returns the calling user's watch list. A storage failure degrades
// to an empty list.
func (s *Service) Mine(ctx context.Context, userID int64) []*entity.ListEntry {
	entries, err := s.Repo.ListByUser(ctx, userID)
	if err != nil {
		metrics.RecordStoreDegradation("list_entries")
		slog.Error("watch list read failed, returning empty",
			slog.Int64("user_id", userID),
			slog.Any("error", err))
		return []*entity.ListEntry{}
	}
	return entries
}

// Put sets the watch status for a catalog entry, creating the entry when
// absent. Input problems come back as errors; a storage failure degrades
// to ok=false.
func (s *Service) Put(ctx context.Context, userID, animeID int64, status entity.ListStatus) (bool, error) {
	if animeID <= 0 {
		return false, fmt.Errorf("%w: %d", ErrInvalidAnimeID, animeID)
	}
	entry := &entity.ListEntry{UserID: userID, AnimeID: animeID, Status: status}
	if err := entry.Validate(); err != nil {
		return false, err
	}

	if err := s.Repo.Put(ctx, entry); err != nil {
		metrics.RecordStoreDegradation("put_list_entry")
		slog.Error("watch list write failed",
			slog.Int64("user_id", userID),
			slog.Int64("anime_id", animeID),
			slog.Any("error", err))
		return false, nil
	}
	return true, nil
}

// Remove drops a catalog entry from the user's watch list. A missing
// entry is reported as ErrEntryNotFound; a storage failure degrades to
// ok=false.
func (s *Service) Remove(ctx context.Context, userID, animeID int64) (bool, error) {
	if animeID <= 0 {
		return false, fmt.Errorf("%w: %d", ErrInvalidAnimeID, animeID)
	}

	err := s.Repo.Delete(ctx, userID, animeID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, entity.ErrNotFound) {
		return false, ErrEntryNotFound
	}

	metrics.RecordStoreDegradation("remove_list_entry")
	slog.Error("watch list delete failed",
		slog.Int64("user_id", userID),
		slog.Int64("anime_id", animeID),
		slog.Any("error", err))
	return false, nil
}
