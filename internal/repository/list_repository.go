package repository

import (
	"context"

	"anishelf/internal/domain/entity"
)

// ListRepository manages per-user watch list entries. The
// (user_id, anime_id) pair is unique; Put upserts on conflict.
type ListRepository interface {
	ListByUser(ctx context.Context, userID int64) ([]*entity.ListEntry, error)
	Put(ctx context.Context, entry *entity.ListEntry) error
	// Delete returns entity.ErrNotFound when no entry matches.
	Delete(ctx context.Context, userID, animeID int64) error
}
