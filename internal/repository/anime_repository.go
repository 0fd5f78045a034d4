// Package repository defines the persistence interfaces for the domain
// entities. Concrete implementations live under internal/infra/adapter.
package repository

import (
	"context"

	"anishelf/internal/domain/entity"
)

// AnimeRepository manages the local catalog cache table.
// Entries are upserted by the worker after a successful cascade fetch so the
// API can serve something meaningful while every upstream source is down.
type AnimeRepository interface {
	// Get returns the cached entry with the given ID, or (nil, nil) when it
	// is not cached.
	Get(ctx context.Context, id int64) (*entity.Anime, error)
	// List returns all cached entries ordered by rating (highest first).
	List(ctx context.Context) ([]*entity.Anime, error)
	// Search matches cached entries by title substring, case-insensitive.
	Search(ctx context.Context, keyword string) ([]*entity.Anime, error)
	// Upsert inserts the entry or replaces the existing row with the same ID.
	Upsert(ctx context.Context, anime *entity.Anime) error
	// Count returns the number of cached entries.
	Count(ctx context.Context) (int64, error)
}
