package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"anishelf/internal/domain/entity"
	"anishelf/internal/observability/metrics"
	"anishelf/internal/repository"
)

const (
	defaultPerPage = 20
	maxPerPage     = 50
)

// Source is one upstream catalog API. Implementations normalize their
// responses to entity.Anime so the cascade can treat sources uniformly.
type Source interface {
	Name() string
	Trending(ctx context.Context, page, perPage int) ([]*entity.Anime, error)
	Search(ctx context.Context, query string, page, perPage int) ([]*entity.Anime, error)
	Details(ctx context.Context, id int64) (*entity.Anime, error)
}

// Service provides catalog retrieval use cases. Live sources are tried in
// preference order and the sample provider terminates every cascade, so
// the catalog operations never fail outright on upstream outages.
// Successful fetches are mirrored into the local anime repository, which
// doubles as the details cache.
type Service struct {
	Sources []Source
	Sample  Source
	Repo    repository.AnimeRepository
}

// NewService creates a catalog Service. Sources are tried in the order
// given; sample must never fail.
func NewService(sources []Source, sample Source, repo repository.AnimeRepository) Service {
	return Service{
		Sources: sources,
		Sample:  sample,
		Repo:    repo,
	}
}

// Trending returns the currently trending anime. Upstream failures degrade
// to the next source and finally to the sample set; the only returned
// errors are context cancellations.
func (s *Service) Trending(ctx context.Context, page, perPage int) ([]*entity.Anime, error) {
	page, perPage = normalizePage(page, perPage)

	attempts := make([]Attempt, 0, len(s.Sources)+1)
	for _, src := range s.Sources {
		attempts = append(attempts, Attempt{
			Source: src.Name(),
			Fn: func(ctx context.Context) ([]*entity.Anime, error) {
				return src.Trending(ctx, page, perPage)
			},
		})
	}
	attempts = append(attempts, Attempt{
		Source: s.Sample.Name(),
		Fn: func(ctx context.Context) ([]*entity.Anime, error) {
			return s.Sample.Trending(ctx, page, perPage)
		},
	})

	entries, winner, err := TryInOrder(ctx, attempts)
	if err != nil {
		return nil, err
	}

	metrics.RecordCascadeResolution(winner)
	if winner != s.Sample.Name() {
		s.cacheEntries(ctx, entries)
	}
	return entries, nil
}

// Search finds anime matching the given query across the cascade. A blank
// query is rejected before any source is contacted.
func (s *Service) Search(ctx context.Context, query string, page, perPage int) ([]*entity.Anime, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, &entity.ValidationError{Field: "query", Message: "is required"}
	}
	page, perPage = normalizePage(page, perPage)

	attempts := make([]Attempt, 0, len(s.Sources)+1)
	for _, src := range s.Sources {
		attempts = append(attempts, Attempt{
			Source: src.Name(),
			Fn: func(ctx context.Context) ([]*entity.Anime, error) {
				return src.Search(ctx, query, page, perPage)
			},
		})
	}
	attempts = append(attempts, Attempt{
		Source: s.Sample.Name(),
		Fn: func(ctx context.Context) ([]*entity.Anime, error) {
			return s.Sample.Search(ctx, query, page, perPage)
		},
	})

	entries, winner, err := TryInOrder(ctx, attempts)
	if err != nil {
		return nil, err
	}

	metrics.RecordCascadeResolution(winner)
	if winner != s.Sample.Name() {
		s.cacheEntries(ctx, entries)
	}
	return entries, nil
}

// Details returns a single anime by ID. The local cache answers first;
// a miss walks the source cascade and finally the sample set.
// Returns ErrInvalidAnimeID for non-positive IDs and ErrAnimeNotFound
// when nothing anywhere knows the entry.
func (s *Service) Details(ctx context.Context, id int64) (*entity.Anime, error) {
	if id <= 0 {
		return nil, ErrInvalidAnimeID
	}

	if cached, err := s.Repo.Get(ctx, id); err == nil && cached != nil {
		return cached, nil
	} else if err != nil {
		slog.Warn("anime cache read failed",
			slog.Int64("anime_id", id),
			slog.Any("error", err))
	}

	for _, src := range s.Sources {
		a, err := src.Details(ctx, id)
		if err == nil {
			s.cacheEntries(ctx, []*entity.Anime{a})
			metrics.RecordCascadeResolution(src.Name())
			return a, nil
		}
		slog.Warn("catalog source failed, trying next",
			slog.String("source", src.Name()),
			slog.Int64("anime_id", id),
			slog.Any("error", err))
	}

	a, err := s.Sample.Details(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: id %d", ErrAnimeNotFound, id)
	}
	metrics.RecordCascadeResolution(s.Sample.Name())
	return a, nil
}

// Cached lists the locally cached catalog without touching any source.
func (s *Service) Cached(ctx context.Context) ([]*entity.Anime, error) {
	entries, err := s.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list cached anime: %w", err)
	}
	return entries, nil
}

// cacheEntries mirrors fetched entries into the local repository. Cache
// write failures are logged and swallowed; the fetched data is still
// served to the caller.
func (s *Service) cacheEntries(ctx context.Context, entries []*entity.Anime) {
	for _, a := range entries {
		if err := a.Validate(); err != nil {
			slog.Warn("skipping invalid catalog entry",
				slog.Int64("anime_id", a.ID),
				slog.Any("error", err))
			continue
		}
		if err := s.Repo.Upsert(ctx, a); err != nil {
			slog.Warn("anime cache write failed",
				slog.Int64("anime_id", a.ID),
				slog.Any("error", err))
			return
		}
	}
}

func normalizePage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return page, perPage
}
