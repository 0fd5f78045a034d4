// Package news implements the anime news feed use cases.
package news

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"anishelf/internal/utils/text"
)

// ErrNoFeeds indicates the service was configured without feed URLs.
var ErrNoFeeds = errors.New("no news feeds configured")

const summaryMaxRunes = 280

// Item is a single news entry, already sanitized for display.
type Item struct {
	Title       string
	URL         string
	Summary     string
	Source      string
	PublishedAt time.Time
}

// FeedFetcher retrieves and parses a single RSS/Atom feed.
type FeedFetcher interface {
	Fetch(ctx context.Context, feedURL string) ([]Item, error)
}

// Feed is a configured news source.
type Feed struct {
	Name string
	URL  string
}

// Service aggregates configured news feeds into one chronological stream.
type Service struct {
	Fetcher FeedFetcher
	Feeds   []Feed
}

// NewService creates a news Service over the given feeds.
func NewService(fetcher FeedFetcher, feeds []Feed) Service {
	return Service{Fetcher: fetcher, Feeds: feeds}
}

// Latest returns up to limit items across all feeds, newest first. A feed
// that fails to fetch is skipped; the call only errors when every feed
// failed.
func (s *Service) Latest(ctx context.Context, limit int) ([]Item, error) {
	if len(s.Feeds) == 0 {
		return nil, ErrNoFeeds
	}
	if limit <= 0 {
		limit = 20
	}

	var merged []Item
	var failures []error
	for _, feed := range s.Feeds {
		items, err := s.Fetcher.Fetch(ctx, feed.URL)
		if err != nil {
			failures = append(failures, fmt.Errorf("%s: %w", feed.Name, err))
			slog.Warn("news feed fetch failed, skipping",
				slog.String("feed", feed.Name),
				slog.Any("error", err))
			continue
		}
		for _, it := range items {
			it.Source = feed.Name
			it.Summary = text.Truncate(text.Sanitize(it.Summary), summaryMaxRunes)
			merged = append(merged, it)
		}
	}

	if len(merged) == 0 && len(failures) > 0 {
		return nil, fmt.Errorf("all news feeds failed: %w", errors.Join(failures...))
	}

	sort.Slice(merged, func(i, j int) bool {
		return merged[i].PublishedAt.After(merged[j].PublishedAt)
	})
	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged, nil
}
