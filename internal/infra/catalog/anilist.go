package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"anishelf/internal/domain/entity"
	"anishelf/internal/observability/metrics"
	"anishelf/internal/resilience/circuitbreaker"
	"anishelf/internal/resilience/retry"
	"anishelf/internal/utils/text"
)

// AniList GraphQL queries. The media selection set is shared so every
// operation maps through the same normalization path.
const anilistMediaFields = `
id
title { romaji english }
description
coverImage { large }
averageScore
genres
seasonYear
status
episodes
duration
format
studios(isMain: true) { nodes { name } }`

const anilistTrendingQuery = `query ($page: Int, $perPage: Int) {
  Page(page: $page, perPage: $perPage) {
    media(type: ANIME, sort: TRENDING_DESC) {` + anilistMediaFields + `
    }
  }
}`

const anilistSearchQuery = `query ($search: String, $page: Int, $perPage: Int) {
  Page(page: $page, perPage: $perPage) {
    media(type: ANIME, search: $search) {` + anilistMediaFields + `
    }
  }
}`

const anilistDetailsQuery = `query ($id: Int) {
  Media(id: $id, type: ANIME) {` + anilistMediaFields + `
  }
}`

// anilistMedia mirrors the fields we select from the AniList Media type.
type anilistMedia struct {
	ID    int64 `json:"id"`
	Title struct {
		Romaji  string `json:"romaji"`
		English string `json:"english"`
	} `json:"title"`
	Description string `json:"description"`
	CoverImage  struct {
		Large string `json:"large"`
	} `json:"coverImage"`
	AverageScore float64  `json:"averageScore"`
	Genres       []string `json:"genres"`
	SeasonYear   int      `json:"seasonYear"`
	Status       string   `json:"status"`
	Episodes     int      `json:"episodes"`
	Duration     int      `json:"duration"`
	Format       string   `json:"format"`
	Studios      struct {
		Nodes []struct {
			Name string `json:"name"`
		} `json:"nodes"`
	} `json:"studios"`
}

type anilistResponse struct {
	Data struct {
		Page struct {
			Media []anilistMedia `json:"media"`
		} `json:"Page"`
		Media *anilistMedia `json:"Media"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// AniListClient fetches anime data from the AniList GraphQL API.
// It is the preferred source in the fetch cascade.
//
// Thread safety: AniListClient is safe for concurrent use.
type AniListClient struct {
	client  *http.Client
	breaker *circuitbreaker.CircuitBreaker
	config  ClientConfig
}

// NewAniListClient creates an AniList client with the given configuration.
func NewAniListClient(config ClientConfig) *AniListClient {
	return &AniListClient{
		client: &http.Client{
			Timeout: config.Timeout,
		},
		breaker: circuitbreaker.New(circuitbreaker.CatalogSourceConfig("anilist")),
		config:  config,
	}
}

// SetHTTPClient replaces the underlying HTTP client so callers can share
// a pooled transport across sources. A nil client is ignored.
func (c *AniListClient) SetHTTPClient(client *http.Client) {
	if client != nil {
		c.client = client
	}
}

// Name identifies this source in logs, metrics, and cascade resolution.
func (c *AniListClient) Name() string { return "anilist" }

// Trending fetches the currently trending anime, ordered by AniList's
// trending score.
func (c *AniListClient) Trending(ctx context.Context, page, perPage int) ([]*entity.Anime, error) {
	vars := map[string]any{"page": page, "perPage": perPage}
	resp, err := c.query(ctx, anilistTrendingQuery, vars)
	if err != nil {
		return nil, err
	}
	return mapAnilistPage(resp.Data.Page.Media), nil
}

// Search finds anime whose titles match the given query.
func (c *AniListClient) Search(ctx context.Context, query string, page, perPage int) ([]*entity.Anime, error) {
	vars := map[string]any{"search": query, "page": page, "perPage": perPage}
	resp, err := c.query(ctx, anilistSearchQuery, vars)
	if err != nil {
		return nil, err
	}
	return mapAnilistPage(resp.Data.Page.Media), nil
}

// Details fetches a single anime by its AniList ID.
func (c *AniListClient) Details(ctx context.Context, id int64) (*entity.Anime, error) {
	vars := map[string]any{"id": id}
	resp, err := c.query(ctx, anilistDetailsQuery, vars)
	if err != nil {
		return nil, err
	}
	if resp.Data.Media == nil {
		return nil, &FetchError{Source: c.Name(), Kind: KindNotFound, Err: fmt.Errorf("media %d not in response", id)}
	}
	return mapAnilistMedia(*resp.Data.Media), nil
}

// query executes a GraphQL request through the circuit breaker with a
// small bounded retry. A source that stays down hands the cascade to the
// next source quickly instead of stalling it.
func (c *AniListClient) query(ctx context.Context, query string, vars map[string]any) (*anilistResponse, error) {
	start := time.Now()

	var resp *anilistResponse
	err := retry.WithBackoff(ctx, retry.CatalogFetchConfig(), func() error {
		result, err := c.breaker.Execute(func() (interface{}, error) {
			return c.doQuery(ctx, query, vars)
		})
		if err != nil {
			return err
		}
		resp = result.(*anilistResponse)
		return nil
	})

	metrics.RecordCatalogFetch(c.Name(), time.Since(start), err == nil)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *AniListClient) doQuery(ctx context.Context, query string, vars map[string]any) (*anilistResponse, error) {
	body, err := json.Marshal(map[string]any{
		"query":     query,
		"variables": vars,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal GraphQL request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.AniListURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.config.UserAgent)

	httpResp, err := c.client.Do(req)
	if err != nil {
		return nil, connectionError(c.Name(), err)
	}
	defer func() {
		_ = httpResp.Body.Close()
	}()

	if httpResp.StatusCode != http.StatusOK {
		// Retryable statuses surface as retry.HTTPError so WithBackoff
		// keeps trying; everything else fails the attempt outright.
		if httpResp.StatusCode >= 500 || httpResp.StatusCode == http.StatusTooManyRequests {
			return nil, &retry.HTTPError{StatusCode: httpResp.StatusCode, Message: httpResp.Status}
		}
		return nil, statusError(c.Name(), httpResp.StatusCode, fmt.Errorf("%s", httpResp.Status))
	}

	raw, err := io.ReadAll(io.LimitReader(httpResp.Body, c.config.MaxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	var parsed anilistResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode AniList response: %w", err)
	}
	if len(parsed.Errors) > 0 {
		return nil, &FetchError{
			Source: c.Name(),
			Kind:   KindUnknown,
			Err:    fmt.Errorf("GraphQL error: %s", parsed.Errors[0].Message),
		}
	}

	return &parsed, nil
}

func mapAnilistPage(media []anilistMedia) []*entity.Anime {
	out := make([]*entity.Anime, 0, len(media))
	for _, m := range media {
		out = append(out, mapAnilistMedia(m))
	}
	return out
}

// mapAnilistMedia normalizes one AniList media object. AverageScore is
// 0-100 on AniList and 0-10 in our model. Descriptions arrive as HTML
// fragments and are sanitized to plain text, capped at descriptionMaxRunes.
func mapAnilistMedia(m anilistMedia) *entity.Anime {
	title := m.Title.Romaji
	if title == "" {
		title = m.Title.English
	}

	studio := ""
	if len(m.Studios.Nodes) > 0 {
		studio = m.Studios.Nodes[0].Name
	}

	a := &entity.Anime{
		ID:           m.ID,
		Title:        title,
		TitleEnglish: m.Title.English,
		Description:  text.Truncate(text.Sanitize(m.Description), descriptionMaxRunes),
		ImageURL:     m.CoverImage.Large,
		Rating:       entity.NormalizeRating(m.AverageScore / 10),
		Genres:       m.Genres,
		Year:         m.SeasonYear,
		Status:       entity.ParseStatus(m.Status),
		Episodes:     m.Episodes,
		Duration:     formatMinutes(m.Duration),
		Studio:       studio,
		SourceMedium: m.Format,
	}
	if a.ID == 0 {
		a.ID = entity.SynthesizeID(time.Now())
	}
	return a
}

// formatMinutes renders an AniList minute count in the same human-readable
// form other sources use for episode duration.
func formatMinutes(n int) string {
	if n <= 0 {
		return ""
	}
	return fmt.Sprintf("%d min", n)
}
