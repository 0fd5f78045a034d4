package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"anishelf/internal/domain/entity"
	"anishelf/internal/observability/metrics"
	"anishelf/internal/resilience/circuitbreaker"
	"anishelf/internal/resilience/retry"
	"anishelf/internal/utils/text"

	"golang.org/x/time/rate"
)

// jikanRequestsPerSecond matches the public Jikan API rate limit.
const jikanRequestsPerSecond = 3

// jikanAnime mirrors the fields we read from the Jikan v4 anime object.
type jikanAnime struct {
	MalID        int64  `json:"mal_id"`
	Title        string `json:"title"`
	TitleEnglish string `json:"title_english"`
	Synopsis     string `json:"synopsis"`
	Images       struct {
		JPG struct {
			LargeImageURL string `json:"large_image_url"`
		} `json:"jpg"`
	} `json:"images"`
	Score  float64 `json:"score"`
	Genres []struct {
		Name string `json:"name"`
	} `json:"genres"`
	Year     int    `json:"year"`
	Status   string `json:"status"`
	Episodes int    `json:"episodes"`
	Duration string `json:"duration"`
	Type     string `json:"type"`
	Studios  []struct {
		Name string `json:"name"`
	} `json:"studios"`
}

type jikanListResponse struct {
	Data []jikanAnime `json:"data"`
}

type jikanItemResponse struct {
	Data jikanAnime `json:"data"`
}

// JikanClient fetches anime data from the Jikan REST API (MyAnimeList).
// It is the secondary source in the fetch cascade and throttles itself
// to Jikan's published rate limit.
//
// Thread safety: JikanClient is safe for concurrent use.
type JikanClient struct {
	client  *http.Client
	breaker *circuitbreaker.CircuitBreaker
	limiter *rate.Limiter
	config  ClientConfig
}

// NewJikanClient creates a Jikan client with the given configuration.
func NewJikanClient(config ClientConfig) *JikanClient {
	return &JikanClient{
		client: &http.Client{
			Timeout: config.Timeout,
		},
		breaker: circuitbreaker.New(circuitbreaker.CatalogSourceConfig("jikan")),
		limiter: rate.NewLimiter(rate.Limit(jikanRequestsPerSecond), 1),
		config:  config,
	}
}

// SetHTTPClient replaces the underlying HTTP client so callers can share
// a pooled transport across sources. A nil client is ignored.
func (c *JikanClient) SetHTTPClient(client *http.Client) {
	if client != nil {
		c.client = client
	}
}

// Name identifies this source in logs, metrics, and cascade resolution.
func (c *JikanClient) Name() string { return "jikan" }

// Trending fetches the top anime ranked by popularity.
func (c *JikanClient) Trending(ctx context.Context, page, perPage int) ([]*entity.Anime, error) {
	endpoint := fmt.Sprintf("%s/top/anime?page=%d&limit=%d", c.config.JikanURL, page, perPage)

	var resp jikanListResponse
	if err := c.get(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	return mapJikanList(resp.Data), nil
}

// Search finds anime whose titles match the given query.
func (c *JikanClient) Search(ctx context.Context, query string, page, perPage int) ([]*entity.Anime, error) {
	endpoint := fmt.Sprintf("%s/anime?q=%s&page=%d&limit=%d",
		c.config.JikanURL, url.QueryEscape(query), page, perPage)

	var resp jikanListResponse
	if err := c.get(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	return mapJikanList(resp.Data), nil
}

// Details fetches a single anime by its MyAnimeList ID.
func (c *JikanClient) Details(ctx context.Context, id int64) (*entity.Anime, error) {
	endpoint := fmt.Sprintf("%s/anime/%d", c.config.JikanURL, id)

	var resp jikanItemResponse
	if err := c.get(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	return mapJikanAnime(resp.Data), nil
}

// get executes a GET request with rate limiting, circuit breaking, and a
// small bounded retry, decoding the response into out.
func (c *JikanClient) get(ctx context.Context, endpoint string, out any) error {
	start := time.Now()

	err := retry.WithBackoff(ctx, retry.CatalogFetchConfig(), func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
		_, err := c.breaker.Execute(func() (interface{}, error) {
			return nil, c.doGet(ctx, endpoint, out)
		})
		return err
	})

	metrics.RecordCatalogFetch(c.Name(), time.Since(start), err == nil)
	return err
}

func (c *JikanClient) doGet(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.config.UserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return connectionError(c.Name(), err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return &retry.HTTPError{StatusCode: resp.StatusCode, Message: resp.Status}
		}
		return statusError(c.Name(), resp.StatusCode, fmt.Errorf("%s", resp.Status))
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, c.config.MaxBodySize))
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode Jikan response: %w", err)
	}
	return nil
}

func mapJikanList(items []jikanAnime) []*entity.Anime {
	out := make([]*entity.Anime, 0, len(items))
	for _, item := range items {
		out = append(out, mapJikanAnime(item))
	}
	return out
}

// mapJikanAnime normalizes one Jikan anime object. Jikan scores are
// already on a 0-10 scale.
func mapJikanAnime(j jikanAnime) *entity.Anime {
	genres := make([]string, 0, len(j.Genres))
	for _, g := range j.Genres {
		genres = append(genres, g.Name)
	}

	studio := ""
	if len(j.Studios) > 0 {
		studio = j.Studios[0].Name
	}

	a := &entity.Anime{
		ID:           j.MalID,
		Title:        j.Title,
		TitleEnglish: j.TitleEnglish,
		Description:  text.Truncate(text.Sanitize(j.Synopsis), descriptionMaxRunes),
		ImageURL:     j.Images.JPG.LargeImageURL,
		Rating:       entity.NormalizeRating(j.Score),
		Genres:       genres,
		Year:         j.Year,
		Status:       entity.ParseStatus(j.Status),
		Episodes:     j.Episodes,
		Duration:     j.Duration,
		Studio:       studio,
		SourceMedium: j.Type,
	}
	if a.ID == 0 {
		a.ID = entity.SynthesizeID(time.Now())
	}
	return a
}
