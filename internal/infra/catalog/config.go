package catalog

import (
	"fmt"
	"os"
	"time"
)

// descriptionMaxRunes caps normalized description length. Upstream
// synopses can run to several thousand runes; clients only render a
// summary.
const descriptionMaxRunes = 500

// AniListProbePayload is the minimal GraphQL query used for connectivity
// probes. AniList only answers POSTs, so reachability checks send this
// instead of a bare GET.
const AniListProbePayload = `{"query":"query{Page(perPage:1){media(type:ANIME){id}}}"}`

// ClientConfig holds the configuration shared by catalog API clients.
type ClientConfig struct {
	// AniListURL is the AniList GraphQL endpoint.
	// Default: https://graphql.anilist.co
	AniListURL string

	// JikanURL is the Jikan REST API base URL.
	// Default: https://api.jikan.moe/v4
	JikanURL string

	// Timeout is the maximum duration for a single upstream request.
	// Default: 10s
	Timeout time.Duration

	// MaxBodySize is the maximum response body size in bytes.
	// Responses exceeding this limit are rejected to prevent memory exhaustion.
	// Default: 5242880 (5MB)
	MaxBodySize int64

	// UserAgent identifies the client to upstream APIs.
	UserAgent string
}

// DefaultClientConfig returns production-ready defaults for catalog clients.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		AniListURL:  "https://graphql.anilist.co",
		JikanURL:    "https://api.jikan.moe/v4",
		Timeout:     10 * time.Second,
		MaxBodySize: 5 * 1024 * 1024,
		UserAgent:   "AniShelf/1.0",
	}
}

// Validate checks the configuration for values that would break the clients.
func (c *ClientConfig) Validate() error {
	if c.AniListURL == "" {
		return fmt.Errorf("AniList URL must not be empty")
	}
	if c.JikanURL == "" {
		return fmt.Errorf("Jikan URL must not be empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	if c.MaxBodySize < 1024 {
		return fmt.Errorf("max body size must be at least 1KB, got %d", c.MaxBodySize)
	}
	return nil
}

// LoadClientConfigFromEnv loads configuration from environment variables,
// falling back to defaults for anything unset.
//
// Environment variables:
//   - ANILIST_API_URL: AniList GraphQL endpoint
//   - JIKAN_API_URL: Jikan REST base URL
//   - CATALOG_FETCH_TIMEOUT: duration string, e.g., "10s"
func LoadClientConfigFromEnv() (ClientConfig, error) {
	cfg := DefaultClientConfig()

	if val := os.Getenv("ANILIST_API_URL"); val != "" {
		cfg.AniListURL = val
	}
	if val := os.Getenv("JIKAN_API_URL"); val != "" {
		cfg.JikanURL = val
	}
	if val := os.Getenv("CATALOG_FETCH_TIMEOUT"); val != "" {
		parsed, err := time.ParseDuration(val)
		if err != nil {
			return cfg, fmt.Errorf("invalid CATALOG_FETCH_TIMEOUT: %v (expected format: '10s', '1m')", err)
		}
		cfg.Timeout = parsed
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}
