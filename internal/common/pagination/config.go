// Package pagination implements offset pagination for the catalog
// listings: query parameter parsing, page arithmetic, response envelopes,
// and the Prometheus counters that track paging behaviour.
package pagination

import "anishelf/pkg/config"

// Config bounds the page and limit query parameters.
type Config struct {
	DefaultPage  int
	DefaultLimit int
	MaxLimit     int
}

// DefaultConfig returns page 1, 20 entries per page, 100 max.
func DefaultConfig() Config {
	return Config{
		DefaultPage:  1,
		DefaultLimit: 20,
		MaxLimit:     100,
	}
}

// LoadFromEnv reads PAGINATION_DEFAULT_PAGE, PAGINATION_DEFAULT_LIMIT and
// PAGINATION_MAX_LIMIT, falling back to the defaults for anything unset.
func LoadFromEnv() Config {
	defaults := DefaultConfig()
	return Config{
		DefaultPage:  config.GetEnvInt("PAGINATION_DEFAULT_PAGE", defaults.DefaultPage),
		DefaultLimit: config.GetEnvInt("PAGINATION_DEFAULT_LIMIT", defaults.DefaultLimit),
		MaxLimit:     config.GetEnvInt("PAGINATION_MAX_LIMIT", defaults.MaxLimit),
	}
}
