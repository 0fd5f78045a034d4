package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FeedConfig describes a single news feed.
type FeedConfig struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// SourcesConfig represents the news feed configuration.
type SourcesConfig struct {
	Feeds []FeedConfig `yaml:"feeds"`
}

// DefaultSourcesConfig returns the built-in news feed list used when no
// configuration file is provided.
func DefaultSourcesConfig() *SourcesConfig {
	return &SourcesConfig{
		Feeds: []FeedConfig{
			{Name: "ann", URL: "https://www.animenewsnetwork.com/all/rss.xml"},
			{Name: "crunchyroll", URL: "https://www.crunchyroll.com/newsrss"},
		},
	}
}

// LoadSourcesConfig loads the news feed configuration from a YAML file.
// An empty path returns the built-in defaults.
func LoadSourcesConfig(path string) (*SourcesConfig, error) {
	if path == "" {
		return DefaultSourcesConfig(), nil
	}

	// #nosec G304 -- path is provided by trusted source (CLI arg or config), not user input
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config SourcesConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validateSourcesConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// validateSourcesConfig validates the loaded configuration.
func validateSourcesConfig(config *SourcesConfig) error {
	seen := make(map[string]bool, len(config.Feeds))
	for i, feed := range config.Feeds {
		if feed.Name == "" {
			return fmt.Errorf("feed %d: name is required", i)
		}
		if feed.URL == "" {
			return fmt.Errorf("feed %q: url is required", feed.Name)
		}
		if seen[feed.Name] {
			return fmt.Errorf("feed %q: duplicate name", feed.Name)
		}
		seen[feed.Name] = true
	}
	return nil
}
