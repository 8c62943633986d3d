// Package config holds the run configuration for the crawler and converter.
// Everything has a default matching the production setup, so the
// configuration file is optional.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrMissingDataDir      = errors.New("data_dir is required")
	ErrInvalidPageLimit    = errors.New("api.page_limit must be at least 1")
	ErrInvalidTimeout      = errors.New("api.timeout_sec must be non-negative")
	ErrInvalidMaxSeen      = errors.New("crawl.max_seen_articles must be at least 1")
	ErrInvalidStartupDelay = errors.New("crawl.startup_delay_sec must be non-negative")
	ErrInvalidBatchBytes   = errors.New("convert.max_batch_bytes must be at least 1")
)

// Config is the complete run configuration.
type Config struct {
	// DataDir holds raw articles and the crawl state indices.
	DataDir string `yaml:"data_dir"`
	// CorpusDir is the root for generated XML corpus files.
	CorpusDir string `yaml:"corpus_dir"`
	// RunDB is the SQLite file for the run history.
	RunDB string `yaml:"run_db"`

	API     APIConfig     `yaml:"api"`
	Crawl   CrawlConfig   `yaml:"crawl"`
	Convert ConvertConfig `yaml:"convert"`
}

// APIConfig describes the SVT page API.
type APIConfig struct {
	BaseURL   string `yaml:"base_url"`
	SiteURL   string `yaml:"site_url"`
	PageLimit int    `yaml:"page_limit"`
	// TimeoutSec of 0 leaves requests without a deadline.
	TimeoutSec int `yaml:"timeout_sec"`
}

// CrawlConfig contains crawl behavior settings.
type CrawlConfig struct {
	MaxSeenArticles int `yaml:"max_seen_articles"`
	StartupDelaySec int `yaml:"startup_delay_sec"`
}

// ConvertConfig contains XML conversion settings.
type ConvertConfig struct {
	MaxBatchBytes int `yaml:"max_batch_bytes"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		DataDir:   "data",
		CorpusDir: ".",
		RunDB:     "data/crawl_runs.db",
		API: APIConfig{
			BaseURL:    "https://api.svt.se/nss-api/page/",
			SiteURL:    "https://www.svt.se",
			PageLimit:  50,
			TimeoutSec: 0,
		},
		Crawl: CrawlConfig{
			MaxSeenArticles: 50,
			StartupDelaySec: 5,
		},
		Convert: ConvertConfig{
			MaxBatchBytes: 5000000,
		},
	}
}

// Load reads the configuration file at path over the defaults. An empty path
// returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the tool cannot run with.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return ErrMissingDataDir
	}
	if c.API.PageLimit < 1 {
		return ErrInvalidPageLimit
	}
	if c.API.TimeoutSec < 0 {
		return ErrInvalidTimeout
	}
	if c.Crawl.MaxSeenArticles < 1 {
		return ErrInvalidMaxSeen
	}
	if c.Crawl.StartupDelaySec < 0 {
		return ErrInvalidStartupDelay
	}
	if c.Convert.MaxBatchBytes < 1 {
		return ErrInvalidBatchBytes
	}
	return nil
}
