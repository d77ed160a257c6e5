package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-git/gcfg/v2"
)

// Config holds user-level configuration loaded from
// ~/.config/linkdex/config (git-config syntax).
type Config struct {
	Catalog struct {
		Manifest string
		Index    string
	}
	Duplicates struct {
		// gcfg has no float type, so the threshold is kept as a string
		// and parsed on access.
		Threshold string
	}
	Linkcheck struct {
		TimeoutSeconds   int `gcfg:"timeout-seconds"`
		CacheMaxAgeHours int `gcfg:"cache-max-age-hours"`
		Cache            string
	}
}

func defaultConfig() Config {
	var cfg Config
	cfg.Catalog.Manifest = "resources.yml"
	cfg.Catalog.Index = "url_index.json"
	cfg.Duplicates.Threshold = "0.8"
	cfg.Linkcheck.TimeoutSeconds = 10
	cfg.Linkcheck.CacheMaxAgeHours = 24
	return cfg
}

// loadUserConfig reads ~/.config/linkdex/config. A missing file yields the
// defaults without error.
func loadUserConfig() (Config, error) {
	cfg := defaultConfig()

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, fmt.Errorf("cannot determine home directory: %w", err)
	}
	path := filepath.Join(home, ".config", "linkdex", "config")

	if err := gcfg.ReadFileInto(&cfg, path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read %s: %w", path, err)
	}
	return cfg, nil
}

// applyOverrides lets command-line flags win over the config file.
func applyOverrides(cfg *Config, manifest, index string) {
	if manifest != "" {
		cfg.Catalog.Manifest = manifest
	}
	if index != "" {
		cfg.Catalog.Index = index
	}
}

// SimilarityThreshold parses the configured duplicate threshold, falling
// back to 0.8 when it is absent or malformed.
func (c *Config) SimilarityThreshold() float64 {
	v, err := strconv.ParseFloat(c.Duplicates.Threshold, 64)
	if err != nil || v < 0 || v > 1 {
		return 0.8
	}
	return v
}

// LinkTimeout is the per-request timeout for link checks.
func (c *Config) LinkTimeout() time.Duration {
	if c.Linkcheck.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.Linkcheck.TimeoutSeconds) * time.Second
}

// CacheMaxAge bounds how long a cached link-check pass is trusted.
func (c *Config) CacheMaxAge() time.Duration {
	if c.Linkcheck.CacheMaxAgeHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.Linkcheck.CacheMaxAgeHours) * time.Hour
}

// CachePath resolves the link-check cache location. Empty means caching is
// disabled.
func (c *Config) CachePath() string {
	return c.Linkcheck.Cache
}
