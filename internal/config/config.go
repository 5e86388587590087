// Package config reads server settings from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// Config holds settings for `kindred serve`. Flags may override any field after Load.
type Config struct {
	Port            int           `koanf:"port"`
	Catalog         string        `koanf:"catalog"`        // catalog source; see catalog.Load
	CatalogFormat   string        `koanf:"catalog_format"` // auto, csv, json, yaml or postgres
	CatalogTable    string        `koanf:"catalog_table"`  // table read when Catalog is a postgres DSN
	RedisURL        string        `koanf:"redis_url"`      // empty disables the result cache
	CacheTTL        time.Duration `koanf:"cache_ttl"`
	MaxResults      int           `koanf:"max_results"`     // upper bound for k
	DefaultResults  int           `koanf:"default_results"` // k when the request has none
	Stem            bool          `koanf:"stem"`
	Tokenizer       string        `koanf:"tokenizer"`
	ExplainTerms    int           `koanf:"explain_terms"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// envKeys maps the environment variables Load reads to config paths.
var envKeys = map[string]string{
	"PORT":             "port",
	"CATALOG":          "catalog",
	"CATALOG_FORMAT":   "catalog_format",
	"CATALOG_TABLE":    "catalog_table",
	"REDIS_URL":        "redis_url",
	"CACHE_TTL":        "cache_ttl",
	"MAX_RESULTS":      "max_results",
	"DEFAULT_RESULTS":  "default_results",
	"STEM":             "stem",
	"TOKENIZER":        "tokenizer",
	"EXPLAIN_TERMS":    "explain_terms",
	"SHUTDOWN_TIMEOUT": "shutdown_timeout",
}

func defaultConfig() *Config {
	return &Config{
		Port:            8080,
		CatalogFormat:   "auto",
		CatalogTable:    "items",
		CacheTTL:        10 * time.Minute,
		MaxResults:      50,
		DefaultResults:  5,
		Tokenizer:       "regexp",
		ExplainTerms:    5,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Load configuration from defaults, then env. Unparsable values are an error.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}
	if err := k.Load(env.ProviderWithValue("", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envTransform keeps known, non-empty variables. An empty key tells the provider to skip.
func envTransform(key, value string) (string, interface{}) {
	path, ok := envKeys[key]
	if !ok {
		return "", nil
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	return path, value
}

// Validate checks ranges. Catalog is not checked since a flag may still supply it.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("PORT %d out of range", c.Port)
	}
	if c.MaxResults < 1 {
		return fmt.Errorf("MAX_RESULTS must be at least 1, got %d", c.MaxResults)
	}
	if c.DefaultResults < 1 || c.DefaultResults > c.MaxResults {
		return fmt.Errorf("DEFAULT_RESULTS must be between 1 and MAX_RESULTS (%d), got %d", c.MaxResults, c.DefaultResults)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive, got %s", c.CacheTTL)
	}
	if c.ExplainTerms < 1 {
		return fmt.Errorf("EXPLAIN_TERMS must be at least 1, got %d", c.ExplainTerms)
	}
	return nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
