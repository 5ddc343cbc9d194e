// Package config provides runtime configuration values for the service.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds configuration knobs for the HTTP server, storage backend,
// ingestion intake, and scraper sources. Values come from an optional
// config.yaml with environment variable overrides; secrets (the Postgres
// DSN) come from the environment only.
type Config struct {
	HTTPAddr        string        `yaml:"http_addr" env:"HTTP_ADDR" env-default:":8080"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT" env-default:"15s"`

	Storage StorageConfig `yaml:"storage"`
	Ingest  IngestConfig  `yaml:"ingest"`
	Scrape  ScrapeConfig  `yaml:"scrape"`
}

// StorageConfig selects and tunes the persistence backend.
type StorageConfig struct {
	// Backend is "file" or "postgres".
	Backend  string `yaml:"backend" env:"STORAGE_BACKEND" env-default:"file"`
	DataPath string `yaml:"data_path" env:"CATALOG_DATA_PATH" env-default:"data/products.json"`

	PostgresDSN    string `yaml:"-" env:"PG_DSN"` // secret, env only
	PostgresSchema string `yaml:"postgres_schema" env:"PG_SCHEMA" env-default:"public"`
	PostgresConns  int    `yaml:"postgres_conns" env:"PG_MAX_CONNS" env-default:"4"`
}

// IngestConfig tunes the reconciliation intake queue.
type IngestConfig struct {
	OutBuffer     int `yaml:"out_buffer" env:"INGEST_OUT_BUFFER" env-default:"16"`
	HighWatermark int `yaml:"high_watermark" env:"INGEST_HIGH_WATERMARK" env-default:"100"`
}

// ScrapeConfig drives the one-shot scraper run.
type ScrapeConfig struct {
	// Adapter is "mock" or "feed".
	Adapter        string        `yaml:"adapter" env:"SCRAPE_ADAPTER" env-default:"mock"`
	FeedURL        string        `yaml:"feed_url" env:"SCRAPE_FEED_URL" env-default:""`
	Terms          []string      `yaml:"terms" env:"SCRAPE_TERMS" env-default:"laptop,wireless headphones,smart watch,kindle,camera"`
	PerTermLimit   int           `yaml:"per_term_limit" env:"SCRAPE_PER_TERM_LIMIT" env-default:"10"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"SCRAPE_REQUEST_TIMEOUT" env-default:"30s"`
}

// Load collects configuration from config.yaml (when present) and the
// environment, then validates cross-field constraints.
func Load() (Config, error) {
	var cfg Config
	const path = "config.yaml"
	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("read %s: %w", path, err)
		}
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return Config{}, fmt.Errorf("read environment: %w", err)
		}
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Backend {
	case "file":
		if c.Storage.DataPath == "" {
			return fmt.Errorf("storage backend %q requires a data path", c.Storage.Backend)
		}
	case "postgres":
		if c.Storage.PostgresDSN == "" {
			return fmt.Errorf("storage backend %q requires PG_DSN", c.Storage.Backend)
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	switch c.Scrape.Adapter {
	case "mock":
	case "feed":
		if c.Scrape.FeedURL == "" {
			return fmt.Errorf("scrape adapter %q requires a feed URL", c.Scrape.Adapter)
		}
	default:
		return fmt.Errorf("unknown scrape adapter %q", c.Scrape.Adapter)
	}
	return nil
}
