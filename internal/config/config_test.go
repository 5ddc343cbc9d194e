package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 15*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "file", cfg.Storage.Backend)
	assert.Equal(t, "data/products.json", cfg.Storage.DataPath)
	assert.Equal(t, 16, cfg.Ingest.OutBuffer)
	assert.Equal(t, 100, cfg.Ingest.HighWatermark)
	assert.Equal(t, "mock", cfg.Scrape.Adapter)
	assert.Equal(t, 10, cfg.Scrape.PerTermLimit)
	assert.Len(t, cfg.Scrape.Terms, 5)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("CATALOG_DATA_PATH", "/tmp/catalog.json")
	t.Setenv("INGEST_OUT_BUFFER", "32")
	t.Setenv("SCRAPE_TERMS", "phone,tablet")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.HTTPAddr)
	assert.Equal(t, "/tmp/catalog.json", cfg.Storage.DataPath)
	assert.Equal(t, 32, cfg.Ingest.OutBuffer)
	assert.Equal(t, []string{"phone", "tablet"}, cfg.Scrape.Terms)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "etcd")
	_, err := Load()
	assert.ErrorContains(t, err, "unknown storage backend")
}

func TestLoadPostgresRequiresDSN(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "postgres")
	_, err := Load()
	assert.ErrorContains(t, err, "PG_DSN")

	t.Setenv("PG_DSN", "postgres://localhost:5432/catalog")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Storage.Backend)
	assert.Equal(t, "public", cfg.Storage.PostgresSchema)
}

func TestLoadFeedAdapterRequiresURL(t *testing.T) {
	t.Setenv("SCRAPE_ADAPTER", "feed")
	_, err := Load()
	assert.ErrorContains(t, err, "feed URL")

	t.Setenv("SCRAPE_FEED_URL", "https://feed.example")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "feed", cfg.Scrape.Adapter)
}
