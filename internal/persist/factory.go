package persist

import (
	"context"
	"fmt"

	"github.com/fairyhunter13/product-catalog-aggregator/internal/config"
)

// Open builds the backend selected by configuration.
func Open(ctx context.Context, cfg config.StorageConfig) (Backend, error) {
	switch cfg.Backend {
	case "file":
		return NewFile(cfg.DataPath), nil
	case "postgres":
		return OpenPostgres(ctx, cfg.PostgresDSN, cfg.PostgresSchema, cfg.PostgresConns)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
