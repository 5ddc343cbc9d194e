// Package persist implements the catalog's load/save contract. The store
// is write-through: every mutation saves the full catalog before the call
// returns, so a backend only ever needs whole-snapshot semantics.
package persist

import (
	"context"

	"github.com/fairyhunter13/product-catalog-aggregator/internal/model"
)

// Backend is the abstract persistence contract the catalog store depends on.
type Backend interface {
	// Load reads the persisted catalog. A missing or empty backing store
	// yields an empty slice, not an error.
	Load(ctx context.Context) ([]model.Product, error)

	// Save replaces the persisted catalog with the given snapshot.
	Save(ctx context.Context, products []model.Product) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}
