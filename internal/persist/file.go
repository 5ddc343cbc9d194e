package persist

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fairyhunter13/product-catalog-aggregator/internal/model"
)

// File persists the catalog as a JSON array document on disk.
type File struct {
	path string
}

// NewFile creates a file backend writing to path.
func NewFile(path string) *File {
	return &File{path: path}
}

// Load reads the catalog document. A missing or empty file starts an
// empty catalog.
func (f *File) Load(ctx context.Context) ([]model.Product, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	var products []model.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("decode catalog file: %w", err)
	}
	return products, nil
}

// Save writes the snapshot atomically via a temp file and rename so a
// crash mid-write never corrupts the previous catalog.
func (f *File) Save(ctx context.Context, products []model.Product) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	if products == nil {
		products = []model.Product{}
	}
	data, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write catalog file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace catalog file: %w", err)
	}
	return nil
}

// Close is a no-op for the file backend.
func (f *File) Close(ctx context.Context) error { return nil }
