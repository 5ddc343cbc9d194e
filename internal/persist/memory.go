package persist

import (
	"context"
	"sync"

	"github.com/fairyhunter13/product-catalog-aggregator/internal/model"
)

// Memory keeps snapshots in process memory. Useful for tests and for
// scratch runs that do not need durability.
type Memory struct {
	mu       sync.Mutex
	snapshot []model.Product
	saves    int
}

// NewMemory creates an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Load(ctx context.Context) ([]model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return model.CloneProducts(m.snapshot), nil
}

func (m *Memory) Save(ctx context.Context, products []model.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshot = model.CloneProducts(products)
	m.saves++
	return nil
}

func (m *Memory) Close(ctx context.Context) error { return nil }

// Saves reports how many snapshots were written, so tests can assert
// write-through behavior.
func (m *Memory) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
