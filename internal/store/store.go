// Package store owns the authoritative in-memory catalog keyed by
// product id, with write-through persistence to a pluggable backend.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/fairyhunter13/product-catalog-aggregator/internal/model"
	"github.com/fairyhunter13/product-catalog-aggregator/internal/persist"
)

// Store maps product id to the authoritative record. Lookups are O(1);
// a parallel id slice preserves insertion order so listings and sort
// tie-breaks stay deterministic.
type Store struct {
	mu      sync.RWMutex
	backend persist.Backend
	m       map[string]model.Product
	order   []string
}

// New creates an empty store writing through to backend.
func New(backend persist.Backend) *Store {
	return &Store{
		backend: backend,
		m:       make(map[string]model.Product),
	}
}

// Load replaces the in-memory state with the persisted catalog.
func (s *Store) Load(ctx context.Context) error {
	products, err := s.backend.Load(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m = make(map[string]model.Product, len(products))
	s.order = s.order[:0]
	for _, p := range products {
		if p.ID == "" {
			continue
		}
		if _, dup := s.m[p.ID]; !dup {
			s.order = append(s.order, p.ID)
		}
		s.m[p.ID] = p
	}
	return nil
}

// Get returns a copy of the product, or ok=false when absent.
func (s *Store) Get(id string) (model.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.m[id]
	if !ok {
		return model.Product{}, false
	}
	return p.Clone(), true
}

// Put inserts or fully replaces a record, refreshing last_updated and
// initializing first_seen when unset. The catalog is persisted before
// returning; on a write error the in-memory state is already updated.
func (s *Store) Put(ctx context.Context, p model.Product) (model.Product, error) {
	if err := p.Validate(); err != nil {
		return model.Product{}, err
	}
	now := time.Now().UTC()
	if p.FirstSeen.IsZero() {
		p.FirstSeen = now
	}
	p.LastUpdated = now
	if p.LastUpdated.Before(p.FirstSeen) {
		p.LastUpdated = p.FirstSeen
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.m[p.ID]; !exists {
		s.order = append(s.order, p.ID)
	}
	s.m[p.ID] = p.Clone()
	if err := s.persistLocked(ctx, "put"); err != nil {
		return p, err
	}
	return p, nil
}

// Delete removes a record. It reports whether anything was removed and
// never fails on an absent id.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.m[id]; !ok {
		return false, nil
	}
	delete(s.m, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	if err := s.persistLocked(ctx, "delete"); err != nil {
		return true, err
	}
	return true, nil
}

// List returns a snapshot of all records in insertion order. The slice
// and its records are copies; later mutations are not reflected.
func (s *Store) List() []model.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Count returns the number of stored products.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}

// Flush persists the current catalog without mutating it.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.persistLocked(ctx, "flush")
}

// Close flushes and releases the backend.
func (s *Store) Close(ctx context.Context) error {
	if err := s.Flush(ctx); err != nil {
		return err
	}
	return s.backend.Close(ctx)
}

func (s *Store) snapshotLocked() []model.Product {
	out := make([]model.Product, 0, len(s.order))
	for _, id := range s.order {
		if p, ok := s.m[id]; ok {
			out = append(out, p.Clone())
		}
	}
	return out
}

func (s *Store) persistLocked(ctx context.Context, op string) error {
	if err := s.backend.Save(ctx, s.snapshotLocked()); err != nil {
		return &PersistError{Op: op, Err: err}
	}
	return nil
}
