package store

import (
	"context"
	"time"

	"github.com/fairyhunter13/product-catalog-aggregator/internal/model"
)

// AppendPricePoint records a price observation for a product. A history
// point is appended only when the price differs from the current one,
// so repeated ingestion of an unchanged price never grows the history.
// current_price and last_updated are refreshed either way, and the
// catalog is persisted before returning.
//
// A zero observedAt means "now". Returns ErrNotFound for an unknown id.
func (s *Store) AppendPricePoint(ctx context.Context, id string, price float64, currency model.Currency, source string, observedAt time.Time) (model.Product, error) {
	if observedAt.IsZero() {
		observedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.m[id]
	if !ok {
		return model.Product{}, ErrNotFound
	}
	if currency == "" {
		currency = p.Currency
	}
	if price != p.CurrentPrice {
		p.PriceHistory = append(p.PriceHistory, model.PricePoint{
			Date:     observedAt,
			Price:    price,
			Currency: currency,
			Source:   source,
		})
	}
	p.CurrentPrice = price
	p.LastUpdated = time.Now().UTC()
	s.m[id] = p
	if err := s.persistLocked(ctx, "append_price_point"); err != nil {
		return p.Clone(), err
	}
	return p.Clone(), nil
}

// PriceHistory returns the points observed within the last sinceDays
// days, preserving chronological order. An unknown id yields an empty
// sequence, matching the read-only query semantics elsewhere.
func (s *Store) PriceHistory(id string, sinceDays int) []model.PricePoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.m[id]
	if !ok {
		return nil
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -sinceDays)
	out := make([]model.PricePoint, 0, len(p.PriceHistory))
	for _, pp := range p.PriceHistory {
		if !pp.Date.Before(cutoff) {
			out = append(out, pp)
		}
	}
	return out
}
