// Package ingest merges freshly observed candidate records into the
// catalog without creating duplicates, and provides the buffered intake
// that serializes reconciliation runs.
package ingest

import (
	"context"
	"time"

	"github.com/fairyhunter13/product-catalog-aggregator/internal/model"
	"github.com/fairyhunter13/product-catalog-aggregator/internal/obs"
	"github.com/fairyhunter13/product-catalog-aggregator/internal/store"
)

// Result reports the outcome counts of one reconciliation run.
type Result struct {
	Added     int `json:"added"`
	Updated   int `json:"updated"`
	Unchanged int `json:"unchanged"`
	Skipped   int `json:"skipped"`
}

func (r *Result) add(other Result) {
	r.Added += other.Added
	r.Updated += other.Updated
	r.Unchanged += other.Unchanged
	r.Skipped += other.Skipped
}

// Reconciler merges candidate batches into the store.
type Reconciler struct {
	st *store.Store
}

// NewReconciler creates a reconciler writing to st.
func NewReconciler(st *store.Store) *Reconciler {
	return &Reconciler{st: st}
}

// Reconcile deduplicates the batch by id (first occurrence wins) and
// decides per record whether to insert, update with a history append,
// or skip. Malformed candidates are skipped and counted, never fatal;
// a persistence failure aborts the run and propagates.
func (r *Reconciler) Reconcile(ctx context.Context, candidates []model.Product) (Result, error) {
	var res Result

	seen := make(map[string]struct{}, len(candidates))
	unique := make([]model.Product, 0, len(candidates))
	for _, cand := range candidates {
		if err := cand.Validate(); err != nil {
			res.Skipped++
			obs.Logger.Warnw("candidate rejected", "product_id", cand.ID, "error", err)
			continue
		}
		if _, dup := seen[cand.ID]; dup {
			continue
		}
		seen[cand.ID] = struct{}{}
		unique = append(unique, cand)
	}

	for _, cand := range unique {
		existing, ok := r.st.Get(cand.ID)
		if !ok {
			if _, err := r.st.Put(ctx, cand); err != nil {
				return res, err
			}
			res.Added++
			continue
		}

		if cand.CurrentPrice != existing.CurrentPrice {
			updated, err := r.st.AppendPricePoint(ctx, cand.ID, cand.CurrentPrice, cand.Currency, sourceLabel(cand), time.Time{})
			if err != nil {
				return res, err
			}
			if _, err := r.st.Put(ctx, refreshObserved(updated, cand)); err != nil {
				return res, err
			}
			res.Updated++
			continue
		}

		if availabilityEqual(existing.Availability, cand.Availability) && ratingsEqual(existing.Ratings, cand.Ratings) {
			res.Unchanged++
			continue
		}
		if _, err := r.st.Put(ctx, refreshObserved(existing, cand)); err != nil {
			return res, err
		}
		res.Updated++
	}
	return res, nil
}

// refreshObserved copies the observable fields from the candidate onto
// the stored record. first_seen, price_history, and accumulated sources
// stay additive-only.
func refreshObserved(existing, cand model.Product) model.Product {
	existing.Availability = cand.Availability
	existing.Ratings = cand.Ratings
	existing.Sources = mergeSources(existing.Sources, cand.Sources)
	return existing
}

// mergeSources folds candidate provenance into the accumulated set,
// keyed by source name. Known sources get their observation refreshed;
// new sources are appended.
func mergeSources(existing, incoming []model.ProductSource) []model.ProductSource {
	out := append([]model.ProductSource(nil), existing...)
	for _, src := range incoming {
		found := false
		for i := range out {
			if out[i].Name == src.Name {
				out[i] = src
				found = true
				break
			}
		}
		if !found {
			out = append(out, src)
		}
	}
	return out
}

func sourceLabel(cand model.Product) string {
	if len(cand.Sources) > 0 && cand.Sources[0].Name != "" {
		return cand.Sources[0].Name
	}
	return "ingest"
}

func availabilityEqual(a, b model.Availability) bool { return a == b }

func ratingsEqual(a, b *model.Ratings) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Average != b.Average || a.Count != b.Count {
		return false
	}
	if (a.Distribution == nil) != (b.Distribution == nil) {
		return false
	}
	return a.Distribution == nil || *a.Distribution == *b.Distribution
}
