package scrape

import (
	"context"

	"github.com/fairyhunter13/product-catalog-aggregator/internal/model"
	"github.com/fairyhunter13/product-catalog-aggregator/internal/obs"
)

// Runner fans search terms across the configured adapters and collects
// the combined candidate batch. A failing adapter or term is logged and
// skipped; partial results are still returned.
type Runner struct {
	adapters     []SourceAdapter
	terms        []string
	perTermLimit int
}

// NewRunner creates a runner over the given adapters and search terms.
func NewRunner(adapters []SourceAdapter, terms []string, perTermLimit int) *Runner {
	if perTermLimit <= 0 {
		perTermLimit = 10
	}
	return &Runner{adapters: adapters, terms: terms, perTermLimit: perTermLimit}
}

// Collect runs every term against every adapter and returns all
// candidates found.
func (r *Runner) Collect(ctx context.Context) []model.Product {
	var candidates []model.Product
	for _, adapter := range r.adapters {
		for _, term := range r.terms {
			found, err := adapter.Search(ctx, term, r.perTermLimit)
			if err != nil {
				obs.Logger.Warnw("source search failed",
					"source", adapter.Name(), "term", term, "error", err)
				continue
			}
			obs.Logger.Infow("source search complete",
				"source", adapter.Name(), "term", term, "found", len(found))
			candidates = append(candidates, found...)
		}
	}
	return candidates
}
