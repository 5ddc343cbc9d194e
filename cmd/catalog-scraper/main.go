// Package main runs a one-shot scrape and reconciles the results into
// the persisted catalog.
package main

import (
	"context"
	"os"
	"time"

	"github.com/fairyhunter13/product-catalog-aggregator/internal/config"
	"github.com/fairyhunter13/product-catalog-aggregator/internal/ingest"
	"github.com/fairyhunter13/product-catalog-aggregator/internal/obs"
	"github.com/fairyhunter13/product-catalog-aggregator/internal/persist"
	"github.com/fairyhunter13/product-catalog-aggregator/internal/scrape"
	"github.com/fairyhunter13/product-catalog-aggregator/internal/store"
)

func main() {
	obs.InitLogger()
	cfg, err := config.Load()
	if err != nil {
		obs.Logger.Errorw("config_error", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	backend, err := persist.Open(ctx, cfg.Storage)
	if err != nil {
		obs.Logger.Errorw("storage_open_error", "error", err)
		os.Exit(1)
	}
	st := store.New(backend)
	if err := st.Load(ctx); err != nil {
		obs.Logger.Errorw("catalog_load_error", "error", err)
		os.Exit(1)
	}
	initial := st.Count()
	obs.Logger.Infow("scrape_run_starting",
		"adapter", cfg.Scrape.Adapter, "terms", len(cfg.Scrape.Terms), "initial_products", initial)

	var adapter scrape.SourceAdapter
	switch cfg.Scrape.Adapter {
	case "feed":
		adapter = scrape.NewFeedAdapter("feed", cfg.Scrape.FeedURL, cfg.Scrape.RequestTimeout)
	default:
		adapter = scrape.NewMockAdapter()
	}
	runner := scrape.NewRunner([]scrape.SourceAdapter{adapter}, cfg.Scrape.Terms, cfg.Scrape.PerTermLimit)
	candidates := runner.Collect(ctx)

	res, err := ingest.NewReconciler(st).Reconcile(ctx, candidates)
	if err != nil {
		obs.Logger.Errorw("reconcile_error", "error", err)
		os.Exit(1)
	}
	final := st.Count()
	obs.Logger.Infow("scrape_run_summary",
		"initial_products", initial,
		"candidates", len(candidates),
		"added", res.Added,
		"updated", res.Updated,
		"unchanged", res.Unchanged,
		"skipped", res.Skipped,
		"final_products", final,
		"net_change", final-initial,
	)

	if err := st.Close(ctx); err != nil {
		obs.Logger.Errorw("catalog_close_error", "error", err)
		os.Exit(1)
	}
}
