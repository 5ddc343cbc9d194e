// Package main boots the product catalog aggregation HTTP server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fairyhunter13/product-catalog-aggregator/internal/config"
	httpapi "github.com/fairyhunter13/product-catalog-aggregator/internal/http"
	"github.com/fairyhunter13/product-catalog-aggregator/internal/ingest"
	"github.com/fairyhunter13/product-catalog-aggregator/internal/obs"
	"github.com/fairyhunter13/product-catalog-aggregator/internal/persist"
	"github.com/fairyhunter13/product-catalog-aggregator/internal/query"
	"github.com/fairyhunter13/product-catalog-aggregator/internal/store"
)

func main() {
	obs.InitLogger()
	cfg, err := config.Load()
	if err != nil {
		obs.Logger.Errorw("config_error", "error", err)
		os.Exit(1)
	}
	obs.Logger.Infow("service_starting", "storage_backend", cfg.Storage.Backend)

	ctx, cancel := context.WithCancel(context.Background())
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
	obs.Logger.Infow("catalog_loaded", "total_products", st.Count())

	mgr := ingest.NewManager(ingest.NewIntake(cfg.Ingest.OutBuffer), ingest.NewReconciler(st))
	mgr.Start(ctx, cfg.Ingest.HighWatermark)

	app := httpapi.NewApp(cfg, st, query.New(st), mgr)
	mux := httpapi.NewRouter(app)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		obs.Logger.Infow("http_listen", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			obs.Logger.Errorw("http_server_error", "error", err)
			os.Exit(1)
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	s := <-sigc
	obs.Logger.Infow("shutdown_signal", "signal", s.String())

	app.StartShutdown()
	obs.Logger.Infow("shutdown_drain_begin", "backlog_size", mgr.BacklogSize())

	ctxDrain, cancelDrain := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelDrain()
	if drained := mgr.DrainUntil(ctxDrain); !drained {
		obs.Logger.Warnw("shutdown_drain_timeout")
	} else {
		obs.Logger.Infow("shutdown_drain_complete")
	}

	ctxSrv, cancelSrv := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelSrv()
	if err := srv.Shutdown(ctxSrv); err != nil {
		obs.Logger.Errorw("http_shutdown_error", "error", err)
	}
	mgr.Stop()

	ctxClose, cancelClose := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelClose()
	if err := st.Close(ctxClose); err != nil {
		obs.Logger.Errorw("catalog_close_error", "error", err)
	}
	obs.Logger.Infow("service_stopped")
}
