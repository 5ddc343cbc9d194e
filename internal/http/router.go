package httpapi

import (
	"expvar"
	"net/http"
)

// NewRouter registers HTTP routes and returns the handler with middleware.
func NewRouter(app *App) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/products/search", app.searchHandler)
	mux.HandleFunc("/api/v1/products/compare", app.compareHandler)
	mux.HandleFunc("/api/v1/products/category/", app.categoryHandler)
	mux.HandleFunc("/api/v1/products/", app.productSubtreeHandler)
	mux.HandleFunc("/api/v1/stats/overview", app.statsHandler)
	mux.HandleFunc("/api/v1/ingest", app.ingestHandler)
	mux.HandleFunc("/healthz", app.healthHandler)
	mux.HandleFunc("/debug/metrics", app.metricsHandler)
	mux.Handle("/debug/vars", expvar.Handler())
	mux.HandleFunc("/openapi.yaml", app.openapiHandler)
	mux.HandleFunc("/docs", app.docsHandler)
	return WithRequestID(WithLogging(mux))
}
