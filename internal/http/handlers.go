package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fairyhunter13/product-catalog-aggregator/internal/config"
	"github.com/fairyhunter13/product-catalog-aggregator/internal/ingest"
	"github.com/fairyhunter13/product-catalog-aggregator/internal/model"
	"github.com/fairyhunter13/product-catalog-aggregator/internal/obs"
	"github.com/fairyhunter13/product-catalog-aggregator/internal/query"
	"github.com/fairyhunter13/product-catalog-aggregator/internal/store"
)

// App wires the engine components into the HTTP surface.
type App struct {
	Cfg     config.Config
	Store   *store.Store
	Query   *query.Engine
	Manager *ingest.Manager
	closing bool
	started time.Time
}

// NewApp constructs the HTTP application.
func NewApp(cfg config.Config, st *store.Store, q *query.Engine, m *ingest.Manager) *App {
	return &App{Cfg: cfg, Store: st, Query: q, Manager: m, started: time.Now()}
}

// StartShutdown rejects new ingestion batches while draining.
func (a *App) StartShutdown() {
	a.closing = true
	a.Manager.CloseIntake()
}

type searchResponse struct {
	Total   int             `json:"total"`
	Limit   int             `json:"limit"`
	Offset  int             `json:"offset"`
	Results []model.Product `json:"results"`
}

func (a *App) searchHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	q := r.URL.Query()

	var f query.Filter
	f.Q = q.Get("q")
	f.Brand = q.Get("brand")
	if raw := q.Get("category"); raw != "" {
		cat := model.Category(raw)
		if !cat.Valid() {
			WriteJSONError(w, http.StatusBadRequest, "validation_error", "unknown category")
			return
		}
		f.Category = &cat
	}
	var ok bool
	if f.MinPrice, ok = floatParam(w, q.Get("min_price"), "min_price", 0, -1); !ok {
		return
	}
	if f.MaxPrice, ok = floatParam(w, q.Get("max_price"), "max_price", 0, -1); !ok {
		return
	}
	if f.MinRating, ok = floatParam(w, q.Get("min_rating"), "min_rating", 0, 5); !ok {
		return
	}
	f.InStockOnly = q.Get("in_stock_only") == "true"

	sortBy := query.Sort(q.Get("sort_by"))
	if sortBy == "" {
		sortBy = query.SortRelevance
	}
	if !sortBy.Valid() {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", "unknown sort_by")
		return
	}
	limit, ok := intParam(w, q.Get("limit"), "limit", 10, 1, 100)
	if !ok {
		return
	}
	offset, ok := intParam(w, q.Get("offset"), "offset", 0, 0, -1)
	if !ok {
		return
	}

	results := a.Query.Search(f, sortBy, limit, offset)
	writeJSON(w, http.StatusOK, searchResponse{
		Total:   a.Query.CountFiltered(f),
		Limit:   limit,
		Offset:  offset,
		Results: results,
	})
}

// productSubtreeHandler dispatches /api/v1/products/{id} and its
// price-history and reviews/sentiment subresources.
func (a *App) productSubtreeHandler(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/products/")
	if rest == "" || rest == r.URL.Path {
		WriteJSONError(w, http.StatusNotFound, "not_found", "")
		return
	}
	parts := strings.Split(rest, "/")
	id := parts[0]
	switch {
	case len(parts) == 1:
		a.productHandler(w, r, id)
	case len(parts) == 2 && parts[1] == "price-history":
		a.priceHistoryHandler(w, r, id)
	case len(parts) == 3 && parts[1] == "reviews" && parts[2] == "sentiment":
		a.sentimentHandler(w, r, id)
	default:
		WriteJSONError(w, http.StatusNotFound, "not_found", "")
	}
}

func (a *App) productHandler(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodGet:
		p, ok := a.Store.Get(id)
		if !ok {
			WriteJSONError(w, http.StatusNotFound, "not_found", "product '"+id+"' not found")
			return
		}
		writeJSON(w, http.StatusOK, p)
	case http.MethodDelete:
		deleted, err := a.Store.Delete(r.Context(), id)
		if err != nil {
			WriteEngineError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"deleted": deleted, "product_id": id})
	default:
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
	}
}

type pricePointView struct {
	Date   string  `json:"date"`
	Price  float64 `json:"price"`
	Source string  `json:"source"`
}

func (a *App) priceHistoryHandler(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	days, ok := intParam(w, r.URL.Query().Get("days"), "days", 30, 1, 365)
	if !ok {
		return
	}
	p, found := a.Store.Get(id)
	if !found {
		WriteJSONError(w, http.StatusNotFound, "not_found", "product '"+id+"' not found")
		return
	}
	history := a.Store.PriceHistory(id, days)
	view := make([]pricePointView, len(history))
	for i, pp := range history {
		view[i] = pricePointView{
			Date:   pp.Date.Format(time.RFC3339),
			Price:  pp.Price,
			Source: pp.Source,
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"product_id":    id,
		"product_name":  p.Name,
		"current_price": p.CurrentPrice,
		"currency":      p.Currency,
		"history":       view,
		"days":          days,
	})
}

func (a *App) sentimentHandler(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	p, ok := a.Store.Get(id)
	if !ok {
		WriteJSONError(w, http.StatusNotFound, "not_found", "product '"+id+"' not found")
		return
	}
	if p.ReviewsSentiment == nil {
		WriteJSONError(w, http.StatusNotFound, "not_found", "no review sentiment data available for this product")
		return
	}
	writeJSON(w, http.StatusOK, p.ReviewsSentiment)
}

func (a *App) categoryHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	raw := strings.TrimPrefix(r.URL.Path, "/api/v1/products/category/")
	cat := model.Category(raw)
	if !cat.Valid() {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", "unknown category")
		return
	}
	limit, ok := intParam(w, r.URL.Query().Get("limit"), "limit", 20, 1, 100)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, a.Query.ListByCategory(cat, limit))
}

func (a *App) compareHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	var ids []string
	if err := json.NewDecoder(r.Body).Decode(&ids); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if len(ids) < 2 {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", "need at least 2 products to compare")
		return
	}
	if len(ids) > 10 {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", "maximum 10 products for comparison")
		return
	}
	products := make([]model.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := a.Store.Get(id); ok {
			products = append(products, p)
		}
	}
	if len(products) == 0 {
		WriteJSONError(w, http.StatusNotFound, "not_found", "none of the products found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total_compared": len(products),
		"products":       products,
	})
}

func (a *App) statsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total_products": a.Store.Count(),
		"categories":     a.Query.CategoryDistribution(),
		"price_stats":    a.Query.ComputePriceStats(),
		"last_updated":   time.Now().UTC().Format(time.RFC3339),
	})
}

type ingestAck struct {
	Status      string `json:"status"`
	RequestID   string `json:"request_id"`
	RunID       string `json:"run_id"`
	Sequence    uint64 `json:"sequence"`
	Candidates  int    `json:"candidates"`
	ReceivedAt  string `json:"received_at"`
	QueueDepth  int    `json:"queue_depth"`
	BacklogSize int    `json:"backlog_size"`
}

func (a *App) ingestHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	if a.closing || a.Manager.IsShuttingDown() {
		WriteJSONError(w, http.StatusServiceUnavailable, "shutting_down", "")
		return
	}
	ct := r.Header.Get("Content-Type")
	if !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		WriteJSONError(w, http.StatusUnsupportedMediaType, "unsupported_media_type", "expected application/json")
		return
	}
	var candidates []model.Product
	if err := json.NewDecoder(r.Body).Decode(&candidates); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if len(candidates) == 0 {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", "batch must not be empty")
		return
	}
	source := r.URL.Query().Get("source")
	if source == "" {
		source = "api"
	}
	b, ok := a.Manager.Enqueue(source, candidates)
	if !ok {
		WriteJSONError(w, http.StatusServiceUnavailable, "shutting_down", "")
		return
	}
	ack := ingestAck{
		Status:      "accepted",
		RequestID:   RequestIDFromContext(r.Context()),
		RunID:       b.RunID,
		Sequence:    b.Sequence,
		Candidates:  len(candidates),
		ReceivedAt:  time.Now().UTC().Format(time.RFC3339),
		QueueDepth:  a.Manager.Depth(),
		BacklogSize: a.Manager.BacklogSize(),
	}
	writeJSON(w, http.StatusAccepted, ack)
	obs.Logger.Infow("ingest_accepted",
		"request_id", ack.RequestID,
		"run_id", ack.RunID,
		"sequence", ack.Sequence,
		"source", source,
		"candidates", ack.Candidates,
		"queue_depth", ack.QueueDepth,
		"backlog_size", ack.BacklogSize,
	)
}

func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"total_products": a.Store.Count(),
	})
}

func (a *App) metricsHandler(w http.ResponseWriter, r *http.Request) {
	enq, proc, backlog, depth := a.Manager.Metrics()
	totals, runs := a.Manager.Totals()
	writeJSON(w, http.StatusOK, map[string]any{
		"batches_enqueued":  enq,
		"batches_processed": proc,
		"backlog_size":      backlog,
		"queue_depth":       depth,
		"reconcile_runs":    runs,
		"products_added":    totals.Added,
		"products_updated":  totals.Updated,
		"products_skipped":  totals.Skipped,
		"total_products":    a.Store.Count(),
		"uptime_sec":        time.Since(a.started).Seconds(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// floatParam parses an optional float query parameter with inclusive
// bounds; max < 0 means unbounded above. ok=false means an error
// response has been written.
func floatParam(w http.ResponseWriter, raw, name string, min, max float64) (*float64, bool) {
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < min || (max >= 0 && v > max) {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", name+" is out of range")
		return nil, false
	}
	return &v, true
}

// intParam parses an optional int query parameter with a default and
// inclusive bounds; max < 0 means unbounded above.
func intParam(w http.ResponseWriter, raw, name string, def, min, max int) (int, bool) {
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < min || (max >= 0 && v > max) {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", name+" is out of range")
		return 0, false
	}
	return v, true
}
