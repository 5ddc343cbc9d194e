package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/product-catalog-aggregator/internal/config"
	"github.com/fairyhunter13/product-catalog-aggregator/internal/ingest"
	"github.com/fairyhunter13/product-catalog-aggregator/internal/model"
	"github.com/fairyhunter13/product-catalog-aggregator/internal/persist"
	"github.com/fairyhunter13/product-catalog-aggregator/internal/query"
	"github.com/fairyhunter13/product-catalog-aggregator/internal/store"
)

type testEnv struct {
	app     *App
	handler http.Handler
	store   *store.Store
	manager *ingest.Manager
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	st := store.New(persist.NewMemory())
	mgr := ingest.NewManager(ingest.NewIntake(8), ingest.NewReconciler(st))
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	mgr.Start(ctx, 100)

	app := NewApp(config.Config{}, st, query.New(st), mgr)
	return &testEnv{app: app, handler: NewRouter(app), store: st, manager: mgr}
}

func (e *testEnv) seed(t *testing.T, products ...model.Product) {
	t.Helper()
	for _, p := range products {
		_, err := e.store.Put(context.Background(), p)
		require.NoError(t, err)
	}
}

func (e *testEnv) do(t *testing.T, method, target string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(dst))
}

func laptop(id string, price float64) model.Product {
	return model.Product{
		ID:           id,
		Name:         "Laptop " + id,
		Category:     model.CategoryComputers,
		Brand:        "Acme",
		CurrentPrice: price,
		Currency:     model.CurrencyUSD,
		Availability: model.Availability{InStock: true, StockLevel: model.StockHigh},
	}
}

func TestSearchEndpoint(t *testing.T) {
	env := setup(t)
	env.seed(t, laptop("a", 30), laptop("b", 10), laptop("c", 10))

	rec := env.do(t, http.MethodGet, "/api/v1/products/search?sort_by=price_asc", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	var resp struct {
		Total   int             `json:"total"`
		Limit   int             `json:"limit"`
		Offset  int             `json:"offset"`
		Results []model.Product `json:"results"`
	}
	decode(t, rec, &resp)
	assert.Equal(t, 3, resp.Total)
	assert.Equal(t, 10, resp.Limit)
	require.Len(t, resp.Results, 3)
	assert.Equal(t, "b", resp.Results[0].ID)
	assert.Equal(t, "c", resp.Results[1].ID)
	assert.Equal(t, "a", resp.Results[2].ID)
}

func TestSearchEndpointValidation(t *testing.T) {
	env := setup(t)
	cases := []string{
		"/api/v1/products/search?category=Nonsense",
		"/api/v1/products/search?sort_by=sideways",
		"/api/v1/products/search?limit=0",
		"/api/v1/products/search?limit=101",
		"/api/v1/products/search?offset=-1",
		"/api/v1/products/search?min_rating=9",
		"/api/v1/products/search?min_price=abc",
	}
	for _, target := range cases {
		rec := env.do(t, http.MethodGet, target, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestSearchEndpointTotalIgnoresPagination(t *testing.T) {
	env := setup(t)
	var products []model.Product
	for i := 0; i < 15; i++ {
		products = append(products, laptop(string(rune('a'+i)), float64(i+1)))
	}
	env.seed(t, products...)

	rec := env.do(t, http.MethodGet, "/api/v1/products/search?limit=5&offset=12", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Total   int             `json:"total"`
		Results []model.Product `json:"results"`
	}
	decode(t, rec, &resp)
	assert.Equal(t, 15, resp.Total)
	assert.Len(t, resp.Results, 3)
}

func TestGetProduct(t *testing.T) {
	env := setup(t)
	env.seed(t, laptop("p1", 99))

	rec := env.do(t, http.MethodGet, "/api/v1/products/p1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var p model.Product
	decode(t, rec, &p)
	assert.Equal(t, "p1", p.ID)

	rec = env.do(t, http.MethodGet, "/api/v1/products/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "'nope' not found")
}

func TestDeleteProduct(t *testing.T) {
	env := setup(t)
	env.seed(t, laptop("p1", 99))

	rec := env.do(t, http.MethodDelete, "/api/v1/products/p1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Deleted   bool   `json:"deleted"`
		ProductID string `json:"product_id"`
	}
	decode(t, rec, &resp)
	assert.True(t, resp.Deleted)
	assert.Equal(t, "p1", resp.ProductID)
	assert.Equal(t, 0, env.store.Count())

	rec = env.do(t, http.MethodDelete, "/api/v1/products/p1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &resp)
	assert.False(t, resp.Deleted)
}

func TestPriceHistoryEndpoint(t *testing.T) {
	env := setup(t)
	env.seed(t, laptop("p1", 100))
	_, err := env.store.AppendPricePoint(context.Background(), "p1", 90, model.CurrencyUSD, "shopA", time.Time{})
	require.NoError(t, err)

	rec := env.do(t, http.MethodGet, "/api/v1/products/p1/price-history?days=60", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		ProductID    string  `json:"product_id"`
		CurrentPrice float64 `json:"current_price"`
		Days         int     `json:"days"`
		History      []struct {
			Date   string  `json:"date"`
			Price  float64 `json:"price"`
			Source string  `json:"source"`
		} `json:"history"`
	}
	decode(t, rec, &resp)
	assert.Equal(t, "p1", resp.ProductID)
	assert.Equal(t, 90.0, resp.CurrentPrice)
	assert.Equal(t, 60, resp.Days)
	require.Len(t, resp.History, 1)
	assert.Equal(t, 90.0, resp.History[0].Price)
	assert.Equal(t, "shopA", resp.History[0].Source)

	rec = env.do(t, http.MethodGet, "/api/v1/products/nope/price-history", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/products/p1/price-history?days=999", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSentimentEndpoint(t *testing.T) {
	env := setup(t)
	quiet := laptop("quiet", 10)
	loud := laptop("loud", 10)
	loud.ReviewsSentiment = &model.ReviewSentiment{Positive: 70, Neutral: 20, Negative: 10}
	env.seed(t, quiet, loud)

	rec := env.do(t, http.MethodGet, "/api/v1/products/loud/reviews/sentiment", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var s model.ReviewSentiment
	decode(t, rec, &s)
	assert.Equal(t, 70, s.Positive)

	rec = env.do(t, http.MethodGet, "/api/v1/products/quiet/reviews/sentiment", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCategoryEndpoint(t *testing.T) {
	env := setup(t)
	book := laptop("bk", 5)
	book.Category = model.CategoryBooks
	env.seed(t, laptop("c1", 10), book)

	rec := env.do(t, http.MethodGet, "/api/v1/products/category/Books", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var products []model.Product
	decode(t, rec, &products)
	require.Len(t, products, 1)
	assert.Equal(t, "bk", products[0].ID)

	rec = env.do(t, http.MethodGet, "/api/v1/products/category/Nonsense", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCompareEndpoint(t *testing.T) {
	env := setup(t)
	env.seed(t, laptop("a", 10), laptop("b", 20))

	body, _ := json.Marshal([]string{"a", "b", "ghost"})
	rec := env.do(t, http.MethodPost, "/api/v1/products/compare", body)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		TotalCompared int             `json:"total_compared"`
		Products      []model.Product `json:"products"`
	}
	decode(t, rec, &resp)
	assert.Equal(t, 2, resp.TotalCompared)

	body, _ = json.Marshal([]string{"a"})
	rec = env.do(t, http.MethodPost, "/api/v1/products/compare", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body, _ = json.Marshal([]string{"x", "y"})
	rec = env.do(t, http.MethodPost, "/api/v1/products/compare", body)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStatsEndpoint(t *testing.T) {
	env := setup(t)
	env.seed(t, laptop("a", 10), laptop("b", 20), laptop("c", 30), laptop("d", 40))

	rec := env.do(t, http.MethodGet, "/api/v1/stats/overview", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		TotalProducts int `json:"total_products"`
		PriceStats    struct {
			Median  float64 `json:"median"`
			Average float64 `json:"average"`
		} `json:"price_stats"`
	}
	decode(t, rec, &resp)
	assert.Equal(t, 4, resp.TotalProducts)
	assert.Equal(t, 20.0, resp.PriceStats.Median)
	assert.Equal(t, 25.0, resp.PriceStats.Average)
}

func TestIngestEndpoint(t *testing.T) {
	env := setup(t)

	body, _ := json.Marshal([]model.Product{laptop("p1", 100)})
	rec := env.do(t, http.MethodPost, "/api/v1/ingest?source=test", body)
	require.Equal(t, http.StatusAccepted, rec.Code)
	var ack struct {
		Status     string `json:"status"`
		RunID      string `json:"run_id"`
		Sequence   uint64 `json:"sequence"`
		Candidates int    `json:"candidates"`
	}
	decode(t, rec, &ack)
	assert.Equal(t, "accepted", ack.Status)
	assert.NotEmpty(t, ack.RunID)
	assert.Equal(t, 1, ack.Candidates)

	drainCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.True(t, env.manager.DrainUntil(drainCtx))
	assert.Eventually(t, func() bool { return env.store.Count() == 1 }, 5*time.Second, 10*time.Millisecond)
}

func TestIngestEndpointRejections(t *testing.T) {
	env := setup(t)

	rec := env.do(t, http.MethodPost, "/api/v1/ingest", []byte("[]"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/ingest", []byte("{not json"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/ingest", strings.NewReader("[]"))
	req.Header.Set("Content-Type", "text/plain")
	plain := httptest.NewRecorder()
	env.handler.ServeHTTP(plain, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, plain.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/ingest", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestIngestEndpointDuringShutdown(t *testing.T) {
	env := setup(t)
	env.app.StartShutdown()

	body, _ := json.Marshal([]model.Product{laptop("p1", 100)})
	rec := env.do(t, http.MethodPost, "/api/v1/ingest", body)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealthAndMetricsEndpoints(t *testing.T) {
	env := setup(t)
	env.seed(t, laptop("p1", 100))

	rec := env.do(t, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)

	rec = env.do(t, http.MethodGet, "/debug/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "total_products")
}

func TestDocsAndOpenAPIServed(t *testing.T) {
	env := setup(t)

	rec := env.do(t, http.MethodGet, "/openapi.yaml", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "openapi:")

	rec = env.do(t, http.MethodGet, "/docs", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "swagger")
}
