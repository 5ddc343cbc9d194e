package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/product-catalog-aggregator/internal/config"
	httpapi "github.com/fairyhunter13/product-catalog-aggregator/internal/http"
	"github.com/fairyhunter13/product-catalog-aggregator/internal/ingest"
	"github.com/fairyhunter13/product-catalog-aggregator/internal/model"
	"github.com/fairyhunter13/product-catalog-aggregator/internal/persist"
	"github.com/fairyhunter13/product-catalog-aggregator/internal/query"
	"github.com/fairyhunter13/product-catalog-aggregator/internal/store"
)

// TestCatalogLifecycle drives the whole service through its HTTP surface
// against a file backend: ingest a batch, watch reconciliation land, query
// it back, change a price, read the history, then restart on the same
// file and verify the catalog survives.
func TestCatalogLifecycle(t *testing.T) {
	dataPath := filepath.Join(t.TempDir(), "products.json")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st := store.New(persist.NewFile(dataPath))
	require.NoError(t, st.Load(ctx))

	mgr := ingest.NewManager(ingest.NewIntake(8), ingest.NewReconciler(st))
	mgr.Start(ctx, 100)

	app := httpapi.NewApp(config.Config{}, st, query.New(st), mgr)
	srv := httptest.NewServer(httpapi.NewRouter(app))
	defer srv.Close()

	batch := []model.Product{
		{
			ID:           "lap-1",
			Name:         "Aurora Laptop 14",
			Category:     model.CategoryComputers,
			Brand:        "Acme",
			CurrentPrice: 899.99,
			Currency:     model.CurrencyUSD,
			Availability: model.Availability{InStock: true, StockLevel: model.StockHigh},
		},
		{
			ID:           "cam-1",
			Name:         "Trailcam X",
			Category:     model.CategoryElectronics,
			Brand:        "Globex",
			CurrentPrice: 149.50,
			Currency:     model.CurrencyUSD,
			Availability: model.Availability{InStock: true, StockLevel: model.StockMedium},
		},
	}
	postBatch(t, srv.URL, batch)
	waitDrained(t, mgr)
	require.Equal(t, 2, st.Count())

	// Query it back through search.
	resp, err := http.Get(srv.URL + "/api/v1/products/search?q=laptop")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var search struct {
		Total   int             `json:"total"`
		Results []model.Product `json:"results"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&search))
	require.Equal(t, 1, search.Total)
	assert.Equal(t, "lap-1", search.Results[0].ID)

	// A price drop on re-ingest grows the history.
	drop := batch[0]
	drop.CurrentPrice = 849.99
	postBatch(t, srv.URL, []model.Product{drop})
	waitDrained(t, mgr)

	histResp, err := http.Get(srv.URL + "/api/v1/products/lap-1/price-history?days=30")
	require.NoError(t, err)
	defer histResp.Body.Close()
	require.Equal(t, http.StatusOK, histResp.StatusCode)
	var hist struct {
		CurrentPrice float64 `json:"current_price"`
		History      []struct {
			Price float64 `json:"price"`
		} `json:"history"`
	}
	require.NoError(t, json.NewDecoder(histResp.Body).Decode(&hist))
	assert.Equal(t, 849.99, hist.CurrentPrice)
	require.Len(t, hist.History, 1)
	assert.Equal(t, 849.99, hist.History[0].Price)

	require.NoError(t, st.Flush(ctx))

	// Restart on the same data file.
	st2 := store.New(persist.NewFile(dataPath))
	require.NoError(t, st2.Load(ctx))
	assert.Equal(t, 2, st2.Count())

	p, ok := st2.Get("lap-1")
	require.True(t, ok)
	assert.Equal(t, 849.99, p.CurrentPrice)
	require.Len(t, p.PriceHistory, 1)
	assert.False(t, p.FirstSeen.IsZero())
}

func postBatch(t *testing.T, baseURL string, batch []model.Product) {
	t.Helper()
	body, err := json.Marshal(batch)
	require.NoError(t, err)
	resp, err := http.Post(baseURL+"/api/v1/ingest?source=integration", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
}

func waitDrained(t *testing.T, mgr *ingest.Manager) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.True(t, mgr.DrainUntil(ctx), "intake did not drain in time")
}
