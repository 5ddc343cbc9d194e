// Package scrape produces candidate product records for ingestion. All
// marketplace-specific logic sits behind SourceAdapter; the engine never
// learns how records were obtained.
package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/fairyhunter13/product-catalog-aggregator/internal/model"
)

// SourceAdapter abstracts one product source.
type SourceAdapter interface {
	// Name labels the source in provenance records and logs.
	Name() string

	// Search returns up to limit candidate records for a query.
	Search(ctx context.Context, query string, limit int) ([]model.Product, error)
}

// FeedAdapter pulls candidates from a JSON product feed over HTTP.
// The feed endpoint is expected to answer GET {base}/products?q=&limit=
// with an array of product documents in the catalog's wire shape.
type FeedAdapter struct {
	name    string
	baseURL string
	client  *http.Client
}

// NewFeedAdapter creates a feed adapter for the given base URL.
func NewFeedAdapter(name, baseURL string, timeout time.Duration) *FeedAdapter {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &FeedAdapter{
		name:    name,
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (a *FeedAdapter) Name() string { return a.name }

func (a *FeedAdapter) Search(ctx context.Context, query string, limit int) ([]model.Product, error) {
	u := a.baseURL + "/products?q=" + url.QueryEscape(query) + "&limit=" + strconv.Itoa(limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch feed: unexpected status %d", resp.StatusCode)
	}

	var products []model.Product
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}
	if len(products) > limit && limit > 0 {
		products = products[:limit]
	}
	now := time.Now().UTC()
	for i := range products {
		if len(products[i].Sources) == 0 {
			price := products[i].CurrentPrice
			products[i].Sources = []model.ProductSource{{
				Name:        a.name,
				URL:         u,
				Price:       &price,
				LastChecked: now,
			}}
		}
	}
	return products, nil
}
