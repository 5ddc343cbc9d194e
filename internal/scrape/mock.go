package scrape

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"github.com/fairyhunter13/product-catalog-aggregator/internal/model"
	"github.com/fairyhunter13/product-catalog-aggregator/internal/sentiment"
)

// MockAdapter synthesizes deterministic offline candidates so the whole
// ingestion path can run without touching any marketplace.
type MockAdapter struct {
	name string
}

// NewMockAdapter creates the offline adapter.
func NewMockAdapter() *MockAdapter {
	return &MockAdapter{name: "mock"}
}

func (a *MockAdapter) Name() string { return a.name }

func (a *MockAdapter) Search(ctx context.Context, query string, limit int) ([]model.Product, error) {
	if limit <= 0 {
		limit = 10
	}
	now := time.Now().UTC()
	out := make([]model.Product, 0, limit)
	for i := 0; i < limit; i++ {
		select {
		case <-ctx.Done():
			return out, ctx.Err()
		default:
		}
		seed := hashOf(query, i)
		price := 10 + float64(seed%99000)/100
		id := fmt.Sprintf("mock-%s-%03d", slugify(query), i+1)
		p := model.Product{
			ID:           id,
			Name:         fmt.Sprintf("%s Model %d", titleCase(query), i+1),
			Slug:         slugify(query) + fmt.Sprintf("-model-%d", i+1),
			Category:     categoryFor(seed),
			Brand:        brands[seed%uint64(len(brands))],
			CurrentPrice: price,
			Currency:     model.CurrencyUSD,
			Availability: model.Availability{
				InStock:    seed%5 != 0,
				StockLevel: stockLevelFor(seed),
			},
			Tags:             []string{query},
			DataQualityScore: 50,
			Sources: []model.ProductSource{{
				Name:        a.name,
				URL:         "https://example.invalid/products/" + id,
				Price:       &price,
				LastChecked: now,
			}},
		}
		if seed%3 != 0 {
			p.Ratings = &model.Ratings{
				Average: float64(seed%41)/10 + 1, // 1.0 .. 5.0
				Count:   int(seed % 5000),
			}
		}
		if seed%4 == 0 {
			s := sentiment.AnalyzeReviews(cannedReviews)
			p.ReviewsSentiment = &s
		}
		out = append(out, p)
	}
	return out, nil
}

var brands = []string{"Acme", "Globex", "Initech", "Umbra", "Vandelay"}

var cannedReviews = []string{
	"This product is amazing! Great quality and fast shipping.",
	"Perfect for my needs. Love the design and features.",
	"Terrible product. Broke after 2 days. Very disappointed.",
	"It's okay. Nothing special but gets the job done.",
	"Excellent value for money. Highly recommend!",
	"Poor quality. Not worth the price at all.",
	"Good product overall. Fast delivery and easy to use.",
}

func hashOf(query string, i int) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(query))
	_, _ = fmt.Fprintf(h, ":%d", i)
	return h.Sum64()
}

func categoryFor(seed uint64) model.Category {
	return model.Categories[seed%uint64(len(model.Categories))]
}

func stockLevelFor(seed uint64) model.StockLevel {
	levels := []model.StockLevel{
		model.StockHigh, model.StockMedium, model.StockLow,
		model.StockIn, model.StockOut,
	}
	return levels[seed%uint64(len(levels))]
}

func slugify(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "-")
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
