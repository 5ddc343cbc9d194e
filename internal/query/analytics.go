package query

import (
	"sort"

	"github.com/fairyhunter13/product-catalog-aggregator/internal/model"
)

// CategoryCount pairs a category with its product count.
type CategoryCount struct {
	Category model.Category `json:"category"`
	Count    int            `json:"count"`
}

// PriceStats aggregates current prices across the catalog.
type PriceStats struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Average float64 `json:"average"`
	Median  float64 `json:"median"`
}

// CategoryDistribution counts products per category, largest first.
// Ties break by category name so the ordering is deterministic.
func (e *Engine) CategoryDistribution() []CategoryCount {
	counts := make(map[model.Category]int)
	for _, p := range e.st.List() {
		counts[p.Category]++
	}
	out := make([]CategoryCount, 0, len(counts))
	for c, n := range counts {
		out = append(out, CategoryCount{Category: c, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// ComputePriceStats returns min/max/average/median over all current
// prices. The median of an even-sized set is the lower-middle element;
// an empty catalog yields all zeros.
func (e *Engine) ComputePriceStats() PriceStats {
	products := e.st.List()
	if len(products) == 0 {
		return PriceStats{}
	}
	prices := make([]float64, len(products))
	sum := 0.0
	for i, p := range products {
		prices[i] = p.CurrentPrice
		sum += p.CurrentPrice
	}
	sort.Float64s(prices)
	return PriceStats{
		Min:     prices[0],
		Max:     prices[len(prices)-1],
		Average: sum / float64(len(prices)),
		Median:  prices[(len(prices)-1)/2],
	}
}
