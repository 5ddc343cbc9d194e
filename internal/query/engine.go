// Package query implements the read-only search pipeline over a catalog
// snapshot: composable filters, stable sorts, and pagination.
package query

import (
	"sort"
	"strings"

	"github.com/fairyhunter13/product-catalog-aggregator/internal/model"
	"github.com/fairyhunter13/product-catalog-aggregator/internal/store"
)

// Sort selects the result ordering. All sorts are stable; ties keep the
// catalog's original insertion order.
type Sort string

const (
	SortRelevance Sort = "relevance"
	SortPriceAsc  Sort = "price_asc"
	SortPriceDesc Sort = "price_desc"
	SortRating    Sort = "rating"
	SortNewest    Sort = "newest"
)

// Valid reports whether s is a recognized sort key.
func (s Sort) Valid() bool {
	switch s {
	case SortRelevance, SortPriceAsc, SortPriceDesc, SortRating, SortNewest:
		return true
	}
	return false
}

// Filter is a set of optional predicates combined with logical AND.
// Nil/zero fields are not applied.
type Filter struct {
	// Q matches case-insensitively against name, description, brand,
	// or any tag.
	Q           string
	Category    *model.Category
	Brand       string
	MinPrice    *float64
	MaxPrice    *float64
	MinRating   *float64
	InStockOnly bool
}

// Engine answers catalog queries over store snapshots.
type Engine struct {
	st *store.Store
}

// New creates a query engine reading from st.
func New(st *store.Store) *Engine {
	return &Engine{st: st}
}

// Search filters, sorts, and paginates the catalog. An offset beyond the
// result length yields an empty slice.
func (e *Engine) Search(f Filter, sortBy Sort, limit, offset int) []model.Product {
	results := applyFilter(e.st.List(), f)
	applySort(results, sortBy)
	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}
	if offset >= len(results) {
		return []model.Product{}
	}
	end := offset + limit
	if end > len(results) {
		end = len(results)
	}
	return results[offset:end]
}

// CountFiltered returns the size of the filtered result set before
// pagination. It never truncates, regardless of catalog size.
func (e *Engine) CountFiltered(f Filter) int {
	return len(applyFilter(e.st.List(), f))
}

// ListByCategory returns up to limit products in the category, best
// rated first (missing ratings sort as 0).
func (e *Engine) ListByCategory(category model.Category, limit int) []model.Product {
	results := applyFilter(e.st.List(), Filter{Category: &category})
	applySort(results, SortRating)
	if limit < 0 {
		limit = 0
	}
	if limit < len(results) {
		results = results[:limit]
	}
	return results
}

func applyFilter(products []model.Product, f Filter) []model.Product {
	out := make([]model.Product, 0, len(products))
	q := strings.ToLower(f.Q)
	brand := strings.ToLower(f.Brand)
	for _, p := range products {
		if q != "" && !matchesQuery(p, q) {
			continue
		}
		if f.Category != nil && p.Category != *f.Category {
			continue
		}
		if brand != "" && !strings.Contains(strings.ToLower(p.Brand), brand) {
			continue
		}
		if f.MinPrice != nil && p.CurrentPrice < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && p.CurrentPrice > *f.MaxPrice {
			continue
		}
		if f.MinRating != nil && (p.Ratings == nil || p.Ratings.Average < *f.MinRating) {
			continue
		}
		if f.InStockOnly && !p.Availability.InStock {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matchesQuery(p model.Product, q string) bool {
	if strings.Contains(strings.ToLower(p.Name), q) {
		return true
	}
	if p.Description != "" && strings.Contains(strings.ToLower(p.Description), q) {
		return true
	}
	if p.Brand != "" && strings.Contains(strings.ToLower(p.Brand), q) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

func applySort(results []model.Product, sortBy Sort) {
	switch sortBy {
	case SortPriceAsc:
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].CurrentPrice < results[j].CurrentPrice
		})
	case SortPriceDesc:
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].CurrentPrice > results[j].CurrentPrice
		})
	case SortRating:
		sort.SliceStable(results, func(i, j int) bool {
			return ratingOf(results[i]) > ratingOf(results[j])
		})
	case SortNewest:
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].FirstSeen.After(results[j].FirstSeen)
		})
	default:
		// relevance is a pass-through: keep snapshot order
	}
}

func ratingOf(p model.Product) float64 {
	if p.Ratings == nil {
		return 0
	}
	return p.Ratings.Average
}
