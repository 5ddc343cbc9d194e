// Package model defines the catalog domain types shared by the engine.
package model

import "time"

// Category is one of the fixed product categories.
type Category string

const (
	CategoryElectronics Category = "Electronics"
	CategoryComputers   Category = "Computers & Laptops"
	CategorySmartphones Category = "Smartphones"
	CategoryHome        Category = "Home & Kitchen"
	CategoryFashion     Category = "Fashion & Apparel"
	CategoryBeauty      Category = "Beauty & Personal Care"
	CategorySports      Category = "Sports & Outdoors"
	CategoryBooks       Category = "Books"
	CategoryToys        Category = "Toys & Games"
	CategoryAutomotive  Category = "Automotive"
	CategoryGroceries   Category = "Groceries & Food"
	CategoryHealth      Category = "Health & Wellness"
	CategoryFurniture   Category = "Furniture"
	CategoryJewelry     Category = "Jewelry"
	CategoryOther       Category = "Other"
)

// Categories lists every recognized category.
var Categories = []Category{
	CategoryElectronics, CategoryComputers, CategorySmartphones, CategoryHome,
	CategoryFashion, CategoryBeauty, CategorySports, CategoryBooks,
	CategoryToys, CategoryAutomotive, CategoryGroceries, CategoryHealth,
	CategoryFurniture, CategoryJewelry, CategoryOther,
}

// Valid reports whether c is a recognized category.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// StockLevel describes coarse stock availability.
type StockLevel string

const (
	StockOut     StockLevel = "Out of Stock"
	StockLow     StockLevel = "Low Stock"
	StockMedium  StockLevel = "Medium Stock"
	StockHigh    StockLevel = "High Stock"
	StockIn      StockLevel = "In Stock"
	StockUnknown StockLevel = "Unknown"
)

// Currency is an ISO currency code supported by the catalog.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
	CurrencyJPY Currency = "JPY"
	CurrencyCAD Currency = "CAD"
	CurrencyAUD Currency = "AUD"
)

// PricePoint is one immutable timestamped price observation.
type PricePoint struct {
	Date     time.Time `json:"date"`
	Price    float64   `json:"price"`
	Currency Currency  `json:"currency"`
	Source   string    `json:"source"`
}

// Availability describes whether and how a product can be bought.
type Availability struct {
	InStock       bool       `json:"in_stock"`
	StockLevel    StockLevel `json:"stock_level"`
	ShippingTime  string     `json:"shipping_time,omitempty"`
	FulfillmentBy string     `json:"fulfillment_by,omitempty"`
}

// RatingDistribution breaks ratings down per star as percentages.
type RatingDistribution struct {
	FiveStar  int `json:"five_star"`
	FourStar  int `json:"four_star"`
	ThreeStar int `json:"three_star"`
	TwoStar   int `json:"two_star"`
	OneStar   int `json:"one_star"`
}

// Ratings aggregates review scores for a product.
type Ratings struct {
	Average      float64             `json:"average"`
	Count        int                 `json:"count"`
	Distribution *RatingDistribution `json:"distribution,omitempty"`
}

// ReviewSentiment summarizes review text polarity and recurring themes.
type ReviewSentiment struct {
	Positive      int      `json:"positive"`
	Neutral       int      `json:"neutral"`
	Negative      int      `json:"negative"`
	TopPros       []string `json:"top_pros"`
	TopCons       []string `json:"top_cons"`
	SampleReviews []string `json:"sample_reviews"`
}

// ProductSource records where an observation of the product came from.
type ProductSource struct {
	Name         string        `json:"name"`
	URL          string        `json:"url"`
	Price        *float64      `json:"price,omitempty"`
	Availability *Availability `json:"availability,omitempty"`
	LastChecked  time.Time     `json:"last_checked"`
}

// Product is a uniquely identified catalog entry aggregated from one or
// more sources. The JSON shape is the persisted catalog representation,
// so field names must stay stable across releases.
type Product struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`

	Category     Category `json:"category"`
	Subcategory  string   `json:"subcategory,omitempty"`
	Brand        string   `json:"brand,omitempty"`
	Manufacturer string   `json:"manufacturer,omitempty"`

	CurrentPrice       float64      `json:"current_price"`
	Currency           Currency     `json:"currency"`
	OriginalPrice      *float64     `json:"original_price,omitempty"`
	DiscountPercentage *float64     `json:"discount_percentage,omitempty"`
	PriceHistory       []PricePoint `json:"price_history"`

	Availability Availability `json:"availability"`

	Ratings          *Ratings         `json:"ratings,omitempty"`
	ReviewsSentiment *ReviewSentiment `json:"reviews_sentiment,omitempty"`

	Description    string            `json:"description,omitempty"`
	Specifications map[string]string `json:"specifications,omitempty"`
	Features       []string          `json:"features,omitempty"`

	Images   []string `json:"images,omitempty"`
	VideoURL string   `json:"video_url,omitempty"`

	SKU  string `json:"sku,omitempty"`
	UPC  string `json:"upc,omitempty"`
	EAN  string `json:"ean,omitempty"`
	ASIN string `json:"asin,omitempty"`

	Tags     []string `json:"tags,omitempty"`
	Keywords []string `json:"keywords,omitempty"`

	Sources []ProductSource `json:"sources"`

	FirstSeen        time.Time `json:"first_seen"`
	LastUpdated      time.Time `json:"last_updated"`
	DataQualityScore int       `json:"data_quality_score"`
}
