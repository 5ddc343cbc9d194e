package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	valid := Product{ID: "p1", Name: "Widget", Category: CategoryOther, CurrentPrice: 9.99, Currency: CurrencyUSD}
	require.NoError(t, valid.Validate())

	noID := valid
	noID.ID = ""
	var verr *ValidationError
	require.ErrorAs(t, noID.Validate(), &verr)
	assert.Equal(t, "id", verr.Field)

	negative := valid
	negative.CurrentPrice = -1
	require.ErrorAs(t, negative.Validate(), &verr)
	assert.Equal(t, "current_price", verr.Field)

	badRating := valid
	badRating.Ratings = &Ratings{Average: 5.5}
	require.Error(t, badRating.Validate())

	badScore := valid
	badScore.DataQualityScore = 101
	require.Error(t, badScore.Validate())
}

func TestCategoryValid(t *testing.T) {
	assert.True(t, CategoryBooks.Valid())
	assert.False(t, Category("Gadgets").Valid())
}

func TestCloneIsDeep(t *testing.T) {
	price := 10.0
	orig := Product{
		ID:           "p1",
		Name:         "Widget",
		Category:     CategoryElectronics,
		CurrentPrice: 10,
		Currency:     CurrencyUSD,
		PriceHistory: []PricePoint{{Date: time.Now(), Price: 12, Currency: CurrencyUSD, Source: "mock"}},
		Ratings:      &Ratings{Average: 4.5, Count: 10, Distribution: &RatingDistribution{FiveStar: 60}},
		Tags:         []string{"gadget"},
		Specifications: map[string]string{
			"color": "black",
		},
		Sources: []ProductSource{{Name: "mock", URL: "https://example.invalid", Price: &price}},
	}

	clone := orig.Clone()
	clone.PriceHistory[0].Price = 99
	clone.Tags[0] = "changed"
	clone.Specifications["color"] = "red"
	clone.Ratings.Average = 1
	clone.Ratings.Distribution.FiveStar = 1
	*clone.Sources[0].Price = 99

	assert.Equal(t, 12.0, orig.PriceHistory[0].Price)
	assert.Equal(t, "gadget", orig.Tags[0])
	assert.Equal(t, "black", orig.Specifications["color"])
	assert.Equal(t, 4.5, orig.Ratings.Average)
	assert.Equal(t, 60, orig.Ratings.Distribution.FiveStar)
	assert.Equal(t, 10.0, *orig.Sources[0].Price)
}
