package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCondition(t *testing.T) {
	t.Parallel()

	c, ok := ParseCondition(" Excellent ")
	assert.True(t, ok)
	assert.Equal(t, Excellent, c)

	_, ok = ParseCondition("mint")
	assert.False(t, ok)
}

func TestParseSortOrder(t *testing.T) {
	t.Parallel()

	assert.Equal(t, SortPriceHigh, ParseSortOrder("price-high"))
	assert.Equal(t, SortNewest, ParseSortOrder(""))
	assert.Equal(t, SortNewest, ParseSortOrder("popularity"))
}

func TestNewPagination(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Pagination{Page: 2, Limit: 5, Total: 11, TotalPages: 3}, NewPagination(2, 5, 11))
	assert.Equal(t, Pagination{Page: 1, Limit: 20, Total: 0, TotalPages: 0}, NewPagination(1, 20, 0))
	assert.Equal(t, int64(2), NewPagination(1, 5, 10).TotalPages)
}

func TestItemFilter_Skip(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, ItemFilter{Page: 1, Limit: 20}.Skip())
	assert.Equal(t, 10, ItemFilter{Page: 3, Limit: 5}.Skip())
	assert.Equal(t, math.MaxInt, ItemFilter{Page: math.MaxInt, Limit: 20}.Skip())
}

func TestIsSet(t *testing.T) {
	t.Parallel()

	assert.False(t, IsSet(""))
	assert.False(t, IsSet(FilterAll))
	assert.True(t, IsSet("Nairobi"))
}

func TestFilterOptions_WithDefaults(t *testing.T) {
	t.Parallel()

	got := FilterOptions{Locations: []string{"Kisumu"}}.WithDefaults()

	assert.Equal(t, DefaultCategories, got.Categories)
	assert.Equal(t, []string{"excellent", "good", "fair"}, got.Conditions)
	assert.Equal(t, []string{"Kisumu"}, got.Locations)
	assert.Equal(t, &PriceRange{Min: 0, Max: 100000}, got.PriceRange)
}

func TestStats_Rounded(t *testing.T) {
	t.Parallel()

	got := Stats{AveragePrice: 1234.6, TotalValue: 9999.4}.Rounded()

	assert.Equal(t, 1235.0, got.AveragePrice)
	assert.Equal(t, 9999.0, got.TotalValue)
	assert.NotNil(t, got.CategoryBreakdown)
}

func TestImageContentType(t *testing.T) {
	t.Parallel()

	ct, ok := ImageContentType("sofa.JPG")
	assert.True(t, ok)
	assert.Equal(t, "image/jpeg", ct)

	_, ok = ImageContentType("manual.pdf")
	assert.False(t, ok)
}

func TestValidationError(t *testing.T) {
	t.Parallel()

	err := NewValidationError("All required fields must be provided", "name", "price")
	assert.Equal(t, "All required fields must be provided: name, price", err.Error())
	assert.True(t, IsValidationError(err))
	assert.False(t, IsValidationError(ErrItemNotFound))
}
