package models

import "math"

var (
	DefaultCategories = []string{
		"Electronics", "Clothing", "Furniture", "Books", "Sports",
		"Toys", "Automotive", "Home & Garden", "Health & Beauty", "Other",
	}

	DefaultLocations = []string{
		"Nairobi", "Mombasa", "Kisumu", "Nakuru", "Eldoret",
		"Thika", "Malindi", "Kitale", "Garissa", "Kakamega",
	}

	DefaultPriceRange = PriceRange{Min: 0, Max: 100000}
)

func DefaultConditions() []string {
	conditions := make([]string, 0, len(Conditions))
	for _, c := range Conditions {
		conditions = append(conditions, string(c))
	}
	return conditions
}

type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// FilterOptions holds the distinct values found among active items.
// PriceRange is nil when there are no active items.
type FilterOptions struct {
	Categories []string    `json:"categories"`
	Conditions []string    `json:"conditions"`
	Locations  []string    `json:"locations"`
	PriceRange *PriceRange `json:"priceRange"`
}

// WithDefaults fills every empty dimension with its hardcoded fallback.
func (o FilterOptions) WithDefaults() FilterOptions {
	if len(o.Categories) == 0 {
		o.Categories = append([]string(nil), DefaultCategories...)
	}
	if len(o.Conditions) == 0 {
		o.Conditions = DefaultConditions()
	}
	if len(o.Locations) == 0 {
		o.Locations = append([]string(nil), DefaultLocations...)
	}
	if o.PriceRange == nil {
		pr := DefaultPriceRange
		o.PriceRange = &pr
	}
	return o
}

type CategoryStat struct {
	Category     string  `json:"category" db:"category" bson:"_id"`
	Count        int64   `json:"count" db:"count" bson:"count"`
	AveragePrice float64 `json:"averagePrice" db:"average_price" bson:"averagePrice"`
}

type Stats struct {
	TotalItems        int64          `json:"totalItems" db:"total_items" bson:"totalItems"`
	AveragePrice      float64        `json:"averagePrice" db:"average_price" bson:"averagePrice"`
	TotalValue        float64        `json:"totalValue" db:"total_value" bson:"totalValue"`
	LikedItems        int64          `json:"likedItems" db:"liked_items" bson:"likedItems"`
	CategoryBreakdown []CategoryStat `json:"categoryBreakdown" db:"-" bson:"-"`
}

// Rounded returns a copy with the headline money figures rounded to whole units.
func (s Stats) Rounded() Stats {
	s.AveragePrice = math.Round(s.AveragePrice)
	s.TotalValue = math.Round(s.TotalValue)
	if s.CategoryBreakdown == nil {
		s.CategoryBreakdown = make([]CategoryStat, 0)
	}
	return s
}
