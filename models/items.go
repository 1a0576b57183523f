package models

import (
	"math"
	"strings"
	"time"

	"github.com/volatiletech/null"
)

type Condition string

const (
	Excellent Condition = "excellent"
	Good      Condition = "good"
	Fair      Condition = "fair"
)

var Conditions = []Condition{Excellent, Good, Fair}

// ParseCondition accepts any casing and surrounding spaces.
func ParseCondition(s string) (Condition, bool) {
	c := Condition(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Conditions {
		if c == known {
			return c, true
		}
	}
	return "", false
}

type Seller struct {
	Name  string `json:"name" bson:"name"`
	Phone string `json:"phone" bson:"phone"`
}

type Item struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Description   string       `json:"description"`
	Price         float64      `json:"price"`
	OriginalPrice null.Float64 `json:"originalPrice"`
	Condition     Condition    `json:"condition"`
	Location      string       `json:"location"`
	Category      string       `json:"category"`
	Images        []Image      `json:"images"`
	Seller        Seller       `json:"seller"`
	Rating        null.Float64 `json:"rating"`
	ReviewCount   int          `json:"reviewCount"`
	Liked         bool         `json:"liked"`
	IsActive      bool         `json:"isActive"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

// NewItem returns an active, unliked item with no id; the store assigns the id and timestamps.
func NewItem(name, description string, price float64, condition Condition, location, category string, seller Seller) *Item {
	return &Item{
		Name:        name,
		Description: description,
		Price:       price,
		Condition:   condition,
		Location:    location,
		Category:    category,
		Seller:      seller,
		Images:      make([]Image, 0),
		IsActive:    true,
	}
}

type SortOrder string

const (
	SortNewest    SortOrder = "newest"
	SortOldest    SortOrder = "oldest"
	SortPriceLow  SortOrder = "price-low"
	SortPriceHigh SortOrder = "price-high"
	SortRating    SortOrder = "rating"
)

// ParseSortOrder falls back to SortNewest for anything it doesn't know.
func ParseSortOrder(s string) SortOrder {
	switch o := SortOrder(strings.TrimSpace(s)); o {
	case SortNewest, SortOldest, SortPriceLow, SortPriceHigh, SortRating:
		return o
	default:
		return SortNewest
	}
}

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// FilterAll is the sentinel value clients send for "no filter".
const FilterAll = "all"

type ItemFilter struct {
	Search    string
	Condition string
	Category  string
	Location  string
	MinPrice  null.Float64
	MaxPrice  null.Float64
	Sort      SortOrder
	Page      int
	Limit     int
}

// Skip is the number of matches before the requested page. It saturates at
// math.MaxInt instead of wrapping.
func (f ItemFilter) Skip() int {
	if f.Page <= 1 || f.Limit <= 0 {
		return 0
	}
	if f.Page-1 > math.MaxInt/f.Limit {
		return math.MaxInt
	}
	return (f.Page - 1) * f.Limit
}

// IsSet reports whether a categorical filter value should be applied.
func IsSet(value string) bool {
	return value != "" && value != FilterAll
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

func NewPagination(page, limit int, total int64) Pagination {
	p := Pagination{Page: page, Limit: limit, Total: total}
	if limit > 0 {
		p.TotalPages = (total + int64(limit) - 1) / int64(limit)
	}
	return p
}
