package dbHelpers

import (
	"fmt"
	"strings"

	"github.com/RemoteState/secondlife-server/models"
)

// sqlFilter accumulates WHERE conditions with positional args.
type sqlFilter struct {
	conditions []string
	args       []interface{}
}

func (f *sqlFilter) arg(v interface{}) string {
	f.args = append(f.args, v)
	return fmt.Sprintf("$%d", len(f.args))
}

func (f *sqlFilter) where() string {
	return "WHERE " + strings.Join(f.conditions, " AND ")
}

// escapeLike makes user text match literally inside an ILIKE pattern.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// buildItemsFilter translates the listing filter into a WHERE clause over items.
// Only active items ever match.
func buildItemsFilter(filter models.ItemFilter) *sqlFilter {
	f := &sqlFilter{conditions: []string{"is_active = TRUE"}}

	if search := strings.TrimSpace(filter.Search); search != "" {
		p := f.arg("%" + escapeLike(search) + "%")
		f.conditions = append(f.conditions,
			fmt.Sprintf("(name ILIKE %[1]s OR description ILIKE %[1]s OR location ILIKE %[1]s)", p))
	}
	if models.IsSet(filter.Condition) {
		f.conditions = append(f.conditions, "condition = "+f.arg(strings.ToLower(filter.Condition)))
	}
	if models.IsSet(filter.Category) {
		f.conditions = append(f.conditions, "category = "+f.arg(filter.Category))
	}
	if models.IsSet(filter.Location) {
		f.conditions = append(f.conditions, "location = "+f.arg(filter.Location))
	}
	if filter.MinPrice.Valid {
		f.conditions = append(f.conditions, "price >= "+f.arg(filter.MinPrice.Float64))
	}
	if filter.MaxPrice.Valid {
		f.conditions = append(f.conditions, "price <= "+f.arg(filter.MaxPrice.Float64))
	}
	return f
}

func orderByClause(sort models.SortOrder) string {
	switch sort {
	case models.SortOldest:
		return "ORDER BY created_at ASC, id ASC"
	case models.SortPriceLow:
		return "ORDER BY price ASC, id ASC"
	case models.SortPriceHigh:
		return "ORDER BY price DESC, id ASC"
	case models.SortRating:
		return "ORDER BY rating DESC NULLS LAST, id ASC"
	default:
		return "ORDER BY created_at DESC, id ASC"
	}
}
