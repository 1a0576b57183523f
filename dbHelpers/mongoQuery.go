package dbHelpers

import (
	"regexp"
	"strings"

	"github.com/RemoteState/secondlife-server/models"
	"go.mongodb.org/mongo-driver/bson"
)

var activeOnly = bson.M{"isActive": true}

// buildItemsQuery is the document store counterpart of buildItemsFilter.
func buildItemsQuery(filter models.ItemFilter) bson.M {
	query := bson.M{"isActive": true}

	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := regexp.QuoteMeta(search)
		query["$or"] = bson.A{
			bson.M{"name": bson.M{"$regex": pattern, "$options": "i"}},
			bson.M{"description": bson.M{"$regex": pattern, "$options": "i"}},
			bson.M{"location": bson.M{"$regex": pattern, "$options": "i"}},
		}
	}
	if models.IsSet(filter.Condition) {
		query["condition"] = strings.ToLower(filter.Condition)
	}
	if models.IsSet(filter.Category) {
		query["category"] = filter.Category
	}
	if models.IsSet(filter.Location) {
		query["location"] = filter.Location
	}
	if filter.MinPrice.Valid {
		query["price"] = bson.M{"$gte": filter.MinPrice.Float64}
	}
	if filter.MaxPrice.Valid {
		if existing, ok := query["price"].(bson.M); ok {
			existing["$lte"] = filter.MaxPrice.Float64
		} else {
			query["price"] = bson.M{"$lte": filter.MaxPrice.Float64}
		}
	}
	return query
}

func itemsSort(sort models.SortOrder) bson.D {
	switch sort {
	case models.SortOldest:
		return bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}
	case models.SortPriceLow:
		return bson.D{{Key: "price", Value: 1}, {Key: "_id", Value: 1}}
	case models.SortPriceHigh:
		return bson.D{{Key: "price", Value: -1}, {Key: "_id", Value: 1}}
	case models.SortRating:
		return bson.D{{Key: "rating", Value: -1}, {Key: "_id", Value: 1}}
	default:
		return bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}}
	}
}
