package dbHelpers

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/RemoteState/secondlife-server/models"
	"github.com/pkg/errors"
	"github.com/volatiletech/null"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"
)

// MongoStore keeps each item as a single document with its images embedded.
type MongoStore struct {
	collection *mongo.Collection
}

func NewMongoStore(collection *mongo.Collection) *MongoStore {
	return &MongoStore{collection: collection}
}

type itemDocument struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Name          string             `bson:"name"`
	Description   string             `bson:"description"`
	Price         float64            `bson:"price"`
	OriginalPrice *float64           `bson:"originalPrice,omitempty"`
	Condition     string             `bson:"condition"`
	Location      string             `bson:"location"`
	Category      string             `bson:"category"`
	Images        []models.Image     `bson:"images"`
	Seller        models.Seller      `bson:"seller"`
	Rating        *float64           `bson:"rating,omitempty"`
	ReviewCount   int                `bson:"reviewCount"`
	Liked         bool               `bson:"liked"`
	IsActive      bool               `bson:"isActive"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
}

func newItemDocument(item *models.Item) itemDocument {
	images := item.Images
	if images == nil {
		images = make([]models.Image, 0)
	}
	return itemDocument{
		Name:          item.Name,
		Description:   item.Description,
		Price:         item.Price,
		OriginalPrice: item.OriginalPrice.Ptr(),
		Condition:     string(item.Condition),
		Location:      item.Location,
		Category:      item.Category,
		Images:        images,
		Seller:        item.Seller,
		Rating:        item.Rating.Ptr(),
		ReviewCount:   item.ReviewCount,
		Liked:         item.Liked,
		IsActive:      item.IsActive,
	}
}

func (d itemDocument) toItem() models.Item {
	images := d.Images
	if images == nil {
		images = make([]models.Image, 0)
	}
	return models.Item{
		ID:            d.ID.Hex(),
		Name:          d.Name,
		Description:   d.Description,
		Price:         d.Price,
		OriginalPrice: null.Float64FromPtr(d.OriginalPrice),
		Condition:     models.Condition(d.Condition),
		Location:      d.Location,
		Category:      d.Category,
		Images:        images,
		Seller:        d.Seller,
		Rating:        null.Float64FromPtr(d.Rating),
		ReviewCount:   d.ReviewCount,
		Liked:         d.Liked,
		IsActive:      d.IsActive,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

func (s *MongoStore) Name() string {
	return "mongo"
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.collection.Database().Client().Ping(ctx, nil)
}

func (s *MongoStore) ListItems(ctx context.Context, filter models.ItemFilter) ([]models.Item, int64, error) {
	query := buildItemsQuery(filter)

	total, err := s.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to count items")
	}

	opts := options.Find().
		SetSort(itemsSort(filter.Sort)).
		SetSkip(int64(filter.Skip())).
		SetLimit(int64(filter.Limit))
	cursor, err := s.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to find items")
	}
	defer cursor.Close(ctx)

	items := make([]models.Item, 0, filter.Limit)
	for cursor.Next(ctx) {
		var doc itemDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, 0, errors.Wrap(err, "failed to decode item")
		}
		items = append(items, doc.toItem())
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, errors.Wrap(err, "failed to iterate items")
	}
	return items, total, nil
}

func (s *MongoStore) GetItemByID(ctx context.Context, id string) (*models.Item, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.ErrItemNotFound
	}

	var doc itemDocument
	if err := s.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrItemNotFound
		}
		return nil, errors.Wrapf(err, "failed to get item %s", id)
	}

	item := doc.toItem()
	return &item, nil
}

func (s *MongoStore) InsertItem(ctx context.Context, item *models.Item) error {
	now := time.Now().UTC()
	doc := newItemDocument(item)
	doc.ID = primitive.NewObjectID()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	if _, err := s.collection.InsertOne(ctx, doc); err != nil {
		return errors.Wrap(err, "failed to insert item")
	}

	item.ID = doc.ID.Hex()
	item.CreatedAt = now
	item.UpdatedAt = now
	return nil
}

// ToggleLike negates the stored flag server side with an update pipeline.
func (s *MongoStore) ToggleLike(ctx context.Context, id string) (bool, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, models.ErrItemNotFound
	}

	update := bson.A{
		bson.M{"$set": bson.M{
			"liked":     bson.M{"$not": bson.A{"$liked"}},
			"updatedAt": time.Now().UTC(),
		}},
	}
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"liked": 1})

	var doc struct {
		Liked bool `bson:"liked"`
	}
	err = s.collection.FindOneAndUpdate(ctx, bson.M{"_id": objectID}, update, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, models.ErrItemNotFound
		}
		return false, errors.Wrapf(err, "failed to toggle like for item %s", id)
	}
	return doc.Liked, nil
}

func (s *MongoStore) ArchiveItem(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.ErrItemNotFound
	}

	update := bson.M{"$set": bson.M{"isActive": false, "updatedAt": time.Now().UTC()}}
	result, err := s.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return errors.Wrapf(err, "failed to archive item %s", id)
	}
	if result.MatchedCount == 0 {
		return models.ErrItemNotFound
	}
	return nil
}

func (s *MongoStore) distinctActive(ctx context.Context, field string) ([]string, error) {
	raw, err := s.collection.Distinct(ctx, field, activeOnly)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get distinct %s", field)
	}

	values := make([]string, 0, len(raw))
	for _, v := range raw {
		if str, ok := v.(string); ok {
			values = append(values, str)
		} else {
			values = append(values, fmt.Sprint(v))
		}
	}
	sort.Strings(values)
	return values, nil
}

func (s *MongoStore) priceRange(ctx context.Context) (*models.PriceRange, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: activeOnly}},
		{{Key: "$group", Value: bson.M{
			"_id": nil,
			"min": bson.M{"$min": "$price"},
			"max": bson.M{"$max": "$price"},
		}}},
	}

	var ranges []models.PriceRange
	if err := s.aggregate(ctx, pipeline, &ranges); err != nil {
		return nil, errors.Wrap(err, "failed to get price range")
	}
	if len(ranges) == 0 {
		return nil, nil
	}
	return &ranges[0], nil
}

func (s *MongoStore) FilterOptions(ctx context.Context) (*models.FilterOptions, error) {
	var filterOptions models.FilterOptions
	egp, egCtx := errgroup.WithContext(ctx)

	egp.Go(func() error {
		var err error
		filterOptions.Categories, err = s.distinctActive(egCtx, "category")
		return err
	})
	egp.Go(func() error {
		var err error
		filterOptions.Conditions, err = s.distinctActive(egCtx, "condition")
		return err
	})
	egp.Go(func() error {
		var err error
		filterOptions.Locations, err = s.distinctActive(egCtx, "location")
		return err
	})
	egp.Go(func() error {
		var err error
		filterOptions.PriceRange, err = s.priceRange(egCtx)
		return err
	})

	if err := egp.Wait(); err != nil {
		return nil, err
	}
	return &filterOptions, nil
}

func (s *MongoStore) Stats(ctx context.Context) (*models.Stats, error) {
	totals := mongo.Pipeline{
		{{Key: "$match", Value: activeOnly}},
		{{Key: "$group", Value: bson.M{
			"_id":          nil,
			"totalItems":   bson.M{"$sum": 1},
			"averagePrice": bson.M{"$avg": "$price"},
			"totalValue":   bson.M{"$sum": "$price"},
			"likedItems":   bson.M{"$sum": bson.M{"$cond": bson.A{"$liked", 1, 0}}},
		}}},
	}

	var rows []models.Stats
	if err := s.aggregate(ctx, totals, &rows); err != nil {
		return nil, errors.Wrap(err, "failed to get item stats")
	}
	stats := models.Stats{}
	if len(rows) > 0 {
		stats = rows[0]
	}

	breakdown := mongo.Pipeline{
		{{Key: "$match", Value: activeOnly}},
		{{Key: "$group", Value: bson.M{
			"_id":          "$category",
			"count":        bson.M{"$sum": 1},
			"averagePrice": bson.M{"$avg": "$price"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
	}

	stats.CategoryBreakdown = make([]models.CategoryStat, 0)
	if err := s.aggregate(ctx, breakdown, &stats.CategoryBreakdown); err != nil {
		return nil, errors.Wrap(err, "failed to get category breakdown")
	}
	return &stats, nil
}

func (s *MongoStore) aggregate(ctx context.Context, pipeline mongo.Pipeline, results interface{}) error {
	cursor, err := s.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	return cursor.All(ctx, results)
}
