package dbHelpers

import (
	"context"

	"github.com/RemoteState/secondlife-server/models"
)

// ItemStore is the catalog persistence contract shared by every backend.
// Lookups by an unknown or malformed id return models.ErrItemNotFound.
type ItemStore interface {
	// ListItems returns one page of active items matching the filter and the total match count.
	ListItems(ctx context.Context, filter models.ItemFilter) ([]models.Item, int64, error)
	// GetItemByID returns the item regardless of its active flag.
	GetItemByID(ctx context.Context, id string) (*models.Item, error)
	// InsertItem persists a new item, filling in its id and timestamps.
	InsertItem(ctx context.Context, item *models.Item) error
	// ToggleLike flips the liked flag and returns the new value.
	ToggleLike(ctx context.Context, id string) (bool, error)
	// ArchiveItem marks the item inactive.
	ArchiveItem(ctx context.Context, id string) error
	// FilterOptions returns distinct values over active items, without defaults applied.
	FilterOptions(ctx context.Context) (*models.FilterOptions, error)
	// Stats aggregates over active items.
	Stats(ctx context.Context) (*models.Stats, error)
	Ping(ctx context.Context) error
	Name() string
}
