package dbHelpers

import (
	"context"
	"time"

	"github.com/RemoteState/secondlife-server/models"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// LoggingStore logs every store call with its latency. Missing items are not treated as failures.
type LoggingStore struct {
	ItemStore
}

func logCall(op string, t0 time.Time, err error, fields logrus.Fields) {
	entry := logrus.WithFields(fields).WithFields(logrus.Fields{
		"store": op,
		"delay": time.Since(t0).String(),
	})

	switch {
	case err == nil:
		entry.Debug("store call done")
	case errors.Is(err, models.ErrItemNotFound):
		entry.Debug("item not found")
	default:
		entry.WithError(err).Error("store call failed")
	}
}

func (ls *LoggingStore) ListItems(ctx context.Context, filter models.ItemFilter) (items []models.Item, total int64, err error) {
	defer func(t0 time.Time) {
		logCall("ListItems", t0, err, logrus.Fields{
			"page":  filter.Page,
			"limit": filter.Limit,
			"sort":  filter.Sort,
			"total": total,
		})
	}(time.Now())

	return ls.ItemStore.ListItems(ctx, filter)
}

func (ls *LoggingStore) GetItemByID(ctx context.Context, id string) (item *models.Item, err error) {
	defer func(t0 time.Time) {
		logCall("GetItemByID", t0, err, logrus.Fields{"item_id": id})
	}(time.Now())

	return ls.ItemStore.GetItemByID(ctx, id)
}

func (ls *LoggingStore) InsertItem(ctx context.Context, item *models.Item) (err error) {
	defer func(t0 time.Time) {
		logCall("InsertItem", t0, err, logrus.Fields{"item_id": item.ID, "images": len(item.Images)})
	}(time.Now())

	return ls.ItemStore.InsertItem(ctx, item)
}

func (ls *LoggingStore) ToggleLike(ctx context.Context, id string) (liked bool, err error) {
	defer func(t0 time.Time) {
		logCall("ToggleLike", t0, err, logrus.Fields{"item_id": id, "liked": liked})
	}(time.Now())

	return ls.ItemStore.ToggleLike(ctx, id)
}

func (ls *LoggingStore) ArchiveItem(ctx context.Context, id string) (err error) {
	defer func(t0 time.Time) {
		logCall("ArchiveItem", t0, err, logrus.Fields{"item_id": id})
	}(time.Now())

	return ls.ItemStore.ArchiveItem(ctx, id)
}

func (ls *LoggingStore) FilterOptions(ctx context.Context) (options *models.FilterOptions, err error) {
	defer func(t0 time.Time) {
		logCall("FilterOptions", t0, err, nil)
	}(time.Now())

	return ls.ItemStore.FilterOptions(ctx)
}

func (ls *LoggingStore) Stats(ctx context.Context) (stats *models.Stats, err error) {
	defer func(t0 time.Time) {
		logCall("Stats", t0, err, nil)
	}(time.Now())

	return ls.ItemStore.Stats(ctx)
}
