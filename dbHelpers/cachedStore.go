package dbHelpers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/RemoteState/secondlife-server/models"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	filterOptionsCacheKey = "secondlife:items:filters"
	statsCacheKey         = "secondlife:items:stats"
	generationCacheKey    = "secondlife:items:generation"
)

// Cache is the subset of redis commands the cached store needs.
type Cache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
}

// CachedStore serves FilterOptions and Stats from redis. Entries are keyed by a generation
// counter that every write bumps, so a value computed before a write is stored under a key
// no reader asks for anymore and simply expires after TTL.
// Redis failures are logged and never returned; the wrapped store is the source of truth.
type CachedStore struct {
	ItemStore

	Cache Cache
	TTL   time.Duration
}

func (cs *CachedStore) FilterOptions(ctx context.Context) (*models.FilterOptions, error) {
	gen, ok := cs.generation(ctx)
	if !ok {
		return cs.ItemStore.FilterOptions(ctx)
	}

	var options models.FilterOptions
	if cs.get(ctx, cacheKey(filterOptionsCacheKey, gen), &options) {
		return &options, nil
	}

	fresh, err := cs.ItemStore.FilterOptions(ctx)
	if err != nil {
		return nil, err
	}
	cs.set(ctx, cacheKey(filterOptionsCacheKey, gen), fresh)
	return fresh, nil
}

func (cs *CachedStore) Stats(ctx context.Context) (*models.Stats, error) {
	gen, ok := cs.generation(ctx)
	if !ok {
		return cs.ItemStore.Stats(ctx)
	}

	var stats models.Stats
	if cs.get(ctx, cacheKey(statsCacheKey, gen), &stats) {
		return &stats, nil
	}

	fresh, err := cs.ItemStore.Stats(ctx)
	if err != nil {
		return nil, err
	}
	cs.set(ctx, cacheKey(statsCacheKey, gen), fresh)
	return fresh, nil
}

func (cs *CachedStore) InsertItem(ctx context.Context, item *models.Item) error {
	if err := cs.ItemStore.InsertItem(ctx, item); err != nil {
		return err
	}
	cs.invalidate(ctx)
	return nil
}

func (cs *CachedStore) ToggleLike(ctx context.Context, id string) (bool, error) {
	liked, err := cs.ItemStore.ToggleLike(ctx, id)
	if err != nil {
		return false, err
	}
	cs.invalidate(ctx)
	return liked, nil
}

func (cs *CachedStore) ArchiveItem(ctx context.Context, id string) error {
	if err := cs.ItemStore.ArchiveItem(ctx, id); err != nil {
		return err
	}
	cs.invalidate(ctx)
	return nil
}

// Refresh recomputes both aggregates from the wrapped store and overwrites the cached copies
// of the generation current when it started.
func (cs *CachedStore) Refresh(ctx context.Context) error {
	gen, ok := cs.generation(ctx)
	if !ok {
		return errors.New("cache generation is unavailable")
	}

	options, err := cs.ItemStore.FilterOptions(ctx)
	if err != nil {
		return err
	}
	stats, err := cs.ItemStore.Stats(ctx)
	if err != nil {
		return err
	}

	cs.set(ctx, cacheKey(filterOptionsCacheKey, gen), options)
	cs.set(ctx, cacheKey(statsCacheKey, gen), stats)
	return nil
}

func cacheKey(key, gen string) string {
	return key + ":" + gen
}

// generation reads the current cache generation; false means redis can't be used right now.
func (cs *CachedStore) generation(ctx context.Context) (string, bool) {
	gen, err := cs.Cache.Get(ctx, generationCacheKey).Result()
	switch {
	case err == redis.Nil:
		return "0", true
	case err != nil:
		logrus.WithError(err).WithField("key", generationCacheKey).Error("can't get value from redis")
		return "", false
	}
	return gen, true
}

func (cs *CachedStore) get(ctx context.Context, key string, dest interface{}) bool {
	val, err := cs.Cache.Get(ctx, key).Bytes()
	switch {
	case err == redis.Nil:
		return false
	case err != nil:
		logrus.WithError(err).WithField("key", key).Error("can't get value from redis")
		return false
	}

	if err := json.Unmarshal(val, dest); err != nil {
		logrus.WithError(err).WithField("key", key).Error("can't decode cached value")
		return false
	}
	return true
}

func (cs *CachedStore) set(ctx context.Context, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		logrus.WithError(err).WithField("key", key).Error("can't encode value for cache")
		return
	}
	if err := cs.Cache.Set(ctx, key, data, cs.TTL).Err(); err != nil {
		logrus.WithError(err).WithField("key", key).Error("can't set value in redis")
	}
}

func (cs *CachedStore) invalidate(ctx context.Context) {
	if err := cs.Cache.Incr(ctx, generationCacheKey).Err(); err != nil {
		logrus.WithError(err).Error("can't invalidate item cache")
	}
}
