package dbHelpers

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/RemoteState/secondlife-server/models"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCache struct {
	mu     sync.Mutex
	values map[string]string
	ttls   map[string]time.Duration
	getErr error
	incrs  int
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (c *fakeCache) Get(ctx context.Context, key string) *redis.StringCmd {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.getErr != nil {
		return redis.NewStringResult("", c.getErr)
	}
	val, ok := c.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(val, nil)
}

func (c *fakeCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.values[key] = string(value.([]byte))
	c.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (c *fakeCache) Incr(ctx context.Context, key string) *redis.IntCmd {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, _ := strconv.ParseInt(c.values[key], 10, 64)
	n++
	c.values[key] = strconv.FormatInt(n, 10)
	c.incrs++
	return redis.NewIntResult(n, nil)
}

// countingStore counts aggregate calls reaching the backing store.
type countingStore struct {
	ItemStore
	statsCalls   int
	optionsCalls int
}

func (s *countingStore) Stats(ctx context.Context) (*models.Stats, error) {
	s.statsCalls++
	return s.ItemStore.Stats(ctx)
}

func (s *countingStore) FilterOptions(ctx context.Context) (*models.FilterOptions, error) {
	s.optionsCalls++
	return s.ItemStore.FilterOptions(ctx)
}

func TestCachedStore_ServesFromCache(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	backing := &countingStore{ItemStore: newTestMemoryStore(t)}
	cache := newFakeCache()
	cs := &CachedStore{ItemStore: backing, Cache: cache, TTL: time.Minute}

	insertItem(t, cs, "Phone", 2000, models.Good, "Electronics", "Nairobi")

	first, err := cs.Stats(ctx)
	require.NoError(t, err)
	second, err := cs.Stats(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, backing.statsCalls)
	assert.Equal(t, first, second)
	assert.Equal(t, time.Minute, cache.ttls[cacheKey(statsCacheKey, "1")])

	_, err = cs.FilterOptions(ctx)
	require.NoError(t, err)
	options, err := cs.FilterOptions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, backing.optionsCalls)
	assert.Equal(t, []string{"Electronics"}, options.Categories)
}

func TestCachedStore_WritesInvalidate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	backing := &countingStore{ItemStore: newTestMemoryStore(t)}
	cs := &CachedStore{ItemStore: backing, Cache: newFakeCache(), TTL: time.Minute}

	item := insertItem(t, cs, "Phone", 2000, models.Good, "Electronics", "Nairobi")

	stats, err := cs.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, stats.LikedItems)

	_, err = cs.ToggleLike(ctx, item.ID)
	require.NoError(t, err)
	stats, err = cs.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.LikedItems)

	require.NoError(t, cs.ArchiveItem(ctx, item.ID))
	stats, err = cs.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, stats.TotalItems)
	assert.Equal(t, 3, backing.statsCalls)
}

func TestCachedStore_FailedWriteKeepsCache(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	cache := newFakeCache()
	cs := &CachedStore{ItemStore: newTestMemoryStore(t), Cache: cache, TTL: time.Minute}

	_, err := cs.ToggleLike(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrItemNotFound)
	assert.Zero(t, cache.incrs)
}

func TestCachedStore_Refresh(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	backing := &countingStore{ItemStore: newTestMemoryStore(t)}
	cache := newFakeCache()
	cs := &CachedStore{ItemStore: backing, Cache: cache, TTL: time.Minute}

	require.NoError(t, cs.Refresh(ctx))
	assert.Contains(t, cache.values, cacheKey(statsCacheKey, "0"))
	assert.Contains(t, cache.values, cacheKey(filterOptionsCacheKey, "0"))

	_, err := cs.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, backing.statsCalls)
	assert.Equal(t, 1, backing.optionsCalls)
}

// writeDuringStats performs a write while the first Stats computation is in flight.
type writeDuringStats struct {
	ItemStore
	write func()
}

func (s *writeDuringStats) Stats(ctx context.Context) (*models.Stats, error) {
	stats, err := s.ItemStore.Stats(ctx)
	if s.write != nil {
		s.write()
		s.write = nil
	}
	return stats, err
}

func TestCachedStore_RefreshDoesNotHideConcurrentWrite(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	backing := &writeDuringStats{ItemStore: newTestMemoryStore(t)}
	cs := &CachedStore{ItemStore: backing, Cache: newFakeCache(), TTL: time.Minute}
	backing.write = func() {
		insertItem(t, cs, "Phone", 2000, models.Good, "Electronics", "Nairobi")
	}

	require.NoError(t, cs.Refresh(ctx))

	stats, err := cs.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.TotalItems)
	options, err := cs.FilterOptions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Electronics"}, options.Categories)
}

func TestCachedStore_RedisErrorFallsThrough(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	cache := newFakeCache()
	cache.getErr = assert.AnError
	backing := &countingStore{ItemStore: newTestMemoryStore(t)}
	cs := &CachedStore{ItemStore: backing, Cache: cache, TTL: time.Minute}

	_, err := cs.Stats(ctx)
	require.NoError(t, err)
	_, err = cs.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, backing.statsCalls)

	assert.Error(t, cs.Refresh(ctx))
	assert.Equal(t, 2, backing.statsCalls)
}
