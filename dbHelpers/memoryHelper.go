package dbHelpers

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/RemoteState/secondlife-server/models"
	"github.com/google/uuid"
)

// MemoryStore keeps items in process. Used for local runs and tests; nothing survives a restart.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]*models.Item
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make(map[string]*models.Item),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStore) Name() string {
	return "memory"
}

func (s *MemoryStore) Ping(context.Context) error {
	return nil
}

func matchesFilter(item *models.Item, filter models.ItemFilter) bool {
	if !item.IsActive {
		return false
	}
	if search := strings.ToLower(strings.TrimSpace(filter.Search)); search != "" {
		if !strings.Contains(strings.ToLower(item.Name), search) &&
			!strings.Contains(strings.ToLower(item.Description), search) &&
			!strings.Contains(strings.ToLower(item.Location), search) {
			return false
		}
	}
	if models.IsSet(filter.Condition) && string(item.Condition) != strings.ToLower(filter.Condition) {
		return false
	}
	if models.IsSet(filter.Category) && item.Category != filter.Category {
		return false
	}
	if models.IsSet(filter.Location) && item.Location != filter.Location {
		return false
	}
	if filter.MinPrice.Valid && item.Price < filter.MinPrice.Float64 {
		return false
	}
	if filter.MaxPrice.Valid && item.Price > filter.MaxPrice.Float64 {
		return false
	}
	return true
}

func itemLess(sortOrder models.SortOrder) func(a, b *models.Item) bool {
	switch sortOrder {
	case models.SortOldest:
		return func(a, b *models.Item) bool {
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
			return a.ID < b.ID
		}
	case models.SortPriceLow:
		return func(a, b *models.Item) bool {
			if a.Price != b.Price {
				return a.Price < b.Price
			}
			return a.ID < b.ID
		}
	case models.SortPriceHigh:
		return func(a, b *models.Item) bool {
			if a.Price != b.Price {
				return a.Price > b.Price
			}
			return a.ID < b.ID
		}
	case models.SortRating:
		return func(a, b *models.Item) bool {
			if a.Rating.Valid != b.Rating.Valid {
				return a.Rating.Valid
			}
			if a.Rating.Float64 != b.Rating.Float64 {
				return a.Rating.Float64 > b.Rating.Float64
			}
			return a.ID < b.ID
		}
	default:
		return func(a, b *models.Item) bool {
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
			return a.ID < b.ID
		}
	}
}

// cloneItem keeps callers from mutating stored state through shared slices.
func cloneItem(item *models.Item) models.Item {
	c := *item
	c.Images = append(make([]models.Image, 0, len(item.Images)), item.Images...)
	return c
}

func (s *MemoryStore) ListItems(_ context.Context, filter models.ItemFilter) ([]models.Item, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*models.Item, 0)
	for _, item := range s.items {
		if matchesFilter(item, filter) {
			matched = append(matched, item)
		}
	}
	less := itemLess(filter.Sort)
	sort.Slice(matched, func(i, j int) bool { return less(matched[i], matched[j]) })

	total := int64(len(matched))
	start := filter.Skip()
	if start < 0 || start > len(matched) {
		start = len(matched)
	}
	end := start + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}

	items := make([]models.Item, 0, end-start)
	for _, item := range matched[start:end] {
		items = append(items, cloneItem(item))
	}
	return items, total, nil
}

func (s *MemoryStore) GetItemByID(_ context.Context, id string) (*models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		return nil, models.ErrItemNotFound
	}
	c := cloneItem(item)
	return &c, nil
}

func (s *MemoryStore) InsertItem(_ context.Context, item *models.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	item.ID = uuid.New().String()
	item.CreatedAt = now
	item.UpdatedAt = now
	if item.Images == nil {
		item.Images = make([]models.Image, 0)
	}

	stored := cloneItem(item)
	s.items[item.ID] = &stored
	return nil
}

func (s *MemoryStore) ToggleLike(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return false, models.ErrItemNotFound
	}
	item.Liked = !item.Liked
	item.UpdatedAt = s.now()
	return item.Liked, nil
}

func (s *MemoryStore) ArchiveItem(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return models.ErrItemNotFound
	}
	item.IsActive = false
	item.UpdatedAt = s.now()
	return nil
}

func (s *MemoryStore) FilterOptions(context.Context) (*models.FilterOptions, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	categories := make(map[string]struct{})
	conditions := make(map[string]struct{})
	locations := make(map[string]struct{})
	var priceRange *models.PriceRange

	for _, item := range s.items {
		if !item.IsActive {
			continue
		}
		categories[item.Category] = struct{}{}
		conditions[string(item.Condition)] = struct{}{}
		locations[item.Location] = struct{}{}

		if priceRange == nil {
			priceRange = &models.PriceRange{Min: item.Price, Max: item.Price}
			continue
		}
		if item.Price < priceRange.Min {
			priceRange.Min = item.Price
		}
		if item.Price > priceRange.Max {
			priceRange.Max = item.Price
		}
	}

	return &models.FilterOptions{
		Categories: sortedKeys(categories),
		Conditions: sortedKeys(conditions),
		Locations:  sortedKeys(locations),
		PriceRange: priceRange,
	}, nil
}

func (s *MemoryStore) Stats(context.Context) (*models.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type bucket struct {
		count int64
		sum   float64
	}
	var stats models.Stats
	byCategory := make(map[string]*bucket)

	for _, item := range s.items {
		if !item.IsActive {
			continue
		}
		stats.TotalItems++
		stats.TotalValue += item.Price
		if item.Liked {
			stats.LikedItems++
		}

		b, ok := byCategory[item.Category]
		if !ok {
			b = &bucket{}
			byCategory[item.Category] = b
		}
		b.count++
		b.sum += item.Price
	}
	if stats.TotalItems > 0 {
		stats.AveragePrice = stats.TotalValue / float64(stats.TotalItems)
	}

	stats.CategoryBreakdown = make([]models.CategoryStat, 0, len(byCategory))
	for category, b := range byCategory {
		stats.CategoryBreakdown = append(stats.CategoryBreakdown, models.CategoryStat{
			Category:     category,
			Count:        b.count,
			AveragePrice: b.sum / float64(b.count),
		})
	}
	sort.Slice(stats.CategoryBreakdown, func(i, j int) bool {
		a, b := stats.CategoryBreakdown[i], stats.CategoryBreakdown[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Category < b.Category
	})
	return &stats, nil
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
