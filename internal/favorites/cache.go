// Package favorites caches the household's saved favorites. The cache is
// replaced wholesale on refresh; a failed refresh leaves it untouched.
package favorites

import (
	"context"
	"log"
	"sync"

	"github.com/mauriceverhoeven/zoneos/internal/apperrors"
	"github.com/mauriceverhoeven/zoneos/internal/sonos"
	"github.com/mauriceverhoeven/zoneos/internal/speakers"
)

// Cache holds the favorites list. Indexes handed to clients are 1-based
// and stable between refreshes.
type Cache struct {
	mu       sync.RWMutex
	registry *speakers.Registry
	items    []sonos.Favorite
}

func NewCache(registry *speakers.Registry) *Cache {
	return &Cache{registry: registry}
}

// Refresh re-queries favorites from any available speaker (favorites are
// shared household state, any member can enumerate them) and swaps the
// cache atomically. Returns the new count.
func (c *Cache) Refresh(ctx context.Context) (int, error) {
	player, err := c.registry.GetAny()
	if err != nil {
		return 0, err
	}

	items, err := player.Favorites(ctx)
	if err != nil {
		return 0, apperrors.NewPlaybackError("Failed to retrieve favorites", err)
	}

	c.mu.Lock()
	c.items = items
	c.mu.Unlock()

	log.Printf("refreshed %d favorites", len(items))
	return len(items), nil
}

// List returns the cached favorites, empty if never refreshed.
func (c *Cache) List() []sonos.Favorite {
	c.mu.RLock()
	defer c.mu.RUnlock()
	items := make([]sonos.Favorite, len(c.items))
	copy(items, c.items)
	return items
}

// GetByTitle returns the favorite with the exact, case-sensitive title.
func (c *Cache) GetByTitle(title string) (sonos.Favorite, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, item := range c.items {
		if item.Title == title {
			return item, nil
		}
	}
	return sonos.Favorite{}, apperrors.NewFavoriteNotFound(title)
}

// GetByIndex returns the favorite at the 1-based index.
func (c *Cache) GetByIndex(index int) (sonos.Favorite, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if index < 1 || index > len(c.items) {
		return sonos.Favorite{}, apperrors.NewInvalidIndex(index, len(c.items))
	}
	return c.items[index-1], nil
}

// Len returns the cached favorite count.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
