package cache

import (
	"context"
	"log"
	"sync"

	"github.com/pozmatch/backend/internal/domain"
)

// CatalogCache holds the in-memory catalog snapshot the matching path reads
// on every request. Reload replaces the snapshot wholesale under the write
// lock; readers get the current slice and never see a partially updated
// catalog, because a snapshot slice is never mutated after the swap.
type CatalogCache struct {
	store domain.CatalogStore

	mutex sync.RWMutex
	items []domain.CatalogItem
}

// NewCatalogCache creates a catalog cache over the given store (normally
// the primary/secondary fallback chain). The cache starts empty; callers
// trigger the first Reload at startup or lazily on first match.
func NewCatalogCache(store domain.CatalogStore) *CatalogCache {
	return &CatalogCache{store: store}
}

// Reload fetches the full catalog and atomically replaces the snapshot,
// returning the new item count. On failure the previous snapshot is left
// untouched: a store outage must never empty a populated cache.
func (c *CatalogCache) Reload(ctx context.Context) (int, error) {
	items, err := c.store.ListItems(ctx)
	if err != nil {
		log.Printf("[CACHE] catalog reload failed, keeping %d cached items: %v", c.Size(), err)
		return 0, err
	}

	c.mutex.Lock()
	c.items = items
	c.mutex.Unlock()

	log.Printf("[CACHE] catalog reloaded with %d items", len(items))
	return len(items), nil
}

// Snapshot returns the current catalog snapshot without blocking on I/O.
// The returned slice must be treated as read-only.
func (c *CatalogCache) Snapshot() []domain.CatalogItem {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.items
}

// Size returns the current number of cached items (for monitoring)
func (c *CatalogCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.items)
}
