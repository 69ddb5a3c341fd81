// Package cache holds the authoritative in-memory asset collection for one
// site. It is the single source of truth for rendering, filtering and
// selection; every mutation of tracked assets goes through it, and it is the
// only place local preview resources get released.
package cache

import (
	"sync"

	"github.com/monumenta/mediasync/metrics"
	"github.com/monumenta/mediasync/shared/domain"
)

type Cache struct {
	mu     sync.RWMutex
	assets map[domain.AssetId]*domain.Asset
	order  []domain.AssetId
}

func New() *Cache {
	return &Cache{assets: make(map[domain.AssetId]*domain.Asset)}
}

// Upsert inserts or replaces an asset by id, last writer wins. Replacing an
// entry releases its local preview when the new entry carries a different
// handle (typically none, once the server preview takes over).
func (c *Cache) Upsert(a *domain.Asset) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.put(a.Id, a)
	metrics.AssetsCached.Set(float64(len(c.assets)))
}

// Supersede replaces the entry stored under oldId with an asset whose id has
// changed, keeping the original slot in display order. This is how a
// provisional local-id upload becomes its server-confirmed record. A missing
// oldId degrades to a plain upsert.
func (c *Cache) Supersede(oldId domain.AssetId, a *domain.Asset) {
	c.mu.Lock()
	defer c.mu.Unlock()

	old, ok := c.assets[oldId]
	if !ok || oldId == a.Id {
		c.put(a.Id, a)
		metrics.AssetsCached.Set(float64(len(c.assets)))
		return
	}

	releaseIfSuperseded(old, a)
	delete(c.assets, oldId)
	if displaced, exists := c.assets[a.Id]; exists {
		// The confirmed id is already tracked (a completion landing after a
		// refresh, or server-side dedup). Keep its slot and drop the
		// provisional one so no id appears twice.
		releaseIfSuperseded(displaced, a)
		c.dropOrder(oldId)
	} else {
		for i, id := range c.order {
			if id == oldId {
				c.order[i] = a.Id
				break
			}
		}
	}
	c.assets[a.Id] = sanitize(a)
	metrics.AssetsCached.Set(float64(len(c.assets)))
}

// Remove deletes an asset and releases its local preview. Reports whether
// the id was present.
func (c *Cache) Remove(id domain.AssetId) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	a, ok := c.assets[id]
	if !ok {
		return false
	}
	if a.Preview != nil {
		a.Preview.Release()
	}
	delete(c.assets, id)
	c.dropOrder(id)
	metrics.AssetsCached.Set(float64(len(c.assets)))
	return true
}

func (c *Cache) dropOrder(id domain.AssetId) {
	for i, got := range c.order {
		if got == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

// ReplaceAll swaps the whole collection for a fresh hydration from the
// gateway. Previews of dropped entries are released; a handle carried over
// into the new set stays live.
func (c *Cache) ReplaceAll(assets []*domain.Asset) {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := make(map[domain.Releaser]struct{})
	for _, a := range assets {
		if a.Preview != nil {
			kept[a.Preview] = struct{}{}
		}
	}
	for _, old := range c.assets {
		if old.Preview != nil {
			if _, ok := kept[old.Preview]; !ok {
				old.Preview.Release()
			}
		}
	}

	c.assets = make(map[domain.AssetId]*domain.Asset, len(assets))
	c.order = c.order[:0]
	for _, a := range assets {
		c.put(a.Id, a)
	}
	metrics.AssetsCached.Set(float64(len(c.assets)))
}

// Snapshot returns the tracked assets in insertion order. The result is a
// fresh slice; the pointed-to assets are shared and must be treated as
// read-only, mutations go through Upsert.
func (c *Cache) Snapshot() []*domain.Asset {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]*domain.Asset, 0, len(c.order))
	for _, id := range c.order {
		result = append(result, c.assets[id])
	}
	return result
}

func (c *Cache) Get(id domain.AssetId) (*domain.Asset, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	a, ok := c.assets[id]
	return a, ok
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.assets)
}

// put stores under the lock, keeping order stable for replacements.
func (c *Cache) put(id domain.AssetId, a *domain.Asset) {
	if old, ok := c.assets[id]; ok {
		releaseIfSuperseded(old, a)
	} else {
		c.order = append(c.order, id)
	}
	c.assets[id] = sanitize(a)
}

func releaseIfSuperseded(old, next *domain.Asset) {
	if old.Preview != nil && old.Preview != next.Preview {
		old.Preview.Release()
	}
}

// sanitize enforces the lifecycle/error pairing invariant at the cache
// boundary, whatever path produced the asset.
func sanitize(a *domain.Asset) *domain.Asset {
	switch {
	case a.State == domain.StateError && a.ErrorDetail == "":
		a.ErrorDetail = "unknown error"
	case a.State != domain.StateError && a.ErrorDetail != "":
		a.ErrorDetail = ""
	}
	return a
}
