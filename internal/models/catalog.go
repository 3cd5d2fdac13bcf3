package models

import (
	"sync"
	"time"
)

// Catalog is the mutable per-category document store. All counter
// mutations happen under a single lock so like/unlike are atomic
// conditional updates, never check-then-toggle.
type Catalog struct {
	mu    sync.RWMutex
	items map[string]*MediaItem
}

func NewCatalog() *Catalog {
	return &Catalog{items: make(map[string]*MediaItem)}
}

func (c *Catalog) Get(id string) (*MediaItem, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	item, ok := c.items[id]
	if !ok {
		return nil, false
	}
	return item.Clone(), true
}

func (c *Catalog) Put(item *MediaItem) {
	if item == nil || item.ID == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := item.Clone()
	if cp.Likes == nil {
		cp.Likes = make(map[string]struct{})
	}
	c.items[cp.ID] = cp
}

func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Stats returns the scorer projection of every item created at or after
// since. A zero since means the full catalog.
func (c *Catalog) Stats(since time.Time) []ItemStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]ItemStats, 0, len(c.items))
	for _, item := range c.items {
		if !since.IsZero() && item.CreatedAt.Before(since) {
			continue
		}
		result = append(result, ItemStats{
			ID:        item.ID,
			CreatedAt: item.CreatedAt,
			Counts:    item.Counts(),
		})
	}
	return result
}

func (c *Catalog) IncView(id string) (CountSet, bool) {
	return c.inc(id, func(item *MediaItem) { item.Views++ })
}

func (c *Catalog) IncDownload(id string) (CountSet, bool) {
	return c.inc(id, func(item *MediaItem) { item.Downloads++ })
}

func (c *Catalog) IncShare(id string) (CountSet, bool) {
	return c.inc(id, func(item *MediaItem) { item.Shares++ })
}

func (c *Catalog) inc(id string, mutate func(*MediaItem)) (CountSet, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	item, ok := c.items[id]
	if !ok {
		return CountSet{}, false
	}
	mutate(item)
	return item.Counts(), true
}

// Like adds userID to the like set. changed is false when the user had
// already liked the item. An empty userID never enters the set.
func (c *Catalog) Like(id, userID string) (counts CountSet, changed, found bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	item, ok := c.items[id]
	if !ok {
		return CountSet{}, false, false
	}
	if _, liked := item.Likes[userID]; userID != "" && !liked {
		item.Likes[userID] = struct{}{}
		changed = true
	}
	return item.Counts(), changed, true
}

// Unlike removes userID from the like set. Removing an absent member is
// a no-op, not an error.
func (c *Catalog) Unlike(id, userID string) (counts CountSet, changed, found bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	item, ok := c.items[id]
	if !ok {
		return CountSet{}, false, false
	}
	if _, liked := item.Likes[userID]; liked {
		delete(item.Likes, userID)
		changed = true
	}
	return item.Counts(), changed, true
}

func (c *Catalog) PutData(items map[string]*MediaItem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*MediaItem, len(items))
	for id, item := range items {
		if id == "" || item == nil {
			continue
		}
		cp := item.Clone()
		if cp.Likes == nil {
			cp.Likes = make(map[string]struct{})
		}
		c.items[id] = cp
	}
}

func (c *Catalog) GetData() map[string]*MediaItem {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make(map[string]*MediaItem, len(c.items))
	for id, item := range c.items {
		result[id] = item.Clone()
	}
	return result
}
