// Package cache provides the in-process L1 cache of assembled context
// bundles, keyed by normalized query plus configuration signature.
package cache

import (
	"container/list"
	"sync"
	"time"

	"github.com/evidentic/ragcore/schema"
)

// Bundles is a TTL-bounded LRU of assembled context bundles.
type Bundles interface {
	Get(key string) (schema.ContextBundle, bool)
	Set(key string, bundle schema.ContextBundle, ttl time.Duration)
	Purge()
}

type entry struct {
	key     string
	bundle  schema.ContextBundle
	expires time.Time
	element *list.Element
}

type bundleCache struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	items    map[string]*entry
	order    *list.List
}

// NewBundles creates a bundle cache with capacity and default TTL.
func NewBundles(capacity int, ttl time.Duration) Bundles {
	if capacity <= 0 {
		capacity = 512
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &bundleCache{
		capacity: capacity,
		ttl:      ttl,
		items:    make(map[string]*entry, capacity),
		order:    list.New(),
	}
}

func (c *bundleCache) Get(key string) (schema.ContextBundle, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.items[key]; ok {
		if ent.expires.IsZero() || time.Now().Before(ent.expires) {
			c.order.MoveToFront(ent.element)
			return ent.bundle, true
		}
		c.removeEntry(ent)
	}
	return schema.ContextBundle{}, false
}

func (c *bundleCache) Set(key string, bundle schema.ContextBundle, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.items[key]; ok {
		ent.bundle = bundle
		ent.expires = c.computeExpiry(ttl)
		c.order.MoveToFront(ent.element)
		return
	}

	if len(c.items) >= c.capacity {
		c.evictOldest()
	}

	elem := c.order.PushFront(key)
	c.items[key] = &entry{
		key:     key,
		bundle:  bundle,
		expires: c.computeExpiry(ttl),
		element: elem,
	}
}

func (c *bundleCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*entry, c.capacity)
	c.order.Init()
}

func (c *bundleCache) computeExpiry(ttl time.Duration) time.Time {
	if ttl <= 0 {
		ttl = c.ttl
	}
	if ttl <= 0 {
		return time.Time{}
	}
	return time.Now().Add(ttl)
}

func (c *bundleCache) evictOldest() {
	elem := c.order.Back()
	if elem == nil {
		return
	}
	key := elem.Value.(string)
	if ent, ok := c.items[key]; ok {
		c.removeEntry(ent)
	}
}

func (c *bundleCache) removeEntry(ent *entry) {
	if ent.element != nil {
		c.order.Remove(ent.element)
	}
	delete(c.items, ent.key)
}
