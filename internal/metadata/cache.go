package metadata

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultTTL is how long a loaded document is served from memory.
const DefaultTTL = 5 * time.Minute

// Source is anything that can load a metadata document.
type Source interface {
	Load(ctx context.Context, location string) (*Document, error)
}

var (
	_ Source = (*Loader)(nil)
	_ Source = (*Cache)(nil)
)

type cached struct {
	doc *Document
	exp time.Time
}

// Cache keeps loaded documents for a TTL and collapses concurrent loads of
// the same location into one.  Failed loads are not cached.
type Cache struct {
	src Source
	ttl time.Duration
	now func() time.Time

	sfg singleflight.Group
	mu  sync.RWMutex
	m   map[string]cached
}

// NewCache wraps src.  ttl <= 0 selects DefaultTTL.
func NewCache(src Source, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{src: src, ttl: ttl, now: time.Now, m: map[string]cached{}}
}

// Load returns the cached document for location or loads it.
func (c *Cache) Load(ctx context.Context, location string) (*Document, error) {
	if doc, ok := c.lookup(location); ok {
		return doc, nil
	}

	v, err, _ := c.sfg.Do(location, func() (interface{}, error) {
		// Double-check after singleflight barrier.
		if doc, ok := c.lookup(location); ok {
			return doc, nil
		}
		// One caller's cancellation must not fail the others sharing this load.
		doc, err := c.src.Load(context.WithoutCancel(ctx), location)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.m[location] = cached{doc: doc, exp: c.now().Add(c.ttl)}
		c.mu.Unlock()
		return doc, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Document), nil
}

func (c *Cache) lookup(location string) (*Document, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.m[location]
	if !ok || !c.now().Before(e.exp) {
		return nil, false
	}
	return e.doc, true
}
