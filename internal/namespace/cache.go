package namespace

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cache holds resolved namespace handles keyed by namespace id.
//
// Concurrent GetOrCreate calls for one id share a single resolve. Each id
// carries a generation that Invalidate bumps; a resolve that began under an
// older generation returns its handle to its callers but never stores it.
type Cache struct {
	mu      sync.Mutex
	entries map[string]Handle
	gens    map[string]uint64
	group   singleflight.Group
}

// NewCache creates an empty handle cache.
func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]Handle),
		gens:    make(map[string]uint64),
	}
}

// Get returns the cached handle for id.
func (c *Cache) Get(id string) (Handle, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	h, ok := c.entries[id]
	return h, ok
}

// GetOrCreate returns the cached handle for id, resolving and storing it on a miss.
func (c *Cache) GetOrCreate(ctx context.Context, id string, resolve func(context.Context) (Handle, error)) (Handle, error) {
	if h, ok := c.Get(id); ok {
		return h, nil
	}

	v, err, _ := c.group.Do(id, func() (any, error) {
		c.mu.Lock()
		gen := c.gens[id]
		c.mu.Unlock()

		// The resolve outlives any single caller's cancellation since other
		// callers may be waiting on it.
		h, err := resolve(context.WithoutCancel(ctx))
		if err != nil {
			return Handle{}, err
		}

		c.mu.Lock()
		if c.gens[id] == gen {
			c.entries[id] = h
		}
		c.mu.Unlock()
		return h, nil
	})
	if err != nil {
		return Handle{}, err
	}
	return v.(Handle), nil
}

// Invalidate drops the handles for ids so the next lookup re-resolves.
func (c *Cache) Invalidate(ids ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range ids {
		delete(c.entries, id)
		c.gens[id]++
		c.group.Forget(id)
	}
}

// Len reports the number of cached handles.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
