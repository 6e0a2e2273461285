package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/YHzed/heac-go/pkg/pareto"
)

// MemoryCache is the default in-process backend. Entries live for the
// duration of the run; a signature space bounded by the trial budget
// needs no eviction.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]pareto.Objectives

	hits       atomic.Int64
	misses     atomic.Int64
	sets       atomic.Int64
	lastAccess atomic.Int64 // unix nanos
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]pareto.Objectives)}
}

// Get retrieves cached objectives for a signature.
func (c *MemoryCache) Get(ctx context.Context, signature string) (pareto.Objectives, bool, error) {
	if err := ctx.Err(); err != nil {
		return pareto.Objectives{}, false, err
	}
	c.lastAccess.Store(time.Now().UnixNano())

	c.mu.RLock()
	obj, ok := c.entries[signature]
	c.mu.RUnlock()

	if !ok {
		c.misses.Add(1)
		return pareto.Objectives{}, false, nil
	}
	c.hits.Add(1)
	return obj, true, nil
}

// Set stores objectives for a signature.
func (c *MemoryCache) Set(ctx context.Context, signature string, obj pareto.Objectives) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.lastAccess.Store(time.Now().UnixNano())

	c.mu.Lock()
	c.entries[signature] = obj
	c.mu.Unlock()

	c.sets.Add(1)
	return nil
}

// Delete removes one signature.
func (c *MemoryCache) Delete(ctx context.Context, signature string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	delete(c.entries, signature)
	c.mu.Unlock()
	return nil
}

// Clear removes all entries.
func (c *MemoryCache) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	c.entries = make(map[string]pareto.Objectives)
	c.mu.Unlock()
	return nil
}

// Stats returns current counters.
func (c *MemoryCache) Stats() Stats {
	c.mu.RLock()
	size := int64(len(c.entries))
	c.mu.RUnlock()

	var last time.Time
	if ns := c.lastAccess.Load(); ns > 0 {
		last = time.Unix(0, ns)
	}
	return Stats{
		Hits:       c.hits.Load(),
		Misses:     c.misses.Load(),
		Sets:       c.sets.Load(),
		Size:       size,
		LastAccess: last,
	}
}

// Close is a no-op for the memory backend.
func (c *MemoryCache) Close() error {
	return nil
}
