// Package cache provides the process-wide response cache and the
// sliding-window admission controller that make repeated and concurrent
// calls to rate-limited upstreams safe.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/AshZadePM/localreco/internal/metrics"
)

// Cache is an in-memory key/value store with per-entry expiry. Expired
// entries are logically absent on read; eviction happens opportunistically.
type Cache struct {
	mu         sync.RWMutex
	entries    map[string]*entry
	defaultTTL time.Duration
	clock      clockwork.Clock
	hits       uint64
	misses     uint64
}

type entry struct {
	value     any
	expiresAt time.Time
}

// Stats are cumulative counters since process start or the last Clear.
type Stats struct {
	Keys   int
	Hits   uint64
	Misses uint64
}

func New(defaultTTL time.Duration, clock clockwork.Clock) *Cache {
	return &Cache{
		entries:    make(map[string]*entry),
		defaultTTL: defaultTTL,
		clock:      clock,
	}
}

// Get returns the value for key, or false if the key was never set or its
// entry has expired.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || c.clock.Now().After(e.expiresAt) {
		c.misses++
		metrics.CacheMisses.Inc()
		return nil, false
	}

	c.hits++
	metrics.CacheHits.Inc()
	return e.value, true
}

// Set stores value under key, overwriting unconditionally and resetting the
// expiry. A non-positive ttl falls back to the cache default.
func (c *Cache) Set(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = &entry{value: value, expiresAt: c.clock.Now().Add(ttl)}
}

// GetOrCompute returns the cached value for key, or invokes compute, stores
// its result and returns it. There is no cross-call mutual exclusion: two
// callers racing on the same absent key may both compute, and the second
// write wins. That duplicate work is an accepted property, not a bug.
func (c *Cache) GetOrCompute(ctx context.Context, key string, ttl time.Duration, compute func(context.Context) (any, error)) (any, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	v, err := compute(ctx)
	if err != nil {
		return nil, err
	}

	c.Set(key, v, ttl)
	return v, nil
}

// Clear drops all entries and resets the stat counters. Rate-limit windows
// live elsewhere and are unaffected.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry)
	c.hits = 0
	c.misses = 0
}

func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{Keys: len(c.entries), Hits: c.hits, Misses: c.misses}
}

// EvictExpired removes expired entries and reports how many were dropped.
func (c *Cache) EvictExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	evicted := 0
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
			evicted++
		}
	}
	metrics.CacheEvictions.Add(float64(evicted))
	return evicted
}

// GetOrCompute is the typed variant of Cache.GetOrCompute. A cached value of
// the wrong type is treated as a miss and recomputed.
func GetOrCompute[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, compute func(context.Context) (T, error)) (T, error) {
	v, err := c.GetOrCompute(ctx, key, ttl, func(ctx context.Context) (any, error) {
		return compute(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}

	typed, ok := v.(T)
	if !ok {
		typed, err = compute(ctx)
		if err != nil {
			var zero T
			return zero, err
		}
		c.Set(key, typed, ttl)
	}
	return typed, nil
}
