package app

import (
	"context"
	"time"

	"github.com/AshZadePM/localreco/internal/cache"
	"github.com/AshZadePM/localreco/internal/domain"
)

// ResponseCache stores computed search responses under their (city, query)
// key. Implementations must treat backend failures as misses or no-ops.
type ResponseCache interface {
	Get(ctx context.Context, key string) (*domain.SearchResponse, bool)
	Set(ctx context.Context, key string, resp *domain.SearchResponse)
}

// MemoryResponseCache adapts the in-process cache to the response cache port.
type MemoryResponseCache struct {
	cache *cache.Cache
	ttl   time.Duration
}

func NewMemoryResponseCache(c *cache.Cache, ttl time.Duration) *MemoryResponseCache {
	return &MemoryResponseCache{cache: c, ttl: ttl}
}

func (m *MemoryResponseCache) Get(_ context.Context, key string) (*domain.SearchResponse, bool) {
	v, ok := m.cache.Get(key)
	if !ok {
		return nil, false
	}

	resp, ok := v.(*domain.SearchResponse)
	return resp, ok
}

func (m *MemoryResponseCache) Set(_ context.Context, key string, resp *domain.SearchResponse) {
	m.cache.Set(key, resp, m.ttl)
}
