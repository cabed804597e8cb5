package redis

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AshZadePM/localreco/internal/domain"
	"github.com/AshZadePM/localreco/internal/metrics"
)

const keyPrefix = "localreco:search:"

// SearchCache stores serialized search responses in Redis. Backend failures
// are never surfaced: a failed read is a miss, a failed write a no-op, both
// with a logged warning.
type SearchCache struct {
	client *Client
	ttl    time.Duration
}

func NewSearchCache(client *Client, ttl time.Duration) *SearchCache {
	return &SearchCache{client: client, ttl: ttl}
}

func (c *SearchCache) Get(ctx context.Context, key string) (*domain.SearchResponse, bool) {
	raw, err := c.client.rdb.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("Redis cache read failed, treating as miss", "key", key, "error", err)
		}
		metrics.CacheMisses.Inc()
		return nil, false
	}

	var resp domain.SearchResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		slog.Warn("Failed to decode cached response, treating as miss", "key", key, "error", err)
		metrics.CacheMisses.Inc()
		return nil, false
	}

	metrics.CacheHits.Inc()
	return &resp, true
}

func (c *SearchCache) Set(ctx context.Context, key string, resp *domain.SearchResponse) {
	raw, err := json.Marshal(resp)
	if err != nil {
		slog.Warn("Failed to encode response for cache", "key", key, "error", err)
		return
	}

	if err := c.client.rdb.Set(ctx, keyPrefix+key, raw, c.ttl).Err(); err != nil {
		slog.Warn("Redis cache write failed", "key", key, "error", err)
	}
}
