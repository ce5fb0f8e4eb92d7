package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/minio/highwayhash"
)

// DefaultCacheSize is the number of responses kept when no size is configured.
const DefaultCacheSize = 128

var cacheKey = []byte("insightsheet.ai.cache.request.k1")

// CachedRuntime memoises successful responses of an underlying Runtime,
// keyed by a hash of the full request.
type CachedRuntime struct {
	rt     Runtime
	cache  *lru.Cache[uint64, GenerateResponse]
	hits   atomic.Int64
	misses atomic.Int64
}

// NewCachedRuntime wraps rt. size <= 0 uses DefaultCacheSize.
func NewCachedRuntime(rt Runtime, size int) (*CachedRuntime, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	c, err := lru.New[uint64, GenerateResponse](size)
	if err != nil {
		return nil, fmt.Errorf("response cache: %w", err)
	}
	return &CachedRuntime{rt: rt, cache: c}, nil
}

func requestKey(req GenerateRequest) (uint64, error) {
	b, err := json.Marshal(req)
	if err != nil {
		return 0, err
	}
	return highwayhash.Sum64(b, cacheKey), nil
}

// Generate returns a cached copy when an identical request was answered before.
func (c *CachedRuntime) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	key, err := requestKey(req)
	if err != nil {
		return nil, fmt.Errorf("cache key: %w", err)
	}
	if resp, ok := c.cache.Get(key); ok {
		c.hits.Add(1)
		slog.Debug("ai cache hit", "model", req.Model)
		resp.Cached = true
		resp.Choices = append([]Choice(nil), resp.Choices...)
		return &resp, nil
	}
	c.misses.Add(1)
	resp, err := c.rt.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	stored := *resp
	stored.Choices = append([]Choice(nil), resp.Choices...)
	c.cache.Add(key, stored)
	return resp, nil
}

// Stats reports cache hits and misses since construction.
func (c *CachedRuntime) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Len is the number of cached responses.
func (c *CachedRuntime) Len() int { return c.cache.Len() }
