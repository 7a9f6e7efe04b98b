package enrichment

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "enrich:product:"

// Cache stores enrichment results by URL.
type Cache interface {
	Get(ctx context.Context, url string) (*Product, bool, error)
	Set(ctx context.Context, url string, p *Product) error
}

// RedisCache keeps results in Redis under a hashed key with a TTL.
type RedisCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisCache(client redis.Cmdable, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func cacheKey(url string) string {
	sum := sha1.Sum([]byte(url))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}

func (c *RedisCache) Get(ctx context.Context, url string) (*Product, bool, error) {
	b, err := c.client.Get(ctx, cacheKey(url)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get cached product: %w", err)
	}

	var p Product
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, false, fmt.Errorf("decode cached product: %w", err)
	}
	return &p, true, nil
}

func (c *RedisCache) Set(ctx context.Context, url string, p *Product) error {
	b, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode product: %w", err)
	}
	if err := c.client.Set(ctx, cacheKey(url), b, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache product: %w", err)
	}
	return nil
}

// NopCache never stores anything; used when Redis is not configured.
type NopCache struct{}

func (NopCache) Get(context.Context, string) (*Product, bool, error) { return nil, false, nil }
func (NopCache) Set(context.Context, string, *Product) error          { return nil }
