package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache TTLs. Settings change rarely but must converge quickly after an
// admin edit; the top-downloads view tolerates short staleness, so click
// counters don't invalidate it.
const (
	SettingsCacheTTL = 30 * time.Second
	TopCacheTTL      = time.Minute
)

const (
	settingsCacheKey = "settings:site"
	topCacheKey      = "downloads:top"
)

// CacheService is a Redis cache-aside layer for the settings singleton and
// the top-downloads response. A nil client makes every operation a no-op,
// so the portal runs fine without Redis.
type CacheService struct {
	rdb *redis.Client
}

// NewCacheService connects to Redis. If redisURL is empty or the connection
// fails, caching is disabled rather than failing startup.
func NewCacheService(redisURL string) *CacheService {
	if redisURL == "" {
		log.Println("redis: no URL configured, caching disabled")
		return &CacheService{}
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("redis: invalid URL %q, caching disabled: %v", redisURL, err)
		return &CacheService{}
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("redis: connection failed, caching disabled: %v", err)
		return &CacheService{}
	}

	log.Println("redis: connected, caching enabled")
	return &CacheService{rdb: rdb}
}

// Client returns the underlying Redis client for health checks. May be nil.
func (c *CacheService) Client() *redis.Client {
	return c.rdb
}

// GetJSON unmarshals a cached value into dest. Returns false on miss or
// when caching is disabled.
func (c *CacheService) GetJSON(ctx context.Context, key string, dest any) bool {
	if c.rdb == nil {
		return false
	}
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(data, dest) == nil
}

// SetJSON stores a value under key with the given TTL.
func (c *CacheService) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if c.rdb == nil {
		return nil
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, b, ttl).Err()
}

// Invalidate removes keys from the cache.
func (c *CacheService) Invalidate(ctx context.Context, keys ...string) error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// Close shuts down the Redis connection.
func (c *CacheService) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
