package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	lru "github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/platinummonkey/modsearch/pkg/observability"
)

const (
	tierMemory = "memory"
	tierRedis  = "redis"
)

// Config holds cache configuration
type Config struct {
	// L1Size is the maximum number of in-process entries; 0 disables L1.
	L1Size int
	TTL    time.Duration

	// RedisURL enables the L2 tier when non-empty.
	RedisURL      string
	RedisPassword string
	RedisDB       int
	RedisPoolSize int

	KeyPrefix string
}

// DefaultConfig returns the default cache configuration
func DefaultConfig() Config {
	return Config{
		L1Size:    4096,
		TTL:       10 * time.Minute,
		RedisDB:   -1,
		KeyPrefix: "modsearch:",
	}
}

// Cache stores JSON-encoded values in memory and optionally in Redis
type Cache struct {
	l1      *lru.LRU[string, []byte]
	redis   *redis.Client
	ttl     time.Duration
	prefix  string
	metrics *observability.Metrics
}

// New creates a cache. It connects to Redis when RedisURL is set.
func New(cfg Config, metrics *observability.Metrics) (*Cache, error) {
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("cache TTL must be positive")
	}

	c := &Cache{
		ttl:     cfg.TTL,
		prefix:  cfg.KeyPrefix,
		metrics: metrics,
	}
	if cfg.L1Size > 0 {
		c.l1 = lru.NewLRU[string, []byte](cfg.L1Size, nil, cfg.TTL)
	}
	if cfg.RedisURL != "" {
		client, err := NewRedisClient(cfg)
		if err != nil {
			return nil, err
		}
		c.redis = client
	}
	return c, nil
}

// Get loads key into dest. It reports whether the key was found.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	key = c.prefix + key

	if c.l1 != nil {
		data, ok := c.l1.Get(key)
		c.metrics.ObserveCache(tierMemory, ok)
		if ok && json.Unmarshal(data, dest) == nil {
			return true, nil
		}
	}

	if c.redis == nil {
		return false, nil
	}

	data, err := c.redis.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		c.metrics.ObserveCache(tierRedis, false)
		return false, nil
	} else if err != nil {
		return false, fmt.Errorf("redis get failed: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		c.redis.Del(ctx, key)
		c.metrics.ObserveCache(tierRedis, false)
		return false, fmt.Errorf("failed to unmarshal cached %s: %w", key, err)
	}

	c.metrics.ObserveCache(tierRedis, true)
	if c.l1 != nil {
		c.l1.Add(key, data)
	}
	return true, nil
}

// Set stores value under key in every tier
func (c *Cache) Set(ctx context.Context, key string, value interface{}) error {
	key = c.prefix + key

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}

	if c.l1 != nil {
		c.l1.Add(key, data)
	}
	if c.redis != nil {
		if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
			return fmt.Errorf("redis set failed: %w", err)
		}
	}
	return nil
}

// Purge drops all L1 entries
func (c *Cache) Purge() {
	if c.l1 != nil {
		c.l1.Purge()
	}
}

// Len returns the number of L1 entries
func (c *Cache) Len() int {
	if c.l1 == nil {
		return 0
	}
	return c.l1.Len()
}

// Redis returns the L2 client, or nil when Redis is not configured
func (c *Cache) Redis() *redis.Client {
	return c.redis
}

// Close releases the Redis connection
func (c *Cache) Close() error {
	c.Purge()
	if c.redis != nil {
		return c.redis.Close()
	}
	return nil
}
