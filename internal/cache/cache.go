// Package cache provides a Redis-backed read-through cache for discovery
// results. The cache is strictly best-effort: Redis failures are logged and
// treated as misses so discovery keeps working without it.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mohammad-safakhou/compscout/config"
	"github.com/mohammad-safakhou/compscout/internal/discovery"
)

// DiscoveryCache caches discovery results keyed by input type and value.
type DiscoveryCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *log.Logger
}

func NewDiscoveryCache(ctx context.Context, cfg config.RedisConfig, ttl time.Duration) (*DiscoveryCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &DiscoveryCache{
		client: client,
		ttl:    ttl,
		logger: log.New(os.Stdout, "[CACHE] ", log.LstdFlags),
	}, nil
}

func (c *DiscoveryCache) Get(ctx context.Context, inputType, value string) ([]discovery.Competitor, bool) {
	raw, err := c.client.Get(ctx, cacheKey(inputType, value)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.logger.Printf("cache get failed: %v", err)
		return nil, false
	}
	var competitors []discovery.Competitor
	if err := json.Unmarshal(raw, &competitors); err != nil {
		c.logger.Printf("cache entry corrupt, dropping: %v", err)
		return nil, false
	}
	return competitors, true
}

func (c *DiscoveryCache) Set(ctx context.Context, inputType, value string, competitors []discovery.Competitor) {
	raw, err := json.Marshal(competitors)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, cacheKey(inputType, value), raw, c.ttl).Err(); err != nil {
		c.logger.Printf("cache set failed: %v", err)
	}
}

func (c *DiscoveryCache) Close() error { return c.client.Close() }

func cacheKey(inputType, value string) string {
	sum := sha256.Sum256([]byte(inputType + "\x00" + value))
	return "discovery:" + hex.EncodeToString(sum[:])
}
