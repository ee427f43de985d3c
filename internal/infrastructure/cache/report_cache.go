package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/groundplan/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewRedisClient creates a Redis client from configuration and verifies
// the connection with a ping.
func NewRedisClient(cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// ReportCache is a cache-aside JSON store for report payloads backed by
// Redis. Cache failures degrade to a direct load and never fail the read.
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewReportCache creates a new ReportCache
func NewReportCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *ReportCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// FetchJSON fills dest from the cache when the key is warm, otherwise
// invokes the loader and stores its result under the key.
func (c *ReportCache) FetchJSON(ctx context.Context, key string, dest interface{}, loader func(context.Context) (interface{}, error)) error {
	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		if unmarshalErr := json.Unmarshal(payload, dest); unmarshalErr == nil {
			return nil
		}
		// Corrupt entry, fall through to the loader
		c.logger.Warn("discarding unreadable cache entry", zap.String("key", key))
	} else if !errors.Is(err, redis.Nil) {
		c.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	}

	value, err := loader(ctx)
	if err != nil {
		return err
	}

	payload, err = json.Marshal(value)
	if err != nil {
		return err
	}
	if setErr := c.client.Set(ctx, key, payload, c.ttl).Err(); setErr != nil {
		c.logger.Warn("cache write failed", zap.String("key", key), zap.Error(setErr))
	}

	return json.Unmarshal(payload, dest)
}

// Invalidate removes the given keys from the cache
func (c *ReportCache) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}
