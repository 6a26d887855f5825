// Package cache keeps rendered roster views in Redis. A Cache without a
// client is valid and simply never hits.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultTTL bounds how long a rendered view is kept
const DefaultTTL = 30 * time.Minute

// Cache stores JSON-encoded views
type Cache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// New wraps an existing client. rdb may be nil.
func New(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{rdb: rdb, ttl: ttl, logger: logger}
}

// Connect dials addr and falls back to a disabled cache when addr is empty
// or the server does not answer
func Connect(ctx context.Context, addr string, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	if addr == "" {
		logger.Warn("REDIS_ADDR not set, view caching disabled")
		return New(nil, DefaultTTL, logger)
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis, view caching disabled", zap.Error(err))
		_ = rdb.Close()
		return New(nil, DefaultTTL, logger)
	}

	logger.Info("Connected to Redis", zap.String("addr", addr))
	return New(rdb, DefaultTTL, logger)
}

// Enabled reports whether a Redis client is attached
func (c *Cache) Enabled() bool {
	return c != nil && c.rdb != nil
}

// Key names a rendered view of one roster version
func Key(view, runID string, version uint64) string {
	return fmt.Sprintf("roster:%s:v%d:%s", runID, version, view)
}

// GetJSON decodes the cached value into dst and reports whether it was found
func (c *Cache) GetJSON(ctx context.Context, key string, dst any) bool {
	if !c.Enabled() {
		return false
	}

	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}

	if err := json.Unmarshal(data, dst); err != nil {
		c.logger.Warn("Cache entry undecodable", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// SetJSON stores v under key; failures are logged and otherwise ignored
func (c *Cache) SetJSON(ctx context.Context, key string, v any) {
	if !c.Enabled() {
		return
	}

	data, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn("Cache value unencodable", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// Close releases the client
func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.rdb.Close()
}
