// Package cache implements the history cache on Redis and in memory.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ksoliman/banksim/pkg/cache"
	"github.com/ksoliman/banksim/pkg/domain"
)

// RedisHistoryCache implements cache.HistoryCache on Redis with explicit
// delete for invalidation.
type RedisHistoryCache struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

// NewRedisHistoryCache creates a cache using the given client and key
// prefix.
func NewRedisHistoryCache(client *redis.Client, prefix string, logger *slog.Logger) *RedisHistoryCache {
	return &RedisHistoryCache{client: client, prefix: prefix, logger: logger}
}

func (c *RedisHistoryCache) key(ownerID uuid.UUID) string {
	return c.prefix + ownerID.String()
}

// Get returns the cached history, or ok=false on a miss.
func (c *RedisHistoryCache) Get(ctx context.Context, ownerID uuid.UUID) ([]*domain.Transaction, bool, error) {
	val, err := c.client.Get(ctx, c.key(ownerID)).Result()
	if errors.Is(err, redis.Nil) {
		c.logger.Debug("history cache miss", "ownerID", ownerID)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var records []*domain.Transaction
	if err := json.Unmarshal([]byte(val), &records); err != nil {
		// A corrupt entry is a miss; the caller reloads and overwrites.
		c.logger.Warn("history cache entry corrupt", "ownerID", ownerID, "error", err)
		return nil, false, nil
	}
	c.logger.Debug("history cache hit", "ownerID", ownerID, "count", len(records))
	return records, true, nil
}

// Set stores the history with the given TTL.
func (c *RedisHistoryCache) Set(
	ctx context.Context,
	ownerID uuid.UUID,
	records []*domain.Transaction,
	ttl time.Duration,
) error {
	data, err := json.Marshal(records)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(ownerID), data, ttl).Err()
}

// Invalidate deletes the entry outright.
func (c *RedisHistoryCache) Invalidate(ctx context.Context, ownerID uuid.UUID) error {
	return c.client.Del(ctx, c.key(ownerID)).Err()
}

var _ cache.HistoryCache = (*RedisHistoryCache)(nil)
