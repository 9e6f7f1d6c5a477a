// Package cache keeps confirmed connection pairs in Redis so the visibility gate
// can skip the store on repeat checks.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "linkup:conn"

// ConnectionCache stores positive membership per canonical pair. Connections are
// never removed, so an entry only goes stale when one of its users is deleted.
type ConnectionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewConnectionCache creates a cache over client with the given entry TTL
func NewConnectionCache(client *redis.Client, ttl time.Duration) *ConnectionCache {
	return &ConnectionCache{client: client, ttl: ttl}
}

// Connect opens a Redis client for addr and pings it
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return client, nil
}

func pairKey(low, high uint) string {
	return fmt.Sprintf("%s:%d:%d", keyPrefix, low, high)
}

// Has reports whether the pair is cached as connected
func (c *ConnectionCache) Has(ctx context.Context, low, high uint) (bool, error) {
	n, err := c.client.Exists(ctx, pairKey(low, high)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Remember caches the pair as connected
func (c *ConnectionCache) Remember(ctx context.Context, low, high uint) error {
	return c.client.Set(ctx, pairKey(low, high), 1, c.ttl).Err()
}

// ForgetUser evicts the pairs formed by userID and each of peers
func (c *ConnectionCache) ForgetUser(ctx context.Context, userID uint, peers []uint) error {
	if len(peers) == 0 {
		return nil
	}
	keys := make([]string, 0, len(peers))
	for _, peer := range peers {
		low, high := userID, peer
		if high < low {
			low, high = high, low
		}
		keys = append(keys, pairKey(low, high))
	}
	return c.client.Del(ctx, keys...).Err()
}
