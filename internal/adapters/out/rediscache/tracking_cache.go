// Package rediscache implements the tracking snapshot cache on Redis.
package rediscache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces tracking snapshot keys in a shared Redis instance.
const keyPrefix = "tracking:"

// TrackingCache implements ports.TrackingCache on a Redis client. Snapshots
// expire via Redis TTLs, and committed transitions invalidate their key
// explicitly, so readers never see a transition later than they would from
// the database by more than the TTL.
type TrackingCache struct {
	client *redis.Client
}

// NewTrackingCache creates a Redis-backed tracking cache.
func NewTrackingCache(client *redis.Client) *TrackingCache {
	return &TrackingCache{client: client}
}

// Get returns the cached snapshot for a tracking number, or ok=false on a miss.
func (c *TrackingCache) Get(ctx context.Context, trackingNumber string) ([]byte, bool, error) {
	payload, err := c.client.Get(ctx, keyPrefix+trackingNumber).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	return payload, true, nil
}

// Set stores a snapshot with the given time to live.
func (c *TrackingCache) Set(ctx context.Context, trackingNumber string, payload []byte, ttl time.Duration) error {
	return c.client.Set(ctx, keyPrefix+trackingNumber, payload, ttl).Err()
}

// Invalidate drops a cached snapshot after a status change.
func (c *TrackingCache) Invalidate(ctx context.Context, trackingNumber string) error {
	return c.client.Del(ctx, keyPrefix+trackingNumber).Err()
}
