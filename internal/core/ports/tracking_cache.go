package ports

import (
	"context"
	"time"
)

// TrackingCache is a read-through cache for public tracking lookups, keyed by
// tracking number. Values are opaque serialized snapshots owned by the query
// layer. A cache failure is never fatal: callers fall through to storage and
// log the miss.
type TrackingCache interface {
	// Get returns the cached snapshot for a tracking number, or ok=false on a
	// miss.
	Get(ctx context.Context, trackingNumber string) (payload []byte, ok bool, err error)

	// Set stores a snapshot with the given time to live.
	Set(ctx context.Context, trackingNumber string, payload []byte, ttl time.Duration) error

	// Invalidate drops a cached snapshot after a status change.
	Invalidate(ctx context.Context, trackingNumber string) error
}
