package shared

import (
	"context"
	"time"
)

// IdempotencyStore records which externally delivered events were handled
type IdempotencyStore interface {
	// MarkProcessed marks an event as processed with a TTL
	// Returns true if the event was newly marked, false if it was already processed
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)

	// IsProcessed checks if an event has already been processed
	IsProcessed(ctx context.Context, eventID string) (bool, error)

	// Release forgets an event so a redelivery is handled again
	Release(ctx context.Context, eventID string) error

	// Close closes the store and releases resources
	Close() error
}

// DefaultIdempotencyTTL covers the payments provider's redelivery window
const DefaultIdempotencyTTL = 72 * time.Hour
