package billing

import (
	"context"
	"time"
)

// SubscriptionCache keeps resolved plans per user
type SubscriptionCache interface {
	// Get returns the cached plan of a user, or nil on a miss
	Get(ctx context.Context, userID string) (*SubscriptionPlan, error)

	// Set caches the plan of a user; a zero ttl uses the cache default
	Set(ctx context.Context, userID string, plan *SubscriptionPlan, ttl time.Duration) error

	// Delete drops the cached plan of a user
	Delete(ctx context.Context, userID string) error
}
