package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/marketplace/backend/internal/domain/billing"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	subscriptionKeyPrefix  = "subscription_plan:"
	defaultSubscriptionTTL = 5 * time.Minute
)

// RedisSubscriptionCache implements billing.SubscriptionCache using Redis
type RedisSubscriptionCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisSubscriptionCache creates a cache on a shared client.
// The caller retains ownership of the client.
func NewRedisSubscriptionCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisSubscriptionCache {
	if ttl <= 0 {
		ttl = defaultSubscriptionTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisSubscriptionCache{client: client, ttl: ttl, logger: logger}
}

func (c *RedisSubscriptionCache) key(userID string) string {
	return subscriptionKeyPrefix + userID
}

// Get retrieves a plan from cache
func (c *RedisSubscriptionCache) Get(ctx context.Context, userID string) (*billing.SubscriptionPlan, error) {
	data, err := c.client.Get(ctx, c.key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		c.logger.Debug("Cache miss for subscription plan", zap.String("user_id", userID))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription plan from cache: %w", err)
	}

	var plan billing.SubscriptionPlan
	if err := json.Unmarshal(data, &plan); err != nil {
		c.logger.Warn("Dropping corrupted subscription plan cache entry",
			zap.String("user_id", userID),
			zap.Error(err))
		_ = c.client.Del(ctx, c.key(userID))
		return nil, nil
	}
	return &plan, nil
}

// Set stores a plan in cache
func (c *RedisSubscriptionCache) Set(ctx context.Context, userID string, plan *billing.SubscriptionPlan, ttl time.Duration) error {
	if plan == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = c.ttl
	}
	data, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("failed to marshal subscription plan: %w", err)
	}
	if err := c.client.Set(ctx, c.key(userID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set subscription plan in cache: %w", err)
	}
	return nil
}

// Delete removes a plan from cache
func (c *RedisSubscriptionCache) Delete(ctx context.Context, userID string) error {
	if err := c.client.Del(ctx, c.key(userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete subscription plan from cache: %w", err)
	}
	return nil
}

var _ billing.SubscriptionCache = (*RedisSubscriptionCache)(nil)
