package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/marketplace/backend/internal/domain/billing"
)

const defaultCleanupInterval = 30 * time.Second

// cacheEntry wraps a cached value with expiration time
type cacheEntry[T any] struct {
	value     T
	expiresAt time.Time
}

func (e *cacheEntry[T]) isExpired(now time.Time) bool {
	return now.After(e.expiresAt)
}

// InMemorySubscriptionCache implements billing.SubscriptionCache in process.
// It does not share state across instances.
type InMemorySubscriptionCache struct {
	plans     sync.Map // map[string]*cacheEntry[billing.SubscriptionPlan]
	ttl       time.Duration
	stopCh    chan struct{}
	closeOnce sync.Once

	hits   int64
	misses int64
}

// NewInMemorySubscriptionCache creates the cache and starts its cleanup loop
func NewInMemorySubscriptionCache(ttl time.Duration) *InMemorySubscriptionCache {
	if ttl <= 0 {
		ttl = defaultSubscriptionTTL
	}
	c := &InMemorySubscriptionCache{
		ttl:    ttl,
		stopCh: make(chan struct{}),
	}
	go c.cleanupLoop(defaultCleanupInterval)
	return c
}

// Get returns a copy of the cached plan, or nil on a miss
func (c *InMemorySubscriptionCache) Get(_ context.Context, userID string) (*billing.SubscriptionPlan, error) {
	v, ok := c.plans.Load(userID)
	if !ok {
		atomic.AddInt64(&c.misses, 1)
		return nil, nil
	}
	entry := v.(*cacheEntry[billing.SubscriptionPlan])
	if entry.isExpired(time.Now()) {
		c.plans.Delete(userID)
		atomic.AddInt64(&c.misses, 1)
		return nil, nil
	}
	atomic.AddInt64(&c.hits, 1)
	plan := entry.value
	return &plan, nil
}

// Set caches a copy of plan
func (c *InMemorySubscriptionCache) Set(_ context.Context, userID string, plan *billing.SubscriptionPlan, ttl time.Duration) error {
	if plan == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = c.ttl
	}
	c.plans.Store(userID, &cacheEntry[billing.SubscriptionPlan]{
		value:     *plan,
		expiresAt: time.Now().Add(ttl),
	})
	return nil
}

// Delete drops the cached plan of a user
func (c *InMemorySubscriptionCache) Delete(_ context.Context, userID string) error {
	c.plans.Delete(userID)
	return nil
}

// Stats returns hit and miss counters
func (c *InMemorySubscriptionCache) Stats() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}

// Close stops the cleanup loop. Safe to call multiple times.
func (c *InMemorySubscriptionCache) Close() error {
	c.closeOnce.Do(func() { close(c.stopCh) })
	return nil
}

func (c *InMemorySubscriptionCache) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

func (c *InMemorySubscriptionCache) cleanup() {
	now := time.Now()
	c.plans.Range(func(key, value any) bool {
		if value.(*cacheEntry[billing.SubscriptionPlan]).isExpired(now) {
			c.plans.Delete(key)
		}
		return true
	})
}

var _ billing.SubscriptionCache = (*InMemorySubscriptionCache)(nil)
