package cache

import (
	"context"
	"testing"
	"time"

	"github.com/marketplace/backend/internal/domain/billing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPlan() *billing.SubscriptionPlan {
	catalog := billing.NewCatalog("price_standard", "price_pro")
	return &billing.SubscriptionPlan{
		Plan:         catalog.ByID(billing.PlanPro),
		IsSubscribed: true,
		IsActive:     true,
	}
}

func TestInMemorySubscriptionCache_GetSet(t *testing.T) {
	c := NewInMemorySubscriptionCache(time.Minute)
	defer c.Close()
	ctx := context.Background()

	got, err := c.Get(ctx, "user_1")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, c.Set(ctx, "user_1", testPlan(), 0))

	got, err = c.Get(ctx, "user_1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, billing.PlanPro, got.ID)
	assert.True(t, got.IsActive)

	hits, misses := c.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
}

func TestInMemorySubscriptionCache_ReturnsCopies(t *testing.T) {
	c := NewInMemorySubscriptionCache(time.Minute)
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "user_1", testPlan(), 0))

	first, _ := c.Get(ctx, "user_1")
	first.IsActive = false

	second, _ := c.Get(ctx, "user_1")
	assert.True(t, second.IsActive)
}

func TestInMemorySubscriptionCache_Expiration(t *testing.T) {
	c := NewInMemorySubscriptionCache(time.Minute)
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "user_1", testPlan(), 10*time.Millisecond))
	require.NoError(t, c.Set(ctx, "user_2", testPlan(), time.Hour))
	time.Sleep(20 * time.Millisecond)

	got, err := c.Get(ctx, "user_1")
	require.NoError(t, err)
	assert.Nil(t, got)

	c.cleanup()
	got, _ = c.Get(ctx, "user_2")
	assert.NotNil(t, got)
}

func TestInMemorySubscriptionCache_Delete(t *testing.T) {
	c := NewInMemorySubscriptionCache(0)
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "user_1", testPlan(), 0))
	require.NoError(t, c.Delete(ctx, "user_1"))

	got, err := c.Get(ctx, "user_1")
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.NoError(t, c.Set(ctx, "user_1", nil, 0))
	assert.NoError(t, c.Close())
	assert.NoError(t, c.Close())
}
