package cache

import (
	"context"
	"testing"
	"time"

	"github.com/marketplace/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFactory_RedisDisabled(t *testing.T) {
	f := NewFactory(config.RedisConfig{Enabled: false, SubscriptionTTL: time.Minute})

	stores, err := f.Create()
	require.NoError(t, err)
	defer stores.Close()

	assert.Equal(t, "memory", stores.Backend)
	assert.IsType(t, &InMemorySubscriptionCache{}, stores.Subscriptions)
	assert.IsType(t, &InMemoryIdempotencyStore{}, stores.Idempotency)
	assert.NoError(t, stores.Ping(context.Background()))
}

func TestFactory_FallbackWhenRedisUnavailable(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	f := NewFactory(config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1},
		WithLogger(zap.New(core)))

	stores, err := f.Create()
	require.NoError(t, err)
	defer stores.Close()

	assert.Equal(t, "memory", stores.Backend)
	assert.Equal(t, 1, logs.FilterMessageSnippet("falling back").Len())
}

func TestFactory_NoFallback(t *testing.T) {
	f := NewFactory(config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1},
		WithInMemoryFallback(false))

	stores, err := f.Create()
	assert.Error(t, err)
	assert.Nil(t, stores)
}
