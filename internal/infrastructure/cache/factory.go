package cache

import (
	"context"
	"fmt"

	"github.com/marketplace/backend/internal/domain/billing"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Stores bundles the caches used by the application
type Stores struct {
	Subscriptions billing.SubscriptionCache
	Idempotency   shared.IdempotencyStore
	Backend       string

	client  *redis.Client
	closers []func() error
}

// Ping checks the cache backend
func (s *Stores) Ping(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Ping(ctx).Err()
}

// Close releases every store and the Redis client
func (s *Stores) Close() error {
	var firstErr error
	for _, closeFn := range s.closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Factory creates cache stores based on configuration
type Factory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to in-memory stores when
// Redis is enabled but unavailable. Default is true.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) {
		f.allowInMemoryFallback = allow
	}
}

// NewFactory creates a new factory
func NewFactory(cfg config.RedisConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateInMemory creates process-local stores
func (f *Factory) CreateInMemory() *Stores {
	subs := NewInMemorySubscriptionCache(f.redisConfig.SubscriptionTTL)
	idem := NewInMemoryIdempotencyStore()
	return &Stores{
		Subscriptions: subs,
		Idempotency:   idem,
		Backend:       "memory",
		closers:       []func() error{subs.Close, idem.Close},
	}
}

// CreateRedis creates stores sharing one Redis client
func (f *Factory) CreateRedis() (*Stores, error) {
	client, err := NewRedisClient(f.redisConfig)
	if err != nil {
		return nil, err
	}
	return NewRedisStores(client, f.redisConfig, f.logger), nil
}

// NewRedisStores creates stores on an existing client; closing the stores closes the client
func NewRedisStores(client *redis.Client, cfg config.RedisConfig, logger *zap.Logger) *Stores {
	idem := NewRedisIdempotencyStore(client, "")
	return &Stores{
		Subscriptions: NewRedisSubscriptionCache(client, cfg.SubscriptionTTL, logger),
		Idempotency:   idem,
		Backend:       "redis",
		client:        client,
		closers:       []func() error{idem.Close, client.Close},
	}
}

// Create returns Redis stores when Redis is enabled, falling back to
// in-memory stores if allowed
func (f *Factory) Create() (*Stores, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("Redis disabled, using in-memory caches")
		return f.CreateInMemory(), nil
	}

	stores, err := f.CreateRedis()
	if err == nil {
		f.logger.Info("Using Redis caches",
			zap.String("host", f.redisConfig.Host),
			zap.Int("port", f.redisConfig.Port))
		return stores, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis required but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory caches. "+
		"Webhook redeliveries may be processed twice across instances.",
		zap.Error(err))
	return f.CreateInMemory(), nil
}
