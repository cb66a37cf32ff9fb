package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/bizcore/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ThrottleStore holds a key for a while; TryAcquire reports whether the
// caller got it
type ThrottleStore interface {
	TryAcquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// ThrottleStoreFactory creates throttle stores based on configuration
type ThrottleStoreFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
	pingTimeout           time.Duration
}

// ThrottleStoreFactoryOption is a functional option for configuring the factory
type ThrottleStoreFactoryOption func(*ThrottleStoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) ThrottleStoreFactoryOption {
	return func(f *ThrottleStoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the in-memory store
// when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) ThrottleStoreFactoryOption {
	return func(f *ThrottleStoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewThrottleStoreFactory creates a new factory
func NewThrottleStoreFactory(cfg config.RedisConfig, opts ...ThrottleStoreFactoryOption) *ThrottleStoreFactory {
	f := &ThrottleStoreFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
		pingTimeout:           5 * time.Second,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateRedisStore connects to Redis and returns a store on it. The
// returned close function releases the client.
func (f *ThrottleStoreFactory) CreateRedisStore() (*RedisThrottleStore, func() error, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     f.redisConfig.Addr(),
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), f.pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisThrottleStore(client, ""), client.Close, nil
}

// CreateStore tries Redis first and falls back to the in-memory store when
// that is allowed. The in-memory store does not share state across
// instances, so each instance throttles on its own.
func (f *ThrottleStoreFactory) CreateStore() (ThrottleStore, func() error, error) {
	store, closeFn, err := f.CreateRedisStore()
	if err == nil {
		f.logger.Info("using Redis throttle store")
		return store, closeFn, nil
	}

	if !f.allowInMemoryFallback {
		return nil, nil, fmt.Errorf("redis required for throttling but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory throttle store", zap.Error(err))
	mem := NewInMemoryThrottleStore()
	return mem, mem.Close, nil
}

var (
	_ ThrottleStore = (*InMemoryThrottleStore)(nil)
	_ ThrottleStore = (*RedisThrottleStore)(nil)
)
