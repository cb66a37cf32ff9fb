package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultThrottleKeyPrefix namespaces throttle keys in Redis
const DefaultThrottleKeyPrefix = "bizcore:throttle:"

// setNXClient is the part of the Redis client the store needs
type setNXClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
}

// RedisThrottleStore shares throttle keys between instances through Redis
type RedisThrottleStore struct {
	client    setNXClient
	keyPrefix string
}

// NewRedisThrottleStore creates a store on an existing client
func NewRedisThrottleStore(client setNXClient, keyPrefix string) *RedisThrottleStore {
	if keyPrefix == "" {
		keyPrefix = DefaultThrottleKeyPrefix
	}
	return &RedisThrottleStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// TryAcquire holds key for ttl with SET NX; false means another holder
// (possibly another instance) still has it
func (s *RedisThrottleStore) TryAcquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, s.keyPrefix+key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire throttle key: %w", err)
	}
	return ok, nil
}
