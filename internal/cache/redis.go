package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Cache interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Get reports found=false on a miss.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Delete(ctx context.Context, key string) error
	GenerateKey(operation, key string) string
}

type RedisCache struct {
	client      *redis.Client
	serviceName string
}

// NewRedisCache pings addr so a misconfigured cache fails at startup.
func NewRedisCache(ctx context.Context, addr, serviceName string) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.Join(fmt.Errorf("client.Ping[%s]: %w", addr, err), client.Close())
	}

	return &RedisCache{
		client:      client,
		serviceName: serviceName,
	}, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("client.Set: %w", err)
	}
	return nil
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("client.Get: %w", err)
	}

	return value, true, nil
}

func (r *RedisCache) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("client.Del: %w", err)
	}
	return nil
}

func (r *RedisCache) GenerateKey(operation, key string) string {
	return fmt.Sprintf("%s:%s:%s", r.serviceName, operation, key)
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}
