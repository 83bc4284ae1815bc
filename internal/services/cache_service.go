package services

import (
	"context"
	"time"

	"swiftaid/pkg/cache"
)

// CacheService fronts Redis for the repositories and publishes change events
// for external consumers. A nil-safe no-op implementation is used when Redis
// is not configured.
type CacheService interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Publish(ctx context.Context, channel string, payload interface{}) error
	IsNotFound(err error) bool
}

type redisCacheService struct {
	cache *cache.RedisCache
}

func NewCacheService(redisCache *cache.RedisCache) CacheService {
	return &redisCacheService{cache: redisCache}
}

func (s *redisCacheService) Get(ctx context.Context, key string, dest interface{}) error {
	return s.cache.Get(ctx, key, dest)
}

func (s *redisCacheService) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return s.cache.Set(ctx, key, value, expiration)
}

func (s *redisCacheService) Delete(ctx context.Context, keys ...string) error {
	return s.cache.Delete(ctx, keys...)
}

func (s *redisCacheService) Publish(ctx context.Context, channel string, payload interface{}) error {
	return s.cache.Publish(ctx, channel, payload)
}

func (s *redisCacheService) IsNotFound(err error) bool {
	return s.cache.IsNotFound(err)
}

// noopCacheService satisfies CacheService without a backing store. Get
// always misses.
type noopCacheService struct{}

func NewNoopCacheService() CacheService {
	return noopCacheService{}
}

type errCacheMiss struct{}

func (errCacheMiss) Error() string { return "cache miss" }

func (noopCacheService) Get(ctx context.Context, key string, dest interface{}) error {
	return errCacheMiss{}
}

func (noopCacheService) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return nil
}

func (noopCacheService) Delete(ctx context.Context, keys ...string) error { return nil }

func (noopCacheService) Publish(ctx context.Context, channel string, payload interface{}) error {
	return nil
}

func (noopCacheService) IsNotFound(err error) bool {
	_, ok := err.(errCacheMiss)
	return ok
}
