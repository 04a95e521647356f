package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"routeshare/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	publicRoutesKey = "routes:public"
	publicRoutesTTL = 30 * time.Second
)

// RedisCache holds the short-lived copy of the public routes listing. The
// cache is strictly optional: every method tolerates a nil receiver, and
// callers fall through to the database on any error.
type RedisCache struct {
	Client *redis.Client
}

func NewRedisCache(addr, password string) *RedisCache {
	opts := &redis.Options{Addr: addr}
	if password != "" {
		opts.Password = password
	}
	return &RedisCache{Client: redis.NewClient(opts)}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

// GetPublicRoutes returns (nil, nil) on a cache miss.
func (c *RedisCache) GetPublicRoutes(ctx context.Context) ([]domain.Route, error) {
	if c == nil {
		return nil, nil
	}
	raw, err := c.Client.Get(ctx, publicRoutesKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var routes []domain.Route
	if err := json.Unmarshal([]byte(raw), &routes); err != nil {
		return nil, err
	}
	return routes, nil
}

func (c *RedisCache) SetPublicRoutes(ctx context.Context, routes []domain.Route) error {
	if c == nil {
		return nil
	}
	if routes == nil {
		// nil would marshal to null, which reads back as a miss; an empty
		// listing is still a cacheable answer.
		routes = []domain.Route{}
	}
	raw, err := json.Marshal(routes)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, publicRoutesKey, raw, publicRoutesTTL).Err()
}

// InvalidatePublicRoutes drops the cached listing after any route write.
func (c *RedisCache) InvalidatePublicRoutes(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.Client.Del(ctx, publicRoutesKey).Err()
}
