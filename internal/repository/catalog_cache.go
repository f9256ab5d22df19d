package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fmht/buzon-service/internal/domain"
)

// ErrCacheMiss is returned when the requested catalog is not cached.
var ErrCacheMiss = errors.New("catalog cache miss")

// CatalogCache stores whole catalogs keyed by name.
type CatalogCache interface {
	Statuses(ctx context.Context) ([]domain.Status, error)
	SetStatuses(ctx context.Context, statuses []domain.Status) error
	Categories(ctx context.Context) ([]domain.Category, error)
	SetCategories(ctx context.Context, categories []domain.Category) error
	Invalidate(ctx context.Context) error
}

type redisCatalogCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCatalogCache caches catalogs as JSON values under prefix. A nil client yields a no-op cache.
func NewRedisCatalogCache(client *redis.Client, prefix string, ttl time.Duration) CatalogCache {
	if client == nil {
		return NoopCatalogCache{}
	}
	return &redisCatalogCache{client: client, prefix: prefix, ttl: ttl}
}

func (c *redisCatalogCache) statusKey() string { return c.prefix + ":estados" }
func (c *redisCatalogCache) categoryKey() string { return c.prefix + ":categorias" }

func (c *redisCatalogCache) Statuses(ctx context.Context) ([]domain.Status, error) {
	var out []domain.Status
	if err := c.get(ctx, c.statusKey(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *redisCatalogCache) SetStatuses(ctx context.Context, statuses []domain.Status) error {
	return c.set(ctx, c.statusKey(), statuses)
}

func (c *redisCatalogCache) Categories(ctx context.Context) ([]domain.Category, error) {
	var out []domain.Category
	if err := c.get(ctx, c.categoryKey(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *redisCatalogCache) SetCategories(ctx context.Context, categories []domain.Category) error {
	return c.set(ctx, c.categoryKey(), categories)
}

func (c *redisCatalogCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, c.statusKey(), c.categoryKey()).Err()
}

func (c *redisCatalogCache) get(ctx context.Context, key string, dest any) error {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

func (c *redisCatalogCache) set(ctx context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, c.ttl).Err()
}

// NoopCatalogCache always misses.
type NoopCatalogCache struct{}

func (NoopCatalogCache) Statuses(context.Context) ([]domain.Status, error) { return nil, ErrCacheMiss }
func (NoopCatalogCache) SetStatuses(context.Context, []domain.Status) error { return nil }
func (NoopCatalogCache) Categories(context.Context) ([]domain.Category, error) { return nil, ErrCacheMiss }
func (NoopCatalogCache) SetCategories(context.Context, []domain.Category) error { return nil }
func (NoopCatalogCache) Invalidate(context.Context) error { return nil }
