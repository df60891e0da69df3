package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/ventapos/venta_api/internal/models"
)

// CatalogCache caches product listing and search results. Any product
// mutation invalidates the whole catalog namespace: listings are cheap to
// rebuild and correctness of stock figures matters more than hit rate.
type CatalogCache struct {
	redis *RedisClient
	ttl   time.Duration
}

// NewCatalogCache creates a CatalogCache with the given entry TTL.
func NewCatalogCache(redis *RedisClient, ttl time.Duration) *CatalogCache {
	return &CatalogCache{redis: redis, ttl: ttl}
}

func (c *CatalogCache) keyList() string {
	return "catalog:products:all"
}

func (c *CatalogCache) keySearch(query string) string {
	return fmt.Sprintf("catalog:products:search:%s", query)
}

// GetList returns the cached full product listing, or nil on miss.
func (c *CatalogCache) GetList(ctx context.Context) []models.ProductRow {
	return c.get(ctx, c.keyList())
}

// SetList stores the full product listing.
func (c *CatalogCache) SetList(ctx context.Context, rows []models.ProductRow) {
	c.set(ctx, c.keyList(), rows)
}

// GetSearch returns the cached result for a search query, or nil on miss.
func (c *CatalogCache) GetSearch(ctx context.Context, query string) []models.ProductRow {
	return c.get(ctx, c.keySearch(query))
}

// SetSearch stores the result for a search query.
func (c *CatalogCache) SetSearch(ctx context.Context, query string, rows []models.ProductRow) {
	c.set(ctx, c.keySearch(query), rows)
}

// Invalidate drops every cached catalog entry. Called after any product,
// brand or category mutation, including stock movements.
func (c *CatalogCache) Invalidate(ctx context.Context) {
	if err := c.redis.DeleteByPattern(ctx, "catalog:products:*"); err != nil {
		log.Warn().Err(err).Msg("catalog cache invalidation failed")
	}
}

func (c *CatalogCache) get(ctx context.Context, key string) []models.ProductRow {
	raw, err := c.redis.Get(ctx, key)
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Str("key", key).Msg("catalog cache read failed")
		}
		return nil
	}
	var rows []models.ProductRow
	if err := json.Unmarshal([]byte(raw), &rows); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("catalog cache entry corrupt, dropping")
		_ = c.redis.Delete(ctx, key)
		return nil
	}
	return rows
}

func (c *CatalogCache) set(ctx context.Context, key string, rows []models.ProductRow) {
	data, err := json.Marshal(rows)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, key, string(data), c.ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("catalog cache write failed")
	}
}

// Catalog is the caching surface the product service consumes.
type Catalog interface {
	GetList(ctx context.Context) []models.ProductRow
	SetList(ctx context.Context, rows []models.ProductRow)
	GetSearch(ctx context.Context, query string) []models.ProductRow
	SetSearch(ctx context.Context, query string, rows []models.ProductRow)
	Invalidate(ctx context.Context)
}

// NoopCatalog is a Catalog that caches nothing, for tests and cache-less runs.
type NoopCatalog struct{}

func (NoopCatalog) GetList(ctx context.Context) []models.ProductRow { return nil }

func (NoopCatalog) SetList(ctx context.Context, rows []models.ProductRow) {}

func (NoopCatalog) GetSearch(ctx context.Context, query string) []models.ProductRow { return nil }

func (NoopCatalog) SetSearch(ctx context.Context, query string, rows []models.ProductRow) {}

func (NoopCatalog) Invalidate(ctx context.Context) {}
