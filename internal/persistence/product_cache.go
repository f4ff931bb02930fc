package persistence

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

// ProductCache is a read-through cache for product-by-id lookups. A miss or a
// Redis failure is never an error for the caller; the store remains the source
// of truth.
type ProductCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewProductCache builds a cache over an existing Redis connection. Returns nil
// when no client or TTL is configured, which callers treat as cache-disabled.
func NewProductCache(r *Redis, ttl time.Duration, logger *zap.Logger) *ProductCache {
	if r == nil || r.Client == nil || ttl <= 0 {
		return nil
	}
	return &ProductCache{client: r.Client, ttl: ttl, logger: logger}
}

// Get returns the cached product or nil on miss.
func (c *ProductCache) Get(ctx context.Context, id string) *domain.Product {
	if c == nil {
		return nil
	}
	payload, err := c.client.Get(ctx, cacheKey(id)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Debug("product cache get failed", zap.String("product_id", id), zap.Error(err))
		}
		return nil
	}
	var product domain.Product
	if err := json.Unmarshal(payload, &product); err != nil {
		c.logger.Debug("product cache entry corrupt", zap.String("product_id", id), zap.Error(err))
		return nil
	}
	return &product
}

// Set stores the product under its id with the configured TTL.
func (c *ProductCache) Set(ctx context.Context, product *domain.Product) {
	if c == nil || product == nil {
		return
	}
	payload, err := json.Marshal(product)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, cacheKey(product.ID), payload, c.ttl).Err(); err != nil {
		c.logger.Debug("product cache set failed", zap.String("product_id", product.ID), zap.Error(err))
	}
}

// Invalidate drops the cache entry for the given product id.
func (c *ProductCache) Invalidate(ctx context.Context, id string) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, cacheKey(id)).Err(); err != nil {
		c.logger.Debug("product cache invalidate failed", zap.String("product_id", id), zap.Error(err))
	}
}

func cacheKey(id string) string {
	return "product:" + id
}
