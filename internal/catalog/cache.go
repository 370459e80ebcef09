// internal/catalog/cache.go
package catalog

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"compare-workers/internal/common/logger"
	"compare-workers/internal/common/metrics"
	"compare-workers/internal/models"
)

const (
	DefaultCacheTTL    = 5 * time.Minute
	DefaultCachePrefix = "comparex:attributes:"
)

// CachedCatalog puts a Redis cache-aside in front of an AttributeCatalog.
// Redis failures are logged and the underlying catalog is used directly.
type CachedCatalog struct {
	next   AttributeCatalog
	redis  redis.Cmdable
	ttl    time.Duration
	prefix string
	logger logger.Logger
}

func NewCachedCatalog(next AttributeCatalog, rdb redis.Cmdable, ttl time.Duration, prefix string, log logger.Logger) *CachedCatalog {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if prefix == "" {
		prefix = DefaultCachePrefix
	}
	return &CachedCatalog{next: next, redis: rdb, ttl: ttl, prefix: prefix, logger: log}
}

func (c *CachedCatalog) Key(categoryID int64) string {
	return c.prefix + strconv.FormatInt(categoryID, 10)
}

func (c *CachedCatalog) ListAttributes(ctx context.Context, categoryID int64) ([]models.AttributeDefinition, error) {
	key := c.Key(categoryID)

	cached, err := c.redis.Get(ctx, key).Result()
	switch {
	case err == nil:
		var defs []models.AttributeDefinition
		if jsonErr := json.Unmarshal([]byte(cached), &defs); jsonErr == nil {
			metrics.CatalogCacheLookups.WithLabelValues("hit").Inc()
			return defs, nil
		}
		c.logger.Warn("discarding corrupt attribute cache entry", map[string]interface{}{"key": key})
		metrics.CatalogCacheLookups.WithLabelValues("error").Inc()
	case stderrors.Is(err, redis.Nil):
		metrics.CatalogCacheLookups.WithLabelValues("miss").Inc()
	default:
		c.logger.Warn("attribute cache read failed", map[string]interface{}{"key": key, "error": err.Error()})
		metrics.CatalogCacheLookups.WithLabelValues("error").Inc()
	}

	defs, err := c.next.ListAttributes(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(defs)
	if err == nil {
		if err := c.redis.Set(ctx, key, string(payload), c.ttl).Err(); err != nil {
			c.logger.Warn("attribute cache write failed", map[string]interface{}{"key": key, "error": err.Error()})
		}
	}
	return defs, nil
}

// Invalidate drops the cached definitions of a category.
func (c *CachedCatalog) Invalidate(ctx context.Context, categoryID int64) error {
	return c.redis.Del(ctx, c.Key(categoryID)).Err()
}
