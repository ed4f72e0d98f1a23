package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"storefront-service/models"
)

const (
	listCachePrefix    = "catalog:list:v"
	categoriesCacheKey = "catalog:categories:v"
	cacheVersionKey    = "catalog:version"
)

// CatalogCache caches catalog responses in Redis behind a version counter:
// bumping the version invalidates every cached page at once.
type CatalogCache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewCatalogCache(client *redis.Client, ttl time.Duration) *CatalogCache {
	return &CatalogCache{redis: client, ttl: ttl}
}

// GetProductList returns a cached product page, if present.
func (c *CatalogCache) GetProductList(ctx context.Context, params models.ProductListParams) (*models.ProductListResponse, bool) {
	version, err := c.version(ctx)
	if err != nil || version == 0 {
		return nil, false
	}

	data, err := c.redis.Get(ctx, c.listKey(version, params)).Result()
	if err != nil {
		return nil, false
	}

	var out models.ProductListResponse
	if err := json.Unmarshal([]byte(data), &out); err != nil {
		zap.L().Warn("Failed to unmarshal cached product list", zap.Error(err))
		return nil, false
	}
	return &out, true
}

// SetProductListAsync caches a product page without blocking the request.
func (c *CatalogCache) SetProductListAsync(params models.ProductListParams, response *models.ProductListResponse) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		version, err := c.version(ctx)
		if err != nil || version == 0 {
			return
		}

		data, err := json.Marshal(response)
		if err != nil {
			zap.L().Warn("Failed to marshal product list for cache", zap.Error(err))
			return
		}
		if err := c.redis.Set(ctx, c.listKey(version, params), data, c.ttl).Err(); err != nil {
			zap.L().Warn("Failed to cache product list", zap.Error(err))
		}
	}()
}

// GetCategories returns the cached category list, if present.
func (c *CatalogCache) GetCategories(ctx context.Context) ([]models.Category, bool) {
	version, err := c.version(ctx)
	if err != nil || version == 0 {
		return nil, false
	}

	data, err := c.redis.Get(ctx, categoriesCacheKey+strconv.FormatInt(version, 10)).Result()
	if err != nil {
		return nil, false
	}

	var out []models.Category
	if err := json.Unmarshal([]byte(data), &out); err != nil {
		return nil, false
	}
	return out, true
}

// SetCategoriesAsync caches the category list without blocking the request.
func (c *CatalogCache) SetCategoriesAsync(categories []models.Category) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		version, err := c.version(ctx)
		if err != nil || version == 0 {
			return
		}

		data, err := json.Marshal(categories)
		if err != nil {
			return
		}
		if err := c.redis.Set(ctx, categoriesCacheKey+strconv.FormatInt(version, 10), data, c.ttl).Err(); err != nil {
			zap.L().Warn("Failed to cache categories", zap.Error(err))
		}
	}()
}

// Invalidate drops every cached catalog response by bumping the version.
func (c *CatalogCache) Invalidate(ctx context.Context) error {
	newVersion, err := c.redis.Incr(ctx, cacheVersionKey).Result()
	if err != nil {
		return fmt.Errorf("failed to invalidate catalog cache: %w", err)
	}
	zap.L().Info("Catalog cache invalidated", zap.Int64("new_version", newVersion))
	return nil
}

// version reads the current cache version, initializing it on first use.
func (c *CatalogCache) version(ctx context.Context) (int64, error) {
	version, err := c.redis.Get(ctx, cacheVersionKey).Int64()
	if err == redis.Nil {
		if err := c.redis.Set(ctx, cacheVersionKey, 1, 0).Err(); err != nil {
			return 0, err
		}
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	return version, nil
}

func (c *CatalogCache) listKey(version int64, params models.ProductListParams) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s%d:s=%s:c=%s:o=%s:z=%s", listCachePrefix, version,
		params.Search, params.Category, params.Sort, strings.Join(params.Sizes, "|"))
	if params.MinPrice != nil {
		fmt.Fprintf(&sb, ":min=%g", *params.MinPrice)
	}
	if params.MaxPrice != nil {
		fmt.Fprintf(&sb, ":max=%g", *params.MaxPrice)
	}
	fmt.Fprintf(&sb, ":l=%d:f=%d", params.Limit, params.Offset)
	return sb.String()
}
