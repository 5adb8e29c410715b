package jobs

import (
	"context"
	"time"

	"storefront/internal/caching"
	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/sirupsen/logrus"
)

const catalogPageSize = 200

// CatalogCacheWarmer rewrites every product into the cache so that reads
// after a price change see the stored value within one interval.
type CatalogCacheWarmer struct {
	products repositories.ProductRepository
	cache    caching.CacheService
	ttl      time.Duration
	logger   *logrus.Logger
}

func NewCatalogCacheWarmer(products repositories.ProductRepository, cache caching.CacheService, ttl time.Duration, logger *logrus.Logger) *CatalogCacheWarmer {
	return &CatalogCacheWarmer{
		products: products,
		cache:    cache,
		ttl:      ttl,
		logger:   logger,
	}
}

// Run pages through the catalog. Cache write failures are counted, not fatal.
func (w *CatalogCacheWarmer) Run(ctx context.Context) error {
	cached, failed := 0, 0

	for offset := 0; ; offset += catalogPageSize {
		page, err := w.products.List(ctx, &models.ProductFilter{Limit: catalogPageSize, Offset: offset})
		if err != nil {
			return err
		}

		for _, product := range page {
			if err := w.cache.SetProduct(ctx, product, w.ttl); err != nil {
				failed++
				continue
			}
			cached++
		}

		if len(page) < catalogPageSize {
			break
		}
	}

	w.logger.WithFields(logrus.Fields{
		"cached": cached,
		"failed": failed,
	}).Info("Catalog cache refreshed")
	return nil
}
