package caching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const keyPrefix = "storefront"

// CacheService caches catalog reads. It is never consulted for order pricing,
// which must read the product row inside the order transaction.
type CacheService interface {
	GetProduct(ctx context.Context, productID int64) (*models.Product, error)
	SetProduct(ctx context.Context, product *models.Product, ttl time.Duration) error
	DeleteProduct(ctx context.Context, productID int64) error
	Ping(ctx context.Context) error
	Close() error
}

type redisCacheService struct {
	client *redis.Client
	logger *logrus.Logger
}

// NewRedisCacheService connects to addr, which may carry a redis:// or
// rediss:// scheme. A failed initial ping is logged, not fatal.
func NewRedisCacheService(addr, password string, db int, logger *logrus.Logger) CacheService {
	parsedAddr := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://")

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		logger.WithError(pingErr).WithField("address", parsedAddr).Warn("Redis ping failed on initialization")
	} else {
		logger.WithField("address", parsedAddr).Debug("Redis connection established")
	}

	return &redisCacheService{client: client, logger: logger}
}

// NewRedisCacheServiceWithClient wraps an existing client.
func NewRedisCacheServiceWithClient(client *redis.Client, logger *logrus.Logger) CacheService {
	return &redisCacheService{client: client, logger: logger}
}

func ProductKey(productID int64) string {
	return fmt.Sprintf("%s:product:%d", keyPrefix, productID)
}

func (r *redisCacheService) GetProduct(ctx context.Context, productID int64) (*models.Product, error) {
	data, err := r.client.Get(ctx, ProductKey(productID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var product models.Product
	if err := json.Unmarshal(data, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *redisCacheService) SetProduct(ctx context.Context, product *models.Product, ttl time.Duration) error {
	data, err := json.Marshal(product)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, ProductKey(product.ID), data, ttl).Err()
}

func (r *redisCacheService) DeleteProduct(ctx context.Context, productID int64) error {
	return r.client.Del(ctx, ProductKey(productID)).Err()
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *redisCacheService) Close() error {
	return r.client.Close()
}

// NopCache disables caching; every read is a miss.
type NopCache struct{}

func (NopCache) GetProduct(context.Context, int64) (*models.Product, error) { return nil, nil }

func (NopCache) SetProduct(context.Context, *models.Product, time.Duration) error { return nil }

func (NopCache) DeleteProduct(context.Context, int64) error { return nil }

func (NopCache) Ping(context.Context) error { return nil }

func (NopCache) Close() error { return nil }
