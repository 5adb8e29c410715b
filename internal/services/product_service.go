package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"storefront/internal/caching"
	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
)

// foreign_key_violation
const pgForeignKeyViolation = "23503"

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// ProductService defines catalog operations
type ProductService interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	ListProducts(ctx context.Context, filter *models.ProductFilter) ([]*models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id int64) error
	UploadProductImage(ctx context.Context, id int64, reader io.Reader, size int64, contentType string) (*models.Product, error)
}

type productService struct {
	productRepo repositories.ProductRepository
	cacheSvc    caching.CacheService
	imageStore  ImageStore
	cacheTTL    time.Duration
	logger      *logrus.Logger
}

// NewProductService creates a catalog service. imageStore may be nil, in
// which case uploads are rejected.
func NewProductService(productRepo repositories.ProductRepository, cacheSvc caching.CacheService, imageStore ImageStore, cacheTTL time.Duration, logger *logrus.Logger) ProductService {
	if cacheSvc == nil {
		cacheSvc = caching.NopCache{}
	}
	return &productService{
		productRepo: productRepo,
		cacheSvc:    cacheSvc,
		imageStore:  imageStore,
		cacheTTL:    cacheTTL,
		logger:      logger,
	}
}

func validateProduct(product *models.Product) error {
	if strings.TrimSpace(product.Name) == "" {
		return newValidationError("product name is required")
	}
	if !product.Price.IsPositive() {
		return newValidationError("product price must be greater than zero")
	}
	return nil
}

func (s *productService) CreateProduct(ctx context.Context, product *models.Product) error {
	if err := validateProduct(product); err != nil {
		return err
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return storeError("create product", err)
	}
	return nil
}

// GetProduct reads through the cache. Cache failures fall back to the store.
func (s *productService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	cached, err := s.cacheSvc.GetProduct(ctx, id)
	if err != nil {
		s.logger.WithError(err).WithField("product_id", id).Warn("Product cache read failed")
	} else if cached != nil {
		return cached, nil
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, &NotFoundError{Resource: "product", ID: id}
		}
		return nil, storeError("load product", err)
	}

	if err := s.cacheSvc.SetProduct(ctx, product, s.cacheTTL); err != nil {
		s.logger.WithError(err).WithField("product_id", id).Warn("Product cache write failed")
	}
	return product, nil
}

func (s *productService) ListProducts(ctx context.Context, filter *models.ProductFilter) ([]*models.Product, error) {
	if filter == nil {
		filter = &models.ProductFilter{}
	}
	products, err := s.productRepo.List(ctx, filter)
	if err != nil {
		return nil, storeError("list products", err)
	}
	return products, nil
}

func (s *productService) UpdateProduct(ctx context.Context, product *models.Product) error {
	if err := validateProduct(product); err != nil {
		return err
	}
	if err := s.productRepo.Update(ctx, product); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return &NotFoundError{Resource: "product", ID: product.ID}
		}
		return storeError("update product", err)
	}
	s.invalidate(ctx, product.ID)
	return nil
}

func (s *productService) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return &NotFoundError{Resource: "product", ID: id}
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return newValidationError("product %d is referenced by existing orders", id)
		}
		return storeError("delete product", err)
	}
	s.invalidate(ctx, id)
	return nil
}

// UploadProductImage stores the image under products/<id>/ and points the
// product's image_url at it.
func (s *productService) UploadProductImage(ctx context.Context, id int64, reader io.Reader, size int64, contentType string) (*models.Product, error) {
	if s.imageStore == nil {
		return nil, storeError("upload image", errors.New("image storage is not configured"))
	}
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return nil, newValidationError("unsupported image type %q", contentType)
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, &NotFoundError{Resource: "product", ID: id}
		}
		return nil, storeError("load product", err)
	}

	objectName := path.Join("products", fmt.Sprint(id), uuid.NewString()+ext)
	url, err := s.imageStore.UploadImage(ctx, objectName, reader, size, contentType)
	if err != nil {
		return nil, storeError("upload image", err)
	}

	if err := s.productRepo.UpdateImageURL(ctx, id, url); err != nil {
		if delErr := s.imageStore.DeleteImage(ctx, objectName); delErr != nil {
			s.logger.WithError(delErr).WithField("object", objectName).Warn("Failed to remove orphaned image")
		}
		return nil, storeError("update product image", err)
	}

	product.ImageURL = &url
	s.invalidate(ctx, id)
	return product, nil
}

func (s *productService) invalidate(ctx context.Context, id int64) {
	if err := s.cacheSvc.DeleteProduct(ctx, id); err != nil {
		s.logger.WithError(err).WithField("product_id", id).Warn("Product cache invalidation failed")
	}
}
