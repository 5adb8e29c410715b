package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) UpdateImageURL(ctx context.Context, id int64, imageURL string) error {
	args := m.Called(ctx, id, imageURL)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) List(ctx context.Context, filter *models.ProductFilter) ([]*models.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*models.Product), args.Error(1)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetProduct(ctx context.Context, productID int64) (*models.Product, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockCacheService) SetProduct(ctx context.Context, product *models.Product, ttl time.Duration) error {
	args := m.Called(ctx, product, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteProduct(ctx context.Context, productID int64) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockCacheService) Close() error {
	return nil
}

type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) UploadImage(ctx context.Context, objectName string, reader io.Reader, objectSize int64, contentType string) (string, error) {
	args := m.Called(ctx, objectName, reader, objectSize, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockImageStore) DeleteImage(ctx context.Context, objectName string) error {
	return m.Called(ctx, objectName).Error(0)
}

func (m *MockImageStore) EnsureBucketExists(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type ProductServiceTestSuite struct {
	suite.Suite
	repo    *MockProductRepository
	cache   *MockCacheService
	images  *MockImageStore
	service ProductService
	ctx     context.Context
}

func (suite *ProductServiceTestSuite) SetupTest() {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	suite.repo = &MockProductRepository{}
	suite.cache = &MockCacheService{}
	suite.images = &MockImageStore{}
	suite.service = NewProductService(suite.repo, suite.cache, suite.images, time.Minute, logger)
	suite.ctx = context.Background()
}

func (suite *ProductServiceTestSuite) TearDownTest() {
	suite.repo.AssertExpectations(suite.T())
	suite.cache.AssertExpectations(suite.T())
	suite.images.AssertExpectations(suite.T())
}

func TestProductServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ProductServiceTestSuite))
}

func (suite *ProductServiceTestSuite) TestCreateProduct_RejectsNonPositivePrice() {
	err := suite.service.CreateProduct(suite.ctx, &models.Product{Name: "Free", Price: decimal.Zero})

	var validationErr *ValidationError
	assert.True(suite.T(), errors.As(err, &validationErr))
}

func (suite *ProductServiceTestSuite) TestCreateProduct_Success() {
	p := &models.Product{Name: "Widget", Price: decimal.RequireFromString("5.00")}
	suite.repo.On("Create", suite.ctx, p).Return(nil).Once()

	assert.NoError(suite.T(), suite.service.CreateProduct(suite.ctx, p))
}

func (suite *ProductServiceTestSuite) TestGetProduct_CacheHit() {
	cached := product(1, "Widget", "5.00")
	suite.cache.On("GetProduct", suite.ctx, int64(1)).Return(cached, nil).Once()

	got, err := suite.service.GetProduct(suite.ctx, 1)
	assert.NoError(suite.T(), err)
	assert.Same(suite.T(), cached, got)
	suite.repo.AssertNotCalled(suite.T(), "GetByID", mock.Anything, mock.Anything)
}

func (suite *ProductServiceTestSuite) TestGetProduct_CacheMissPopulatesCache() {
	stored := product(2, "Gadget", "7.00")
	suite.cache.On("GetProduct", suite.ctx, int64(2)).Return(nil, nil).Once()
	suite.repo.On("GetByID", suite.ctx, int64(2)).Return(stored, nil).Once()
	suite.cache.On("SetProduct", suite.ctx, stored, time.Minute).Return(nil).Once()

	got, err := suite.service.GetProduct(suite.ctx, 2)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Gadget", got.Name)
}

func (suite *ProductServiceTestSuite) TestGetProduct_CacheErrorFallsBackToStore() {
	stored := product(2, "Gadget", "7.00")
	suite.cache.On("GetProduct", suite.ctx, int64(2)).Return(nil, errors.New("redis down")).Once()
	suite.repo.On("GetByID", suite.ctx, int64(2)).Return(stored, nil).Once()
	suite.cache.On("SetProduct", suite.ctx, stored, time.Minute).Return(errors.New("redis down")).Once()

	got, err := suite.service.GetProduct(suite.ctx, 2)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(2), got.ID)
}

func (suite *ProductServiceTestSuite) TestGetProduct_NotFound() {
	suite.cache.On("GetProduct", suite.ctx, int64(3)).Return(nil, nil).Once()
	suite.repo.On("GetByID", suite.ctx, int64(3)).Return(nil, repositories.ErrNotFound).Once()

	_, err := suite.service.GetProduct(suite.ctx, 3)

	var notFound *NotFoundError
	assert.True(suite.T(), errors.As(err, &notFound))
}

func (suite *ProductServiceTestSuite) TestUpdateProduct_InvalidatesCache() {
	p := product(4, "Renamed", "9.99")
	suite.repo.On("Update", suite.ctx, p).Return(nil).Once()
	suite.cache.On("DeleteProduct", suite.ctx, int64(4)).Return(nil).Once()

	assert.NoError(suite.T(), suite.service.UpdateProduct(suite.ctx, p))
}

func (suite *ProductServiceTestSuite) TestDeleteProduct_ReferencedByOrders() {
	suite.repo.On("Delete", suite.ctx, int64(5)).Return(&pgconn.PgError{Code: "23503"}).Once()

	err := suite.service.DeleteProduct(suite.ctx, 5)

	var validationErr *ValidationError
	assert.True(suite.T(), errors.As(err, &validationErr))
	suite.cache.AssertNotCalled(suite.T(), "DeleteProduct", mock.Anything, mock.Anything)
}

func (suite *ProductServiceTestSuite) TestUploadProductImage_Success() {
	data := []byte("png bytes")
	reader := bytes.NewReader(data)
	suite.repo.On("GetByID", suite.ctx, int64(6)).Return(product(6, "Widget", "5.00"), nil).Once()
	suite.images.On("UploadImage", suite.ctx, mock.MatchedBy(func(name string) bool {
		return strings.HasPrefix(name, "products/6/") && strings.HasSuffix(name, ".png")
	}), reader, int64(len(data)), "image/png").Return("http://minio/bucket/products/6/x.png", nil).Once()
	suite.repo.On("UpdateImageURL", suite.ctx, int64(6), "http://minio/bucket/products/6/x.png").Return(nil).Once()
	suite.cache.On("DeleteProduct", suite.ctx, int64(6)).Return(nil).Once()

	got, err := suite.service.UploadProductImage(suite.ctx, 6, reader, int64(len(data)), "image/png")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "http://minio/bucket/products/6/x.png", *got.ImageURL)
}

func (suite *ProductServiceTestSuite) TestUploadProductImage_RejectsUnknownType() {
	_, err := suite.service.UploadProductImage(suite.ctx, 6, bytes.NewReader(nil), 0, "text/plain")

	var validationErr *ValidationError
	assert.True(suite.T(), errors.As(err, &validationErr))
}

func (suite *ProductServiceTestSuite) TestUploadProductImage_RemovesObjectWhenUpdateFails() {
	reader := bytes.NewReader([]byte("jpg"))
	suite.repo.On("GetByID", suite.ctx, int64(6)).Return(product(6, "Widget", "5.00"), nil).Once()
	suite.images.On("UploadImage", suite.ctx, mock.Anything, reader, int64(3), "image/jpeg").Return("http://minio/x.jpg", nil).Once()
	suite.repo.On("UpdateImageURL", suite.ctx, int64(6), "http://minio/x.jpg").Return(errors.New("db down")).Once()
	suite.images.On("DeleteImage", suite.ctx, mock.Anything).Return(nil).Once()

	_, err := suite.service.UploadProductImage(suite.ctx, 6, reader, 3, "image/jpeg")

	var storeErr *StoreError
	assert.True(suite.T(), errors.As(err, &storeErr))
}
