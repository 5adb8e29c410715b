package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) CreateProduct(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	if args.Error(0) == nil {
		product.ID = 1
	}
	return args.Error(0)
}

func (m *MockProductService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductService) ListProducts(ctx context.Context, filter *models.ProductFilter) ([]*models.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*models.Product), args.Error(1)
}

func (m *MockProductService) UpdateProduct(ctx context.Context, product *models.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *MockProductService) DeleteProduct(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockProductService) UploadProductImage(ctx context.Context, id int64, reader io.Reader, size int64, contentType string) (*models.Product, error) {
	args := m.Called(ctx, id, reader, size, contentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func newProductHandlers() (*ProductHandlers, *MockProductService) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	svc := &MockProductService{}
	return NewProductHandlers(svc, logger), svc
}

func TestCreateProduct(t *testing.T) {
	h, svc := newProductHandlers()
	svc.On("CreateProduct", mock.Anything, mock.MatchedBy(func(p *models.Product) bool {
		return p.Name == "Widget" && p.Price.Equal(decimal.RequireFromString("5.00"))
	})).Return(nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/v1/products", strings.NewReader(`{"name":"Widget","price":"5.00"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	require.NoError(t, h.CreateProduct(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	svc.AssertExpectations(t)
}

func TestCreateProduct_ValidationError(t *testing.T) {
	h, svc := newProductHandlers()
	svc.On("CreateProduct", mock.Anything, mock.Anything).
		Return(&services.ValidationError{Message: "price must be greater than zero"}).Once()

	req := httptest.NewRequest(http.MethodPost, "/v1/products", strings.NewReader(`{"name":"Widget","price":0}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	require.NoError(t, h.CreateProduct(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "price must be greater than zero")
}

func TestGetProducts_CategoryFilter(t *testing.T) {
	h, svc := newProductHandlers()
	svc.On("ListProducts", mock.Anything, mock.MatchedBy(func(f *models.ProductFilter) bool {
		return f.Category != nil && *f.Category == "tools" && f.Limit == 5 && f.Offset == 10
	})).Return([]*models.Product{{ID: 1, Name: "Hammer", Price: decimal.RequireFromString("12.50")}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/v1/products?category=tools&limit=5&offset=10", nil)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	require.NoError(t, h.GetProducts(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var products []models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
	require.Len(t, products, 1)
	assert.Equal(t, "Hammer", products[0].Name)
	svc.AssertExpectations(t)
}

func TestGetProduct_NotFound(t *testing.T) {
	h, svc := newProductHandlers()
	svc.On("GetProduct", mock.Anything, int64(8)).Return(nil, &services.NotFoundError{Resource: "product", ID: int64(8)}).Once()

	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues("8")

	require.NoError(t, h.GetProduct(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateProduct_UsesPathID(t *testing.T) {
	h, svc := newProductHandlers()
	svc.On("UpdateProduct", mock.Anything, mock.MatchedBy(func(p *models.Product) bool {
		return p.ID == 4 && p.Name == "Renamed"
	})).Return(nil).Once()

	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"name":"Renamed","price":"9.99"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("4")

	require.NoError(t, h.UpdateProduct(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestDeleteProduct(t *testing.T) {
	h, svc := newProductHandlers()
	svc.On("DeleteProduct", mock.Anything, int64(4)).Return(nil).Once()

	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodDelete, "/", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues("4")

	require.NoError(t, h.DeleteProduct(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestUploadProductImage(t *testing.T) {
	h, svc := newProductHandlers()
	imageURL := "http://minio/product-images/products/6/a.png"
	svc.On("UploadProductImage", mock.Anything, int64(6), mock.Anything, int64(9), "image/png").
		Return(&models.Product{ID: 6, Name: "Widget", ImageURL: &imageURL}, nil).Once()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="image"; filename="a.png"`)
	header.Set("Content-Type", "image/png")
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte("png bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("6")

	require.NoError(t, h.UploadProductImage(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), imageURL)
	svc.AssertExpectations(t)
}

func TestUploadProductImage_MissingFile(t *testing.T) {
	h, _ := newProductHandlers()

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("6")

	require.NoError(t, h.UploadProductImage(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
