package handlers

import (
	"net/http"

	"storefront/internal/common"
	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// maxImageSize caps product image uploads at 5 MiB.
const maxImageSize = 5 << 20

// ProductHandlers handles HTTP requests for the product catalog
type ProductHandlers struct {
	productService services.ProductService
	logger         *logrus.Logger
}

// NewProductHandlers creates a new product handlers instance
func NewProductHandlers(productService services.ProductService, logger *logrus.Logger) *ProductHandlers {
	return &ProductHandlers{
		productService: productService,
		logger:         logger,
	}
}

// ProductRequest is the body of product create and update calls
type ProductRequest struct {
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    *string         `json:"image_url"`
	Category    *string         `json:"category"`
}

func (r *ProductRequest) toModel() *models.Product {
	return &models.Product{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		ImageURL:    r.ImageURL,
		Category:    r.Category,
	}
}

// CreateProduct handles POST /v1/products
//
//	@Summary	Create a product
//	@Tags		products
//	@Accept		json
//	@Produce	json
//	@Param		product	body		ProductRequest	true	"Product"
//	@Success	201		{object}	models.Product
//	@Failure	400		{object}	common.ErrorResponse
//	@Router		/v1/products [post]
func (h *ProductHandlers) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	product := req.toModel()
	if err := h.productService.CreateProduct(ctx, product); err != nil {
		return common.SendServiceError(c, h.logger, "create product", err)
	}

	return c.JSON(http.StatusCreated, product)
}

// GetProducts handles GET /v1/products
//
//	@Summary	List products
//	@Tags		products
//	@Produce	json
//	@Param		category	query	string	false	"Category filter"
//	@Param		limit		query	int		false	"Page size"
//	@Param		offset		query	int		false	"Offset"
//	@Success	200	{array}	models.Product
//	@Router		/v1/products [get]
func (h *ProductHandlers) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()

	limit, offset, err := common.ParsePagination(c)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	filter := &models.ProductFilter{Limit: limit, Offset: offset}
	if category := c.QueryParam("category"); category != "" {
		filter.Category = &category
	}

	products, err := h.productService.ListProducts(ctx, filter)
	if err != nil {
		return common.SendServiceError(c, h.logger, "list products", err)
	}

	return c.JSON(http.StatusOK, products)
}

// GetProduct handles GET /v1/products/:id
//
//	@Summary	Get a product
//	@Tags		products
//	@Produce	json
//	@Param		id	path		int	true	"Product ID"
//	@Success	200	{object}	models.Product
//	@Failure	404	{object}	common.ErrorResponse
//	@Router		/v1/products/{id} [get]
func (h *ProductHandlers) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ParseID(c.Param("id"), "product id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	product, err := h.productService.GetProduct(ctx, id)
	if err != nil {
		return common.SendServiceError(c, h.logger, "get product", err)
	}

	return c.JSON(http.StatusOK, product)
}

// UpdateProduct handles PUT /v1/products/:id
func (h *ProductHandlers) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ParseID(c.Param("id"), "product id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	product := req.toModel()
	product.ID = id
	if err := h.productService.UpdateProduct(ctx, product); err != nil {
		return common.SendServiceError(c, h.logger, "update product", err)
	}

	return c.JSON(http.StatusOK, product)
}

// DeleteProduct handles DELETE /v1/products/:id
func (h *ProductHandlers) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ParseID(c.Param("id"), "product id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	if err := h.productService.DeleteProduct(ctx, id); err != nil {
		return common.SendServiceError(c, h.logger, "delete product", err)
	}

	return c.NoContent(http.StatusNoContent)
}

// UploadProductImage handles POST /v1/products/:id/image
//
//	@Summary	Upload a product image
//	@Tags		products
//	@Accept		multipart/form-data
//	@Produce	json
//	@Param		id		path		int		true	"Product ID"
//	@Param		image	formData	file	true	"Image file"
//	@Success	200		{object}	models.Product
//	@Failure	400		{object}	common.ErrorResponse
//	@Router		/v1/products/{id}/image [post]
func (h *ProductHandlers) UploadProductImage(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ParseID(c.Param("id"), "product id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return common.SendClientError(c, "image file is required")
	}
	if fileHeader.Size > maxImageSize {
		return common.SendClientError(c, "image exceeds the 5 MiB limit")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return common.SendClientError(c, "unable to read image file")
	}
	defer file.Close()

	contentType := fileHeader.Header.Get(echo.HeaderContentType)
	product, err := h.productService.UploadProductImage(ctx, id, file, fileHeader.Size, contentType)
	if err != nil {
		return common.SendServiceError(c, h.logger, "upload product image", err)
	}

	return c.JSON(http.StatusOK, product)
}
