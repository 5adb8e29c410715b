package handlers

import (
	"storefront/internal/middleware"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// Handlers groups every HTTP handler mounted by the server.
type Handlers struct {
	Health   *HealthHandlers
	Products *ProductHandlers
	Orders   *OrderHandlers
}

// NewRouter builds the echo instance with global middleware and all routes.
func NewRouter(h Handlers, logger *logrus.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Runs before routing so /v1/orders/ resolves to /v1/orders
	e.Pre(echoMiddleware.RemoveTrailingSlash())

	// Global middleware
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(logger))
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())

	// Health endpoints
	e.GET("/health", h.Health.HealthCheck)
	e.GET("/health/ready", h.Health.ReadinessCheck)

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := middleware.VersionRoute(e, "v1")

	// Product routes
	v1.GET("/products", h.Products.GetProducts)
	v1.POST("/products", h.Products.CreateProduct)
	v1.GET("/products/:id", h.Products.GetProduct)
	v1.PUT("/products/:id", h.Products.UpdateProduct)
	v1.DELETE("/products/:id", h.Products.DeleteProduct)
	v1.POST("/products/:id/image", h.Products.UploadProductImage)

	// Order routes
	v1.POST("/orders", h.Orders.CreateOrder)
	v1.GET("/orders", h.Orders.GetOrders)
	v1.GET("/orders/:id", h.Orders.GetOrder)
	v1.PUT("/orders/:id/complete", h.Orders.CompleteOrder)
	v1.GET("/customers/:customerIdentifier/orders", h.Orders.GetCustomerOrders)

	return e
}
