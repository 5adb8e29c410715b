package handlers

import (
	"net/http"

	"storefront/internal/common"
	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// OrderHandlers handles HTTP requests for orders
type OrderHandlers struct {
	orderService services.OrderService
	logger       *logrus.Logger
}

// NewOrderHandlers creates a new order handlers instance
func NewOrderHandlers(orderService services.OrderService, logger *logrus.Logger) *OrderHandlers {
	return &OrderHandlers{
		orderService: orderService,
		logger:       logger,
	}
}

// CreateOrderResponse is returned by POST /v1/orders
type CreateOrderResponse struct {
	OrderID            int64   `json:"order_id"`
	CustomerIdentifier string  `json:"customerIdentifier"`
	CustomerName       string  `json:"customerName"`
	TotalPrice         float64 `json:"total_price"`
	Status             string  `json:"status"`
	Message            string  `json:"message"`
}

// CreateOrder handles POST /v1/orders
//
//	@Summary	Create an order
//	@Tags		orders
//	@Accept		json
//	@Produce	json
//	@Param		order	body		models.OrderRequest	true	"Order"
//	@Success	201		{object}	CreateOrderResponse
//	@Failure	400		{object}	common.ErrorResponse
//	@Failure	500		{object}	common.ErrorResponse
//	@Router		/v1/orders [post]
func (h *OrderHandlers) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.OrderRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	order, err := h.orderService.CreateOrder(ctx, &req)
	if err != nil {
		return common.SendServiceError(c, h.logger, "create order", err)
	}

	return c.JSON(http.StatusCreated, CreateOrderResponse{
		OrderID:            order.ID,
		CustomerIdentifier: order.CustomerIdentifier,
		CustomerName:       order.CustomerName,
		TotalPrice:         order.TotalPrice.Round(2).InexactFloat64(),
		Status:             order.Status,
		Message:            "Order created successfully",
	})
}

// GetOrders handles GET /v1/orders
//
//	@Summary	List orders
//	@Tags		orders
//	@Produce	json
//	@Param		limit	query	int	false	"Page size"
//	@Param		offset	query	int	false	"Offset"
//	@Success	200	{array}		models.Order
//	@Failure	400	{object}	common.ErrorResponse
//	@Router		/v1/orders [get]
func (h *OrderHandlers) GetOrders(c echo.Context) error {
	ctx := c.Request().Context()

	limit, offset, err := common.ParsePagination(c)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	orders, err := h.orderService.ListOrders(ctx, limit, offset)
	if err != nil {
		return common.SendServiceError(c, h.logger, "list orders", err)
	}

	return c.JSON(http.StatusOK, orders)
}

// GetOrder handles GET /v1/orders/:id
//
//	@Summary	Get an order with its items
//	@Tags		orders
//	@Produce	json
//	@Param		id	path		int	true	"Order ID"
//	@Success	200	{object}	models.Order
//	@Failure	404	{object}	common.ErrorResponse
//	@Router		/v1/orders/{id} [get]
func (h *OrderHandlers) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ParseID(c.Param("id"), "order id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	order, err := h.orderService.GetOrder(ctx, id)
	if err != nil {
		return common.SendServiceError(c, h.logger, "get order", err)
	}

	return c.JSON(http.StatusOK, order)
}

// GetCustomerOrders handles GET /v1/customers/:customerIdentifier/orders
//
//	@Summary	List a customer's orders, newest first
//	@Tags		orders
//	@Produce	json
//	@Param		customerIdentifier	path	string	true	"Customer identifier"
//	@Param		limit				query	int		false	"Page size"
//	@Param		offset				query	int		false	"Offset"
//	@Success	200	{array}		models.Order
//	@Failure	400	{object}	common.ErrorResponse
//	@Router		/v1/customers/{customerIdentifier}/orders [get]
func (h *OrderHandlers) GetCustomerOrders(c echo.Context) error {
	ctx := c.Request().Context()

	limit, offset, err := common.ParsePagination(c)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	orders, err := h.orderService.ListCustomerOrders(ctx, c.Param("customerIdentifier"), limit, offset)
	if err != nil {
		return common.SendServiceError(c, h.logger, "list customer orders", err)
	}

	return c.JSON(http.StatusOK, orders)
}

// CompleteOrder handles PUT /v1/orders/:id/complete
//
//	@Summary	Mark a pending order completed
//	@Tags		orders
//	@Produce	json
//	@Param		id	path		int	true	"Order ID"
//	@Success	200	{object}	models.Order
//	@Failure	400	{object}	common.ErrorResponse
//	@Failure	404	{object}	common.ErrorResponse
//	@Router		/v1/orders/{id}/complete [put]
func (h *OrderHandlers) CompleteOrder(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ParseID(c.Param("id"), "order id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	order, err := h.orderService.CompleteOrder(ctx, id)
	if err != nil {
		return common.SendServiceError(c, h.logger, "complete order", err)
	}

	return c.JSON(http.StatusOK, order)
}
