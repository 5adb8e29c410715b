package services

import (
	"context"
	"errors"

	"storefront/internal/events"
	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"
)

// OrderService defines the order operations exposed over HTTP
type OrderService interface {
	CreateOrder(ctx context.Context, req *models.OrderRequest) (*models.Order, error)
	GetOrder(ctx context.Context, id int64) (*models.Order, error)
	ListOrders(ctx context.Context, limit, offset int) ([]*models.Order, error)
	ListCustomerOrders(ctx context.Context, customerIdentifier string, limit, offset int) ([]*models.Order, error)
	CompleteOrder(ctx context.Context, id int64) (*models.Order, error)
}

// Stages of order creation, reported in logs when a transaction aborts.
const (
	stageValidated       = "validated"
	stageTransactionOpen = "transaction_open"
	stageItemsReconciled = "items_reconciled"
	stageOrderInserted   = "order_row_inserted"
	stageItemsInserted   = "items_inserted"
)

type orderService struct {
	pool       repositories.Pool
	reconciler *PriceReconciler
	publisher  events.Publisher
	logger     *logrus.Logger
}

// NewOrderService creates a new order service instance
func NewOrderService(pool repositories.Pool, reconciler *PriceReconciler, publisher events.Publisher, logger *logrus.Logger) OrderService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &orderService{
		pool:       pool,
		reconciler: reconciler,
		publisher:  publisher,
		logger:     logger,
	}
}

// CreateOrder validates, prices and persists an order with its items in one
// transaction. Either the header and every item are committed or nothing is.
func (s *orderService) CreateOrder(ctx context.Context, req *models.OrderRequest) (*models.Order, error) {
	if err := ValidateOrderRequest(req); err != nil {
		return nil, err
	}

	// An in-flight transaction is not cancelled by the client going away.
	txCtx := context.WithoutCancel(ctx)

	tx, err := s.pool.Begin(txCtx)
	if err != nil {
		s.logger.WithError(err).WithField("stage", stageValidated).Error("Failed to begin order transaction")
		return nil, storeError("begin transaction", err)
	}

	order, stage, err := s.persist(txCtx, tx, req)
	if err == nil {
		if err = tx.Commit(txCtx); err != nil {
			err = storeError("commit transaction", err)
		}
	}
	if err != nil {
		s.rollback(txCtx, tx)
		s.logger.WithError(err).WithFields(logrus.Fields{
			"customer_identifier": req.CustomerIdentifier,
			"items_count":         len(req.Items),
			"stage":               stage,
		}).Warn("Order transaction aborted")
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"order_id":            order.ID,
		"customer_identifier": order.CustomerIdentifier,
		"total_price":         order.TotalPrice.StringFixed(2),
		"items_count":         len(order.Items),
	}).Info("Order created successfully")

	s.publishCreated(txCtx, order)
	return order, nil
}

// persist runs every write of CreateOrder against tx and reports the last
// stage reached.
func (s *orderService) persist(ctx context.Context, tx pgx.Tx, req *models.OrderRequest) (*models.Order, string, error) {
	reconciled, err := s.reconciler.Reconcile(ctx, repositories.NewProductRepo(tx), req.Items)
	if err != nil {
		return nil, stageTransactionOpen, err
	}

	order := &models.Order{
		CustomerIdentifier: req.CustomerIdentifier,
		CustomerName:       req.CustomerName,
		TotalPrice:         reconciled.TotalPrice,
		Status:             models.OrderStatusCompleted,
	}
	if err := repositories.NewOrderRepo(tx).Create(ctx, order); err != nil {
		return nil, stageItemsReconciled, storeError("insert order", err)
	}

	itemRepo := repositories.NewOrderItemRepo(tx)
	order.Items = make([]*models.OrderItem, 0, len(reconciled.Items))
	for _, ri := range reconciled.Items {
		item := &models.OrderItem{
			OrderID:      order.ID,
			ProductID:    ri.ProductID,
			Quantity:     ri.Quantity,
			PriceAtOrder: ri.PriceAtOrder,
			ProductName:  ri.ProductName,
			ImageURL:     ri.ImageURL,
		}
		if err := itemRepo.Create(ctx, item); err != nil {
			return nil, stageOrderInserted, storeError("insert order item", err)
		}
		order.Items = append(order.Items, item)
	}

	return order, stageItemsInserted, nil
}

func (s *orderService) rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		s.logger.WithError(err).Error("Failed to roll back order transaction")
	}
}

func (s *orderService) publishCreated(ctx context.Context, order *models.Order) {
	event := events.OrderCreatedEvent{
		OrderID:            order.ID,
		CustomerIdentifier: order.CustomerIdentifier,
		TotalPrice:         order.TotalPrice,
		ItemCount:          len(order.Items),
		CreatedAt:          order.CreatedAt,
	}
	if err := s.publisher.PublishOrderCreated(ctx, event); err != nil {
		// The order is already committed.
		s.logger.WithError(err).WithField("order_id", order.ID).Error("Failed to publish order created event")
	}
}

// GetOrder returns the order header with its items in insertion order
func (s *orderService) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	order, err := repositories.NewOrderRepo(s.pool).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, &NotFoundError{Resource: "order", ID: id}
		}
		return nil, storeError("load order", err)
	}

	items, err := repositories.NewOrderItemRepo(s.pool).ListByOrderID(ctx, id)
	if err != nil {
		return nil, storeError("load order items", err)
	}
	order.Items = items
	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, limit, offset int) ([]*models.Order, error) {
	orders, err := repositories.NewOrderRepo(s.pool).List(ctx, limit, offset)
	if err != nil {
		return nil, storeError("list orders", err)
	}
	return orders, nil
}

func (s *orderService) ListCustomerOrders(ctx context.Context, customerIdentifier string, limit, offset int) ([]*models.Order, error) {
	if customerIdentifier == "" {
		return nil, newValidationError("customerIdentifier is required")
	}
	orders, err := repositories.NewOrderRepo(s.pool).ListByCustomer(ctx, customerIdentifier, limit, offset)
	if err != nil {
		return nil, storeError("list customer orders", err)
	}
	return orders, nil
}

// CompleteOrder moves a pending order to completed. Completed orders are final.
func (s *orderService) CompleteOrder(ctx context.Context, id int64) (*models.Order, error) {
	repo := repositories.NewOrderRepo(s.pool)
	order, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, &NotFoundError{Resource: "order", ID: id}
		}
		return nil, storeError("load order", err)
	}
	if order.Status != models.OrderStatusPending {
		return nil, newValidationError("order %d is already %s", id, order.Status)
	}

	if err := repo.UpdateStatus(ctx, id, models.OrderStatusCompleted); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, &NotFoundError{Resource: "order", ID: id}
		}
		return nil, storeError("update order status", err)
	}
	order.Status = models.OrderStatusCompleted

	s.logger.WithField("order_id", id).Info("Order marked completed")
	return order, nil
}
