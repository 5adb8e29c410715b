package repositories

import (
	"context"

	"storefront/internal/models"
)

type OrderItemRepository interface {
	Create(ctx context.Context, orderItem *models.OrderItem) error
	ListByOrderID(ctx context.Context, orderID int64) ([]*models.OrderItem, error)
}

type orderItemRepo struct {
	db DBTX
}

func NewOrderItemRepo(db DBTX) OrderItemRepository {
	return &orderItemRepo{db: db}
}

func (r *orderItemRepo) Create(ctx context.Context, orderItem *models.OrderItem) error {
	query := `
		INSERT INTO order_items (order_id, product_id, quantity, price_at_order, product_name, image_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	return r.db.QueryRow(ctx, query, orderItem.OrderID, orderItem.ProductID, orderItem.Quantity, orderItem.PriceAtOrder, orderItem.ProductName, orderItem.ImageURL).
		Scan(&orderItem.ID)
}

func (r *orderItemRepo) ListByOrderID(ctx context.Context, orderID int64) ([]*models.OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, quantity, price_at_order, product_name, image_url
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`
	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []*models.OrderItem{}
	for rows.Next() {
		item := &models.OrderItem{}
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.PriceAtOrder, &item.ProductName, &item.ImageURL); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
