package repositories

import (
	"context"

	"storefront/internal/models"
)

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id int64) (*models.Order, error)
	List(ctx context.Context, limit, offset int) ([]*models.Order, error)
	ListByCustomer(ctx context.Context, customerIdentifier string, limit, offset int) ([]*models.Order, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
}

type orderRepo struct {
	db DBTX
}

func NewOrderRepo(db DBTX) OrderRepository {
	return &orderRepo{db: db}
}

// Create inserts the order header and fills in the generated id and timestamp.
func (r *orderRepo) Create(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO orders (customer_identifier, customer_name, total_price, status, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at
	`
	return r.db.QueryRow(ctx, query, order.CustomerIdentifier, order.CustomerName, order.TotalPrice, order.Status).
		Scan(&order.ID, &order.CreatedAt)
}

func (r *orderRepo) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	order := &models.Order{}
	query := `
		SELECT id, customer_identifier, customer_name, total_price, status, created_at
		FROM orders
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&order.ID, &order.CustomerIdentifier, &order.CustomerName, &order.TotalPrice, &order.Status, &order.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return order, nil
}

func (r *orderRepo) List(ctx context.Context, limit, offset int) ([]*models.Order, error) {
	query := `
		SELECT id, customer_identifier, customer_name, total_price, status, created_at
		FROM orders
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	return r.query(ctx, query, limit, offset)
}

func (r *orderRepo) ListByCustomer(ctx context.Context, customerIdentifier string, limit, offset int) ([]*models.Order, error) {
	query := `
		SELECT id, customer_identifier, customer_name, total_price, status, created_at
		FROM orders
		WHERE customer_identifier = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	return r.query(ctx, query, customerIdentifier, limit, offset)
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	query := `UPDATE orders SET status = $1 WHERE id = $2`
	tag, err := r.db.Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *orderRepo) query(ctx context.Context, query string, args ...any) ([]*models.Order, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []*models.Order{}
	for rows.Next() {
		order := &models.Order{}
		if err := rows.Scan(&order.ID, &order.CustomerIdentifier, &order.CustomerName, &order.TotalPrice, &order.Status, &order.CreatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}
