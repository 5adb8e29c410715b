package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Execer is satisfied by *pgxpool.Pool, pgx.Tx and pgxmock pools.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// SchemaStatements creates the catalog and order tables. Every statement is
// idempotent so Migrate can run on each deploy.
var SchemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		description TEXT,
		price NUMERIC(10,2) NOT NULL CHECK (price > 0),
		image_url TEXT,
		category VARCHAR(100),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id BIGSERIAL PRIMARY KEY,
		customer_identifier VARCHAR(255) NOT NULL,
		customer_name VARCHAR(255) NOT NULL,
		total_price NUMERIC(12,2) NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'completed')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id BIGSERIAL PRIMARY KEY,
		order_id BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		product_id BIGINT NOT NULL REFERENCES products(id),
		quantity INTEGER NOT NULL CHECK (quantity > 0),
		price_at_order NUMERIC(10,2) NOT NULL,
		product_name VARCHAR(255) NOT NULL,
		image_url TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_customer_identifier ON orders(customer_identifier)`,
	`CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id)`,
	`CREATE INDEX IF NOT EXISTS idx_products_category ON products(category)`,
}

// Migrate applies SchemaStatements in order, stopping at the first failure.
func Migrate(ctx context.Context, db Execer) error {
	for i, stmt := range SchemaStatements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
