package testhelpers

import (
	"context"
	"os"
	"testing"
	"time"

	"storefront/internal/models"
	"storefront/pkg/database"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// TestDB holds the database connection for testing
type TestDB struct {
	Pool    *pgxpool.Pool
	Cleanup func()
}

// SetupTestDB connects to TEST_DATABASE_URL, applies the schema and empties
// every table. The test is skipped when the variable is unset.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := database.Migrate(ctx, pool); err != nil {
		pool.Close()
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	db := &TestDB{Pool: pool}
	db.truncate(t)
	db.Cleanup = func() {
		db.truncate(t)
		pool.Close()
	}
	return db
}

func (db *TestDB) truncate(t *testing.T) {
	t.Helper()
	_, err := db.Pool.Exec(context.Background(), `TRUNCATE order_items, orders, products RESTART IDENTITY CASCADE`)
	if err != nil {
		t.Fatalf("Failed to truncate test tables: %v", err)
	}
}

// SetupTestProduct inserts a catalog product with the given price.
func SetupTestProduct(t *testing.T, db *TestDB, name, price string) *models.Product {
	t.Helper()

	product := &models.Product{
		Name:  name,
		Price: decimal.RequireFromString(price),
	}

	query := `
		INSERT INTO products (name, price)
		VALUES ($1, $2)
		RETURNING id, created_at
	`
	err := db.Pool.QueryRow(context.Background(), query, product.Name, product.Price).Scan(&product.ID, &product.CreatedAt)
	if err != nil {
		t.Fatalf("Failed to create test product: %v", err)
	}

	return product
}

// CountRows returns the number of rows in table.
func CountRows(t *testing.T, db *TestDB, table string) int {
	t.Helper()

	var n int
	if err := db.Pool.QueryRow(context.Background(), "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	return n
}
