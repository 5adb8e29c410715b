package repositories

import (
	"context"
	"fmt"

	"storefront/internal/models"
)

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	UpdateImageURL(ctx context.Context, id int64, imageURL string) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter *models.ProductFilter) ([]*models.Product, error)
}

type productRepo struct {
	db DBTX
}

func NewProductRepo(db DBTX) ProductRepository {
	return &productRepo{db: db}
}

func (r *productRepo) Create(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (name, description, price, image_url, category, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, created_at
	`
	return r.db.QueryRow(ctx, query, product.Name, product.Description, product.Price, product.ImageURL, product.Category).
		Scan(&product.ID, &product.CreatedAt)
}

func (r *productRepo) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	product := &models.Product{}
	query := `
		SELECT id, name, description, price, image_url, category, created_at
		FROM products
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&product.ID, &product.Name, &product.Description, &product.Price, &product.ImageURL, &product.Category, &product.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return product, nil
}

func (r *productRepo) Update(ctx context.Context, product *models.Product) error {
	query := `
		UPDATE products
		SET name = $1, description = $2, price = $3, image_url = COALESCE($4, image_url), category = $5
		WHERE id = $6
	`
	tag, err := r.db.Exec(ctx, query, product.Name, product.Description, product.Price, product.ImageURL, product.Category, product.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productRepo) UpdateImageURL(ctx context.Context, id int64, imageURL string) error {
	query := `UPDATE products SET image_url = $1 WHERE id = $2`
	tag, err := r.db.Exec(ctx, query, imageURL, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productRepo) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM products WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productRepo) List(ctx context.Context, filter *models.ProductFilter) ([]*models.Product, error) {
	if filter.Limit == 0 {
		filter.Limit = 50
	}

	query := `
		SELECT id, name, description, price, image_url, category, created_at
		FROM products
	`
	args := []any{}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		query += fmt.Sprintf(` WHERE category = $%d`, len(args))
	}
	args = append(args, filter.Limit, filter.Offset)
	query += fmt.Sprintf(` ORDER BY id LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []*models.Product{}
	for rows.Next() {
		product := &models.Product{}
		if err := rows.Scan(&product.ID, &product.Name, &product.Description, &product.Price, &product.ImageURL, &product.Category, &product.CreatedAt); err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}
