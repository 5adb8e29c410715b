package services

import (
	"context"
	"errors"

	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/shopspring/decimal"
)

// ProductReader is the single lookup reconciliation needs. Callers bind it to
// the transaction that will also perform the inserts.
type ProductReader interface {
	GetByID(ctx context.Context, id int64) (*models.Product, error)
}

// ReconciledItem is a line item priced from the catalog.
type ReconciledItem struct {
	ProductID    int64
	Quantity     int
	PriceAtOrder decimal.Decimal
	LineTotal    decimal.Decimal
	ProductName  string
	ImageURL     *string
}

// Reconciliation is the priced form of an order's line items.
type Reconciliation struct {
	Items      []ReconciledItem
	TotalPrice decimal.Decimal
}

// PriceReconciler replaces client-supplied prices with catalog prices.
type PriceReconciler struct{}

func NewPriceReconciler() *PriceReconciler {
	return &PriceReconciler{}
}

// Reconcile prices items in submission order. The first unknown product aborts
// the whole reconciliation with a *ProductNotFoundError.
func (r *PriceReconciler) Reconcile(ctx context.Context, products ProductReader, items []models.LineItemRequest) (*Reconciliation, error) {
	result := &Reconciliation{
		Items:      make([]ReconciledItem, 0, len(items)),
		TotalPrice: decimal.Zero,
	}

	for _, item := range items {
		productID := *item.ProductID
		product, err := products.GetByID(ctx, productID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, &ProductNotFoundError{ProductID: productID}
			}
			return nil, storeError("look up product price", err)
		}

		lineTotal := product.Price.Mul(decimal.NewFromInt(int64(*item.Quantity)))
		result.TotalPrice = result.TotalPrice.Add(lineTotal)
		result.Items = append(result.Items, ReconciledItem{
			ProductID:    productID,
			Quantity:     *item.Quantity,
			PriceAtOrder: product.Price,
			LineTotal:    lineTotal,
			ProductName:  *item.Name,
			ImageURL:     item.ImageURL,
		})
	}

	return result, nil
}
