package models

import "github.com/shopspring/decimal"

// OrderItem is an immutable line of a persisted order. ProductName and
// ImageURL are snapshots taken when the order was placed.
type OrderItem struct {
	ID           int64           `json:"id" db:"id"`
	OrderID      int64           `json:"order_id" db:"order_id"`
	ProductID    int64           `json:"product_id" db:"product_id"`
	Quantity     int             `json:"quantity" db:"quantity"`
	PriceAtOrder decimal.Decimal `json:"price_at_order" db:"price_at_order"`
	ProductName  string          `json:"product_name" db:"product_name"`
	ImageURL     *string         `json:"image_url" db:"image_url"`
}

// LineTotal is quantity multiplied by the captured price.
func (i *OrderItem) LineTotal() decimal.Decimal {
	return i.PriceAtOrder.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
