package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
)

// OrderRequest is the create-order payload. Line item fields are pointers so
// that absent keys can be told apart from zero values.
type OrderRequest struct {
	CustomerIdentifier string            `json:"customerIdentifier"`
	CustomerName       string            `json:"customerName"`
	Items              []LineItemRequest `json:"items"`
}

// LineItemRequest is one product and quantity within an OrderRequest.
// PriceAtOrder is advisory; the stored price always comes from the catalog.
type LineItemRequest struct {
	ProductID    *int64           `json:"product_id"`
	Quantity     *int             `json:"quantity"`
	Name         *string          `json:"name"`
	PriceAtOrder *decimal.Decimal `json:"price_at_order"`
	ImageURL     *string          `json:"image_url"`
}

type Order struct {
	ID                 int64           `json:"id" db:"id"`
	CustomerIdentifier string          `json:"customer_identifier" db:"customer_identifier"`
	CustomerName       string          `json:"customer_name" db:"customer_name"`
	TotalPrice         decimal.Decimal `json:"total_price" db:"total_price"`
	Status             string          `json:"status" db:"status"`
	CreatedAt          time.Time       `json:"created_at" db:"created_at"`
	Items              []*OrderItem    `json:"items,omitempty"`
}
