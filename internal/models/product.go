package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductFilter holds list criteria for catalog queries
type ProductFilter struct {
	Category *string `json:"category,omitempty"`
	Limit    int     `json:"limit,omitempty"`
	Offset   int     `json:"offset,omitempty"`
}

type Product struct {
	ID          int64           `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Description *string         `json:"description" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	ImageURL    *string         `json:"image_url" db:"image_url"`
	Category    *string         `json:"category" db:"category"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}
