package services

import (
	"math"
	"strings"

	"storefront/internal/models"
)

// ValidateOrderRequest checks the shape of a create-order request. It is pure
// and stops at the first problem found.
func ValidateOrderRequest(req *models.OrderRequest) error {
	if req == nil {
		return newValidationError("order request is required")
	}
	if len(req.Items) == 0 {
		return newValidationError("order must contain at least one item")
	}
	if strings.TrimSpace(req.CustomerIdentifier) == "" {
		return newValidationError("customerIdentifier is required")
	}
	if strings.TrimSpace(req.CustomerName) == "" {
		return newValidationError("customerName is required")
	}

	for i := range req.Items {
		if err := validateLineItem(i+1, &req.Items[i]); err != nil {
			return err
		}
	}
	return nil
}

func validateLineItem(pos int, item *models.LineItemRequest) error {
	if item.ProductID == nil || *item.ProductID <= 0 {
		return newValidationError("item %d: product_id is required", pos)
	}
	if item.Quantity == nil {
		return newValidationError("item %d: quantity is required", pos)
	}
	if item.Name == nil || strings.TrimSpace(*item.Name) == "" {
		return newValidationError("item %d: name is required", pos)
	}
	if item.PriceAtOrder == nil {
		return newValidationError("item %d: price_at_order is required", pos)
	}
	if *item.Quantity <= 0 {
		return newValidationError("item %d: quantity must be greater than zero", pos)
	}
	if *item.Quantity > math.MaxInt32 {
		return newValidationError("item %d: quantity must not exceed %d", pos, math.MaxInt32)
	}
	return nil
}
