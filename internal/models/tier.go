package models

import (
	"time"

	"github.com/google/uuid"
)

// BulkPricingTier is a quantity-bracketed discount for a product,
// independent of the rule engine.
type BulkPricingTier struct {
	ID              uuid.UUID    `json:"id"`
	ProductID       string       `json:"product_id"`
	MinimumQuantity int          `json:"minimum_quantity"`
	MaximumQuantity *int         `json:"maximum_quantity,omitempty"` // nil = unbounded above
	DiscountType    DiscountType `json:"discount_type"`
	DiscountValue   float64      `json:"discount_value"`
	CustomerTier    *string      `json:"customer_tier,omitempty"` // nil = all tiers
	IsActive        bool         `json:"is_active"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}
