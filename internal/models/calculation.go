package models

// PricingContext carries the runtime inputs that influence rule eligibility.
type PricingContext struct {
	Quantity     int    // defaults to 1 when < 1
	CustomerTier string // empty = unknown
	CategoryID   string // empty = no category-scoped rules fetched
	CurrentStock *int   // nil = stock unknown, inventory rules not gated
	UserID       string
}

// PriceCalculation is the result of a rule-based price computation.
// It is returned to the caller and never persisted.
type PriceCalculation struct {
	BasePrice          float64       `json:"base_price"`
	DiscountedPrice    float64       `json:"discounted_price"`
	DiscountAmount     float64       `json:"discount_amount"`
	DiscountPercentage float64       `json:"discount_percentage"`
	AppliedRules       []PricingRule `json:"applied_rules"`
	BulkDiscount       *BulkDiscount `json:"bulk_discount,omitempty"`
}

// BulkDiscount is the result of the bulk-pricing path.
type BulkDiscount struct {
	OriginalPrice float64 `json:"original_price"`
	BulkPrice     float64 `json:"bulk_price"`
	Savings       float64 `json:"savings"`
	Tier          string  `json:"tier"`
}
