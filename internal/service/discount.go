package service

import (
	"fmt"

	"github.com/pricegrid/dynamic-pricing-service/internal/models"
)

// computeDiscount turns a rule's action spec into a discount amount off the
// current running price. The result is clamped to [0, max_discount] and, for
// order-scoped actions, amortized across the quantity. A zero return means
// the rule does not apply.
func computeDiscount(actions models.RuleActions, currentPrice float64, quantity int) (float64, error) {
	var discount float64

	switch actions.DiscountType {
	case models.DiscountPercentage:
		discount = currentPrice * actions.DiscountValue / 100
	case models.DiscountFixedAmount:
		discount = actions.DiscountValue
	case models.DiscountFixedPrice:
		// negative when the target price is above the running price; the
		// final clamp turns that into "no discount"
		discount = currentPrice - actions.DiscountValue
	default:
		return 0, fmt.Errorf("unknown discount type %q", actions.DiscountType)
	}

	if actions.MaxDiscount != nil && discount > *actions.MaxDiscount {
		discount = *actions.MaxDiscount
	}

	// order-scoped values are configured per order and amortized per unit
	if actions.ApplyTo == models.ApplyToOrder && quantity > 0 {
		discount /= float64(quantity)
	}

	if discount < 0 {
		discount = 0
	}
	return discount, nil
}
