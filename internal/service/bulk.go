package service

import (
	"context"
	"fmt"

	"github.com/pricegrid/dynamic-pricing-service/internal/models"
	"github.com/pricegrid/dynamic-pricing-service/pkg/metrics"
)

// CalculateBulkPrice resolves quantity-tiered pricing for a product. It is
// deliberately independent of the rule engine; callers that want both must
// invoke both entry points and reconcile the results themselves. A nil
// result with a nil error means no bulk pricing applies.
func (s *PricingService) CalculateBulkPrice(ctx context.Context, productID string, basePrice float64, quantity int, customerTier string) (*models.BulkDiscount, error) {
	if productID == "" {
		return nil, fmt.Errorf("product id is required")
	}
	if basePrice < 0 {
		return nil, fmt.Errorf("base price must be non-negative")
	}
	if quantity < 1 {
		quantity = 1
	}

	tiers, err := s.tiers.ListActiveTiers(ctx, productID, quantity)
	if err != nil {
		return nil, fmt.Errorf("fetch bulk tiers: %w", err)
	}

	tier := selectTier(quantity, tiers)
	if tier == nil {
		metrics.BulkPricingMisses.Inc()
		return nil, nil
	}
	// a tier restricted to a customer tier never matches a different or
	// absent caller tier
	if tier.CustomerTier != nil && *tier.CustomerTier != customerTier {
		metrics.BulkPricingMisses.Inc()
		return nil, nil
	}

	originalPrice := basePrice * float64(quantity)
	var bulkPrice float64
	switch tier.DiscountType {
	case models.DiscountPercentage:
		bulkPrice = originalPrice - originalPrice*tier.DiscountValue/100
	case models.DiscountFixedAmount:
		bulkPrice = originalPrice - tier.DiscountValue
	case models.DiscountFixedPrice:
		// configured value is a price per unit
		bulkPrice = tier.DiscountValue * float64(quantity)
	default:
		s.log.Warn().Str("tier_id", tier.ID.String()).Str("discount_type", string(tier.DiscountType)).Msg("unknown tier discount type, no bulk pricing")
		metrics.BulkPricingMisses.Inc()
		return nil, nil
	}

	if bulkPrice < 0 {
		bulkPrice = 0
	}

	tierName := "retail"
	if tier.CustomerTier != nil {
		tierName = *tier.CustomerTier
	}
	metrics.BulkPricingHits.Inc()

	return &models.BulkDiscount{
		OriginalPrice: originalPrice,
		BulkPrice:     bulkPrice,
		Savings:       originalPrice - bulkPrice,
		Tier:          tierName,
	}, nil
}

// selectTier picks the bracket with the highest minimum_quantity that admits
// the quantity; the most specific tier wins.
func selectTier(quantity int, tiers []models.BulkPricingTier) *models.BulkPricingTier {
	var best *models.BulkPricingTier
	for i := range tiers {
		t := &tiers[i]
		if t.MinimumQuantity > quantity {
			continue
		}
		if t.MaximumQuantity != nil && *t.MaximumQuantity < quantity {
			continue
		}
		if best == nil || t.MinimumQuantity > best.MinimumQuantity {
			best = t
		}
	}
	return best
}
