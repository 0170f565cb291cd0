package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pricegrid/dynamic-pricing-service/internal/models"
)

type TierRepo struct {
	db *sql.DB
}

func NewTierRepo(db *sql.DB) *TierRepo {
	return &TierRepo{db: db}
}

// ListActiveTiers returns the active bulk tiers matching the quantity,
// highest minimum_quantity first, so the first row is the most specific
// bracket for that quantity.
func (r *TierRepo) ListActiveTiers(ctx context.Context, productID string, quantity int) ([]models.BulkPricingTier, error) {
	query := `
		SELECT id, product_id, minimum_quantity, maximum_quantity,
		       discount_type, discount_value, customer_tier, is_active,
		       created_at, updated_at
		FROM bulk_pricing_tiers
		WHERE product_id = $1
		  AND is_active = TRUE
		  AND minimum_quantity <= $2
		  AND (maximum_quantity IS NULL OR maximum_quantity >= $2)
		ORDER BY minimum_quantity DESC
	`

	rows, err := r.db.QueryContext(ctx, query, productID, quantity)
	if err != nil {
		return nil, fmt.Errorf("list active tiers: %w", err)
	}
	defer rows.Close()

	var tiers []models.BulkPricingTier
	for rows.Next() {
		var t models.BulkPricingTier
		err := rows.Scan(
			&t.ID,
			&t.ProductID,
			&t.MinimumQuantity,
			&t.MaximumQuantity,
			&t.DiscountType,
			&t.DiscountValue,
			&t.CustomerTier,
			&t.IsActive,
			&t.CreatedAt,
			&t.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan tier: %w", err)
		}
		tiers = append(tiers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan tiers: %w", err)
	}
	return tiers, nil
}
