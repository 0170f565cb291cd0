package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pricegrid/dynamic-pricing-service/internal/models"
)

func TestComputeDiscount(t *testing.T) {
	tests := []struct {
		name         string
		actions      models.RuleActions
		currentPrice float64
		quantity     int
		want         float64
	}{
		{
			name:         "percentage",
			actions:      models.RuleActions{DiscountType: models.DiscountPercentage, DiscountValue: 10},
			currentPrice: 90,
			quantity:     1,
			want:         9,
		},
		{
			name:         "fixed amount",
			actions:      models.RuleActions{DiscountType: models.DiscountFixedAmount, DiscountValue: 5},
			currentPrice: 100,
			quantity:     1,
			want:         5,
		},
		{
			name:         "fixed price below current",
			actions:      models.RuleActions{DiscountType: models.DiscountFixedPrice, DiscountValue: 80},
			currentPrice: 100,
			quantity:     1,
			want:         20,
		},
		{
			name:         "fixed price above current clamps to zero",
			actions:      models.RuleActions{DiscountType: models.DiscountFixedPrice, DiscountValue: 120},
			currentPrice: 100,
			quantity:     1,
			want:         0,
		},
		{
			name:         "fixed price equal to current is a no-op",
			actions:      models.RuleActions{DiscountType: models.DiscountFixedPrice, DiscountValue: 100},
			currentPrice: 100,
			quantity:     1,
			want:         0,
		},
		{
			name:         "max discount clamp",
			actions:      models.RuleActions{DiscountType: models.DiscountPercentage, DiscountValue: 50, MaxDiscount: floatPtr(20)},
			currentPrice: 100,
			quantity:     1,
			want:         20,
		},
		{
			name:         "order scope amortized per unit",
			actions:      models.RuleActions{DiscountType: models.DiscountFixedAmount, DiscountValue: 10, ApplyTo: models.ApplyToOrder},
			currentPrice: 100,
			quantity:     4,
			want:         2.5,
		},
		{
			name:         "max clamp applies before order scoping",
			actions:      models.RuleActions{DiscountType: models.DiscountFixedAmount, DiscountValue: 100, MaxDiscount: floatPtr(40), ApplyTo: models.ApplyToOrder},
			currentPrice: 200,
			quantity:     4,
			want:         10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := computeDiscount(tt.actions, tt.currentPrice, tt.quantity)
			require.NoError(t, err)
			require.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestComputeDiscountUnknownType(t *testing.T) {
	_, err := computeDiscount(models.RuleActions{DiscountType: "buy_one_get_one"}, 100, 1)
	require.Error(t, err)
}
