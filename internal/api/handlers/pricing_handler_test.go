package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/pricegrid/dynamic-pricing-service/internal/models"
	"github.com/pricegrid/dynamic-pricing-service/internal/service"
)

type fakeRuleRepo struct {
	rules []models.PricingRule
}

func (f *fakeRuleRepo) ListActiveRules(_ context.Context, targetType models.TargetType, _ string) ([]models.PricingRule, error) {
	if targetType != models.TargetProduct {
		return nil, nil
	}
	return f.rules, nil
}

func (f *fakeRuleRepo) TryIncrementUsage(_ context.Context, _ uuid.UUID) (bool, error) {
	return true, nil
}

type fakeTierRepo struct {
	tiers []models.BulkPricingTier
}

func (f *fakeTierRepo) ListActiveTiers(_ context.Context, _ string, _ int) ([]models.BulkPricingTier, error) {
	return f.tiers, nil
}

func newPricingHandler(rules []models.PricingRule, tiers []models.BulkPricingTier) *PricingHandler {
	svc := service.NewPricingService(&fakeRuleRepo{rules: rules}, &fakeTierRepo{tiers: tiers}, zerolog.Nop())
	return NewPricingHandler(svc)
}

func TestCalculatePriceEndpoint(t *testing.T) {
	rule := models.PricingRule{
		ID:         uuid.New(),
		TargetType: models.TargetProduct,
		TargetID:   "prod-1",
		RuleType:   models.RuleCustomerTier,
		Actions: models.RuleActions{
			DiscountType:  models.DiscountPercentage,
			DiscountValue: 10,
			ApplyTo:       models.ApplyToItem,
		},
		IsActive: true,
	}
	h := newPricingHandler([]models.PricingRule{rule}, nil)

	body := `{"product_id":"prod-1","base_price":100}`
	req := httptest.NewRequest(http.MethodPost, "/pricing/calculate", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.CalculatePrice(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result models.PriceCalculation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Equal(t, 90.0, result.DiscountedPrice)
	require.Len(t, result.AppliedRules, 1)
}

func TestCalculatePriceEndpointRejectsBadInput(t *testing.T) {
	h := newPricingHandler(nil, nil)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{`},
		{"missing product id", `{"base_price":100}`},
		{"negative base price", `{"product_id":"p","base_price":-1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/pricing/calculate", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.CalculatePrice(rec, req)
			require.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestCalculateBulkPriceEndpoint(t *testing.T) {
	h := newPricingHandler(nil, []models.BulkPricingTier{{
		ID:              uuid.New(),
		ProductID:       "prod-1",
		MinimumQuantity: 10,
		DiscountType:    models.DiscountPercentage,
		DiscountValue:   20,
		IsActive:        true,
	}})

	body := `{"product_id":"prod-1","base_price":20,"quantity":15}`
	req := httptest.NewRequest(http.MethodPost, "/pricing/bulk", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.CalculateBulkPrice(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp BulkPriceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.BulkPricing)
	require.Equal(t, 240.0, resp.BulkPricing.BulkPrice)
	require.Equal(t, "retail", resp.BulkPricing.Tier)
}

func TestCalculateBulkPriceEndpointMiss(t *testing.T) {
	h := newPricingHandler(nil, nil)

	body := `{"product_id":"prod-1","base_price":20,"quantity":2}`
	req := httptest.NewRequest(http.MethodPost, "/pricing/bulk", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.CalculateBulkPrice(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"bulk_pricing":null}`, rec.Body.String())
}
