package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/pricegrid/dynamic-pricing-service/internal/models"
)

type stubAdminRepo struct {
	rules map[uuid.UUID]*models.PricingRule
}

func newStubAdminRepo() *stubAdminRepo {
	return &stubAdminRepo{rules: make(map[uuid.UUID]*models.PricingRule)}
}

func (s *stubAdminRepo) GetRule(_ context.Context, id uuid.UUID) (*models.PricingRule, error) {
	rule, ok := s.rules[id]
	if !ok {
		return nil, models.ErrRuleNotFound
	}
	cp := *rule
	return &cp, nil
}

func (s *stubAdminRepo) CreateRule(_ context.Context, rule *models.PricingRule) error {
	cp := *rule
	s.rules[rule.ID] = &cp
	return nil
}

func (s *stubAdminRepo) UpdateRule(_ context.Context, rule *models.PricingRule) error {
	if _, ok := s.rules[rule.ID]; !ok {
		return models.ErrRuleNotFound
	}
	cp := *rule
	s.rules[rule.ID] = &cp
	return nil
}

func (s *stubAdminRepo) DeleteRule(_ context.Context, id uuid.UUID) error {
	if _, ok := s.rules[id]; !ok {
		return models.ErrRuleNotFound
	}
	delete(s.rules, id)
	return nil
}

func (s *stubAdminRepo) ListRules(_ context.Context, _ models.RuleFilter) ([]models.PricingRule, error) {
	var out []models.PricingRule
	for _, rule := range s.rules {
		out = append(out, *rule)
	}
	return out, nil
}

func validSpec() RuleSpec {
	return RuleSpec{
		TargetType: models.TargetProduct,
		TargetID:   "prod-1",
		RuleType:   models.RuleQuantityBased,
		Conditions: models.RuleConditions{QuantityMin: intPtr(5)},
		Actions: models.RuleActions{
			DiscountType:  models.DiscountPercentage,
			DiscountValue: 10,
		},
		Priority: 5,
	}
}

func TestCreateRuleDefaults(t *testing.T) {
	repo := newStubAdminRepo()
	svc := NewRuleAdminService(repo, zerolog.Nop())

	rule, err := svc.CreateRule(context.Background(), validSpec(), "ops@example.com")
	require.NoError(t, err)

	require.NotEqual(t, uuid.Nil, rule.ID)
	require.Zero(t, rule.UsageCount)
	require.True(t, rule.IsActive)
	require.Equal(t, models.ApplyToItem, rule.Actions.ApplyTo)
	require.Equal(t, "ops@example.com", rule.CreatedBy)
	require.Contains(t, repo.rules, rule.ID)
}

func TestCreateRuleRejectsInvalidSpecs(t *testing.T) {
	svc := NewRuleAdminService(newStubAdminRepo(), zerolog.Nop())

	tests := []struct {
		name   string
		mutate func(*RuleSpec)
	}{
		{"missing target id", func(s *RuleSpec) { s.TargetID = "" }},
		{"bad target type", func(s *RuleSpec) { s.TargetType = "warehouse" }},
		{"bad rule type", func(s *RuleSpec) { s.RuleType = "seasonal" }},
		{"bad discount type", func(s *RuleSpec) { s.Actions.DiscountType = "bogo" }},
		{"negative discount value", func(s *RuleSpec) { s.Actions.DiscountValue = -5 }},
		{"percentage over 100", func(s *RuleSpec) { s.Actions.DiscountValue = 150 }},
		{"negative max discount", func(s *RuleSpec) { s.Actions.MaxDiscount = floatPtr(-1) }},
		{"bad apply_to", func(s *RuleSpec) { s.Actions.ApplyTo = "cart" }},
		{"zero usage limit", func(s *RuleSpec) { s.UsageLimit = intPtr(0) }},
		{"malformed time window", func(s *RuleSpec) { s.Conditions.TimeStart = strPtr("late") }},
		{"bad day of week", func(s *RuleSpec) { s.Conditions.DaysOfWeek = []int{7} }},
		{"inverted quantity bounds", func(s *RuleSpec) {
			s.Conditions.QuantityMin = intPtr(10)
			s.Conditions.QuantityMax = intPtr(5)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := validSpec()
			tt.mutate(&spec)
			_, err := svc.CreateRule(context.Background(), spec, "ops")
			require.ErrorIs(t, err, models.ErrInvalidRule)
		})
	}
}

func TestUpdateRulePartialMerge(t *testing.T) {
	repo := newStubAdminRepo()
	svc := NewRuleAdminService(repo, zerolog.Nop())

	created, err := svc.CreateRule(context.Background(), validSpec(), "ops")
	require.NoError(t, err)

	updated, err := svc.UpdateRule(context.Background(), created.ID, RulePatch{
		Priority: intPtr(99),
		IsActive: boolPtr(false),
	})
	require.NoError(t, err)

	require.Equal(t, 99, updated.Priority)
	require.False(t, updated.IsActive)
	// untouched fields keep their values
	require.Equal(t, created.TargetID, updated.TargetID)
	require.Equal(t, created.Actions, updated.Actions)
	require.Equal(t, created.Conditions, updated.Conditions)
}

func TestUpdateRuleRejectsInvalidMerge(t *testing.T) {
	repo := newStubAdminRepo()
	svc := NewRuleAdminService(repo, zerolog.Nop())

	created, err := svc.CreateRule(context.Background(), validSpec(), "ops")
	require.NoError(t, err)

	_, err = svc.UpdateRule(context.Background(), created.ID, RulePatch{
		Actions: &models.RuleActions{DiscountType: "bogo", DiscountValue: 5},
	})
	require.ErrorIs(t, err, models.ErrInvalidRule)
}

func TestUpdateRuleNotFound(t *testing.T) {
	svc := NewRuleAdminService(newStubAdminRepo(), zerolog.Nop())

	_, err := svc.UpdateRule(context.Background(), uuid.New(), RulePatch{Priority: intPtr(1)})
	require.ErrorIs(t, err, models.ErrRuleNotFound)
}

func TestDeleteRule(t *testing.T) {
	repo := newStubAdminRepo()
	svc := NewRuleAdminService(repo, zerolog.Nop())

	created, err := svc.CreateRule(context.Background(), validSpec(), "ops")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteRule(context.Background(), created.ID))
	require.ErrorIs(t, svc.DeleteRule(context.Background(), created.ID), models.ErrRuleNotFound)
}

func boolPtr(b bool) *bool { return &b }
