package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pricegrid/dynamic-pricing-service/internal/models"
)

// RuleAdminRepository is the store surface needed for rule administration.
type RuleAdminRepository interface {
	GetRule(ctx context.Context, id uuid.UUID) (*models.PricingRule, error)
	CreateRule(ctx context.Context, rule *models.PricingRule) error
	UpdateRule(ctx context.Context, rule *models.PricingRule) error
	DeleteRule(ctx context.Context, id uuid.UUID) error
	ListRules(ctx context.Context, filter models.RuleFilter) ([]models.PricingRule, error)
}

// RuleSpec is the payload for creating a rule.
type RuleSpec struct {
	TargetType models.TargetType     `json:"target_type" validate:"required,oneof=product category"`
	TargetID   string                `json:"target_id" validate:"required"`
	RuleType   models.RuleType       `json:"rule_type" validate:"required,oneof=time_based quantity_based customer_tier inventory_based"`
	Conditions models.RuleConditions `json:"conditions"`
	Actions    models.RuleActions    `json:"actions"`
	Priority   int                   `json:"priority"`
	StartDate  *time.Time            `json:"start_date,omitempty"`
	EndDate    *time.Time            `json:"end_date,omitempty"`
	UsageLimit *int                  `json:"usage_limit,omitempty" validate:"omitempty,min=1"`
	IsActive   *bool                 `json:"is_active,omitempty"` // defaults to true
}

// RulePatch is a partial update; nil fields keep their current value.
type RulePatch struct {
	TargetType *models.TargetType     `json:"target_type,omitempty" validate:"omitempty,oneof=product category"`
	TargetID   *string                `json:"target_id,omitempty" validate:"omitempty,min=1"`
	RuleType   *models.RuleType       `json:"rule_type,omitempty" validate:"omitempty,oneof=time_based quantity_based customer_tier inventory_based"`
	Conditions *models.RuleConditions `json:"conditions,omitempty"`
	Actions    *models.RuleActions    `json:"actions,omitempty"`
	Priority   *int                   `json:"priority,omitempty"`
	StartDate  *time.Time             `json:"start_date,omitempty"`
	EndDate    *time.Time             `json:"end_date,omitempty"`
	UsageLimit *int                   `json:"usage_limit,omitempty" validate:"omitempty,min=1"`
	IsActive   *bool                  `json:"is_active,omitempty"`
}

// RuleAdminService owns rule CRUD. Payloads are validated here so the engine
// never sees an ill-typed conditions or actions record.
type RuleAdminService struct {
	repo     RuleAdminRepository
	validate *validator.Validate
	log      zerolog.Logger
}

func NewRuleAdminService(repo RuleAdminRepository, log zerolog.Logger) *RuleAdminService {
	return &RuleAdminService{
		repo:     repo,
		validate: validator.New(),
		log:      log,
	}
}

func (s *RuleAdminService) CreateRule(ctx context.Context, spec RuleSpec, createdBy string) (*models.PricingRule, error) {
	if err := s.validate.Struct(spec); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidRule, err)
	}
	if err := validateActions(spec.Actions); err != nil {
		return nil, err
	}
	if err := validateConditions(spec.Conditions); err != nil {
		return nil, err
	}

	active := true
	if spec.IsActive != nil {
		active = *spec.IsActive
	}

	rule := &models.PricingRule{
		ID:         uuid.New(),
		TargetType: spec.TargetType,
		TargetID:   spec.TargetID,
		RuleType:   spec.RuleType,
		Conditions: spec.Conditions,
		Actions:    normalizeActions(spec.Actions),
		Priority:   spec.Priority,
		StartDate:  spec.StartDate,
		EndDate:    spec.EndDate,
		UsageLimit: spec.UsageLimit,
		UsageCount: 0,
		IsActive:   active,
		CreatedBy:  createdBy,
	}

	if err := s.repo.CreateRule(ctx, rule); err != nil {
		return nil, err
	}
	s.log.Info().Str("rule_id", rule.ID.String()).Str("target_type", string(rule.TargetType)).Str("target_id", rule.TargetID).Msg("pricing rule created")
	return rule, nil
}

func (s *RuleAdminService) UpdateRule(ctx context.Context, id uuid.UUID, patch RulePatch) (*models.PricingRule, error) {
	if err := s.validate.Struct(patch); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidRule, err)
	}

	rule, err := s.repo.GetRule(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.TargetType != nil {
		rule.TargetType = *patch.TargetType
	}
	if patch.TargetID != nil {
		rule.TargetID = *patch.TargetID
	}
	if patch.RuleType != nil {
		rule.RuleType = *patch.RuleType
	}
	if patch.Conditions != nil {
		rule.Conditions = *patch.Conditions
	}
	if patch.Actions != nil {
		rule.Actions = normalizeActions(*patch.Actions)
	}
	if patch.Priority != nil {
		rule.Priority = *patch.Priority
	}
	if patch.StartDate != nil {
		rule.StartDate = patch.StartDate
	}
	if patch.EndDate != nil {
		rule.EndDate = patch.EndDate
	}
	if patch.UsageLimit != nil {
		rule.UsageLimit = patch.UsageLimit
	}
	if patch.IsActive != nil {
		rule.IsActive = *patch.IsActive
	}

	if err := validateActions(rule.Actions); err != nil {
		return nil, err
	}
	if err := validateConditions(rule.Conditions); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateRule(ctx, rule); err != nil {
		return nil, err
	}
	s.log.Info().Str("rule_id", rule.ID.String()).Msg("pricing rule updated")
	return rule, nil
}

func (s *RuleAdminService) DeleteRule(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteRule(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("rule_id", id.String()).Msg("pricing rule deleted")
	return nil
}

func (s *RuleAdminService) ListRules(ctx context.Context, filter models.RuleFilter) ([]models.PricingRule, error) {
	return s.repo.ListRules(ctx, filter)
}

func validateActions(a models.RuleActions) error {
	switch a.DiscountType {
	case models.DiscountPercentage, models.DiscountFixedAmount, models.DiscountFixedPrice:
	default:
		return fmt.Errorf("%w: unrecognized discount type %q", models.ErrInvalidRule, a.DiscountType)
	}
	if a.DiscountValue < 0 {
		return fmt.Errorf("%w: discount value must be non-negative", models.ErrInvalidRule)
	}
	if a.DiscountType == models.DiscountPercentage && a.DiscountValue > 100 {
		return fmt.Errorf("%w: percentage discount cannot exceed 100", models.ErrInvalidRule)
	}
	if a.MaxDiscount != nil && *a.MaxDiscount < 0 {
		return fmt.Errorf("%w: max discount must be non-negative", models.ErrInvalidRule)
	}
	switch a.ApplyTo {
	case "", models.ApplyToItem, models.ApplyToOrder:
	default:
		return fmt.Errorf("%w: unrecognized apply_to %q", models.ErrInvalidRule, a.ApplyTo)
	}
	return nil
}

func validateConditions(c models.RuleConditions) error {
	if c.TimeStart != nil {
		if _, err := parseClock(*c.TimeStart); err != nil {
			return fmt.Errorf("%w: %v", models.ErrInvalidRule, err)
		}
	}
	if c.TimeEnd != nil {
		if _, err := parseClock(*c.TimeEnd); err != nil {
			return fmt.Errorf("%w: %v", models.ErrInvalidRule, err)
		}
	}
	for _, d := range c.DaysOfWeek {
		if d < 0 || d > 6 {
			return fmt.Errorf("%w: day_of_week values must be 0-6", models.ErrInvalidRule)
		}
	}
	if c.QuantityMin != nil && *c.QuantityMin < 0 {
		return fmt.Errorf("%w: quantity_min must be non-negative", models.ErrInvalidRule)
	}
	if c.QuantityMax != nil && *c.QuantityMax < 0 {
		return fmt.Errorf("%w: quantity_max must be non-negative", models.ErrInvalidRule)
	}
	if c.QuantityMin != nil && c.QuantityMax != nil && *c.QuantityMin > *c.QuantityMax {
		return fmt.Errorf("%w: quantity_min cannot exceed quantity_max", models.ErrInvalidRule)
	}
	if c.InventoryThreshold != nil && *c.InventoryThreshold < 0 {
		return fmt.Errorf("%w: inventory_threshold must be non-negative", models.ErrInvalidRule)
	}
	return nil
}

func normalizeActions(a models.RuleActions) models.RuleActions {
	if a.ApplyTo == "" {
		a.ApplyTo = models.ApplyToItem
	}
	return a
}
