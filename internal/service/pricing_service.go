package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pricegrid/dynamic-pricing-service/internal/models"
	"github.com/pricegrid/dynamic-pricing-service/pkg/metrics"
)

// Repos required by the engine (interfaces to allow stubbing in tests).

type RuleRepository interface {
	ListActiveRules(ctx context.Context, targetType models.TargetType, targetID string) ([]models.PricingRule, error)
	TryIncrementUsage(ctx context.Context, id uuid.UUID) (bool, error)
}

type TierRepository interface {
	ListActiveTiers(ctx context.Context, productID string, quantity int) ([]models.BulkPricingTier, error)
}

type PricingService struct {
	rules RuleRepository
	tiers TierRepository
	log   zerolog.Logger
	now   func() time.Time
}

func NewPricingService(rules RuleRepository, tiers TierRepository, log zerolog.Logger) *PricingService {
	return &PricingService{
		rules: rules,
		tiers: tiers,
		log:   log,
		now:   time.Now,
	}
}

// CalculatePrice resolves the rules applicable to a product, applies them in
// descending priority order and returns the resulting price breakdown. Each
// discount is computed from the running price already reduced by
// higher-priority rules, and every applied rule has its usage recorded via a
// conditional increment; a rule whose increment is refused (limit reached
// under contention) does not contribute to the result.
func (s *PricingService) CalculatePrice(ctx context.Context, productID string, basePrice float64, pctx models.PricingContext) (*models.PriceCalculation, error) {
	if productID == "" {
		return nil, fmt.Errorf("product id is required")
	}
	if basePrice < 0 {
		return nil, fmt.Errorf("base price must be non-negative")
	}
	if pctx.Quantity < 1 {
		pctx.Quantity = 1
	}
	metrics.CalculationsTotal.Inc()

	rules, err := s.fetchScopedRules(ctx, productID, pctx.CategoryID)
	if err != nil {
		return nil, err
	}
	sortRules(rules)

	now := s.now()
	currentPrice := basePrice
	totalDiscount := 0.0
	applied := []models.PricingRule{}

	for _, rule := range rules {
		if rule.StartDate != nil && now.Before(*rule.StartDate) {
			continue
		}
		if rule.EndDate != nil && now.After(*rule.EndDate) {
			continue
		}
		// cheap pre-check on the fetched count; the conditional increment
		// below is the authoritative limit enforcement
		if rule.UsageLimit != nil && rule.UsageCount >= *rule.UsageLimit {
			continue
		}

		eligible, err := evaluateConditions(rule, pctx, now)
		if err != nil {
			s.log.Warn().Err(err).Str("rule_id", rule.ID.String()).Msg("rule conditions unreadable, rule skipped")
			continue
		}
		if !eligible {
			continue
		}

		discount, err := computeDiscount(rule.Actions, currentPrice, pctx.Quantity)
		if err != nil {
			s.log.Warn().Err(err).Str("rule_id", rule.ID.String()).Msg("rule actions unreadable, rule skipped")
			continue
		}
		if discount <= 0 {
			continue
		}

		recorded, err := s.rules.TryIncrementUsage(ctx, rule.ID)
		if err != nil {
			metrics.UsageRecordingFailures.Inc()
			s.log.Error().Err(err).Str("rule_id", rule.ID.String()).Msg("usage recording failed, rule skipped")
			continue
		}
		if !recorded {
			// another calculation consumed the last allowed application
			continue
		}

		rule.UsageCount++
		applied = append(applied, rule)
		totalDiscount += discount
		currentPrice -= discount
		metrics.RulesAppliedTotal.WithLabelValues(string(rule.RuleType)).Inc()
	}

	discountedPrice := currentPrice
	if discountedPrice < 0 {
		discountedPrice = 0
	}
	discountPercentage := 0.0
	if basePrice > 0 {
		discountPercentage = totalDiscount / basePrice * 100
	}

	return &models.PriceCalculation{
		BasePrice:          basePrice,
		DiscountedPrice:    discountedPrice,
		DiscountAmount:     totalDiscount,
		DiscountPercentage: discountPercentage,
		AppliedRules:       applied,
	}, nil
}

type scopedRules struct {
	rules []models.PricingRule
	err   error
}

// fetchScopedRules runs the product-scoped and category-scoped queries in
// parallel and merges the results.
func (s *PricingService) fetchScopedRules(ctx context.Context, productID, categoryID string) ([]models.PricingRule, error) {
	resCh := make(chan scopedRules, 2)

	pending := 1
	go func() {
		rules, err := s.rules.ListActiveRules(ctx, models.TargetProduct, productID)
		resCh <- scopedRules{rules: rules, err: err}
	}()
	if categoryID != "" {
		pending++
		go func() {
			rules, err := s.rules.ListActiveRules(ctx, models.TargetCategory, categoryID)
			resCh <- scopedRules{rules: rules, err: err}
		}()
	}

	var merged []models.PricingRule
	var firstErr error
	for i := 0; i < pending; i++ {
		res := <-resCh
		if res.err != nil {
			if firstErr == nil {
				firstErr = res.err
			}
			continue
		}
		merged = append(merged, res.rules...)
	}
	if firstErr != nil {
		return nil, fmt.Errorf("fetch pricing rules: %w", firstErr)
	}
	return merged, nil
}

// sortRules orders by priority descending, with rule id as the documented
// tie-break so equal-priority rules from different scopes evaluate in a
// stable order.
func sortRules(rules []models.PricingRule) {
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].Priority != rules[j].Priority {
			return rules[i].Priority > rules[j].Priority
		}
		return rules[i].ID.String() < rules[j].ID.String()
	})
}
