package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pricegrid/dynamic-pricing-service/internal/cache"
	"github.com/pricegrid/dynamic-pricing-service/internal/models"
)

// CachedRuleRepo serves ListActiveRules from a short-TTL cache keyed by
// scope. Cached usage_count values may be stale; usage-limit correctness
// rests on the conditional increment in the underlying repo, not on the
// cached counts. Cache failures degrade to direct reads.
type CachedRuleRepo struct {
	inner *RuleRepo
	store cache.Store
	ttl   time.Duration
	log   zerolog.Logger
}

func NewCachedRuleRepo(inner *RuleRepo, store cache.Store, ttl time.Duration, log zerolog.Logger) *CachedRuleRepo {
	return &CachedRuleRepo{
		inner: inner,
		store: store,
		ttl:   ttl,
		log:   log,
	}
}

func scopeKey(targetType models.TargetType, targetID string) string {
	return fmt.Sprintf("rules:%s:%s", targetType, targetID)
}

func (r *CachedRuleRepo) ListActiveRules(ctx context.Context, targetType models.TargetType, targetID string) ([]models.PricingRule, error) {
	key := scopeKey(targetType, targetID)

	if raw, ok, err := r.store.Get(ctx, key); err != nil {
		r.log.Warn().Err(err).Str("key", key).Msg("rule cache read failed")
	} else if ok {
		var rules []models.PricingRule
		if err := json.Unmarshal(raw, &rules); err == nil {
			return rules, nil
		}
		// unreadable entry, drop it and fall through
		_ = r.store.Delete(ctx, key)
	}

	rules, err := r.inner.ListActiveRules(ctx, targetType, targetID)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(rules); err == nil {
		if err := r.store.Set(ctx, key, raw, r.ttl); err != nil {
			r.log.Warn().Err(err).Str("key", key).Msg("rule cache write failed")
		}
	}
	return rules, nil
}

func (r *CachedRuleRepo) TryIncrementUsage(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.inner.TryIncrementUsage(ctx, id)
}

func (r *CachedRuleRepo) GetRule(ctx context.Context, id uuid.UUID) (*models.PricingRule, error) {
	return r.inner.GetRule(ctx, id)
}

func (r *CachedRuleRepo) CreateRule(ctx context.Context, rule *models.PricingRule) error {
	if err := r.inner.CreateRule(ctx, rule); err != nil {
		return err
	}
	r.invalidate(ctx, rule.TargetType, rule.TargetID)
	return nil
}

func (r *CachedRuleRepo) UpdateRule(ctx context.Context, rule *models.PricingRule) error {
	if err := r.inner.UpdateRule(ctx, rule); err != nil {
		return err
	}
	r.invalidate(ctx, rule.TargetType, rule.TargetID)
	return nil
}

func (r *CachedRuleRepo) DeleteRule(ctx context.Context, id uuid.UUID) error {
	rule, err := r.inner.GetRule(ctx, id)
	if err != nil {
		return err
	}
	if err := r.inner.DeleteRule(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, rule.TargetType, rule.TargetID)
	return nil
}

func (r *CachedRuleRepo) ListRules(ctx context.Context, filter models.RuleFilter) ([]models.PricingRule, error) {
	return r.inner.ListRules(ctx, filter)
}

func (r *CachedRuleRepo) invalidate(ctx context.Context, targetType models.TargetType, targetID string) {
	key := scopeKey(targetType, targetID)
	if err := r.store.Delete(ctx, key); err != nil {
		r.log.Warn().Err(err).Str("key", key).Msg("rule cache invalidation failed")
	}
}
