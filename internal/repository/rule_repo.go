package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/pricegrid/dynamic-pricing-service/internal/models"
)

const ruleColumns = `id, target_type, target_id, rule_type, conditions, actions,
	       priority, start_date, end_date, usage_limit, usage_count,
	       is_active, created_by, created_at, updated_at`

type RuleRepo struct {
	db *sql.DB
}

func NewRuleRepo(db *sql.DB) *RuleRepo {
	return &RuleRepo{db: db}
}

// ListActiveRules returns the active rules for one scope, highest priority
// first. Equal priorities are ordered by rule id so the evaluation order is
// deterministic regardless of how the planner returns rows.
func (r *RuleRepo) ListActiveRules(ctx context.Context, targetType models.TargetType, targetID string) ([]models.PricingRule, error) {
	query := `
		SELECT ` + ruleColumns + `
		FROM pricing_rules
		WHERE target_type = $1 AND target_id = $2 AND is_active = TRUE
		ORDER BY priority DESC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, targetType, targetID)
	if err != nil {
		return nil, fmt.Errorf("list active rules: %w", err)
	}
	defer rows.Close()

	return scanRules(rows)
}

// TryIncrementUsage bumps usage_count by one, but only while the rule is
// still under its usage limit. The conditional update is what enforces
// "at most usage_limit applications" under concurrent calculations; callers
// must treat a false return as "rule did not apply".
func (r *RuleRepo) TryIncrementUsage(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		UPDATE pricing_rules
		SET usage_count = usage_count + 1,
		    updated_at = NOW()
		WHERE id = $1
		  AND (usage_limit IS NULL OR usage_count < usage_limit)
	`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("increment usage: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("increment usage: %w", err)
	}
	return n > 0, nil
}

func (r *RuleRepo) GetRule(ctx context.Context, id uuid.UUID) (*models.PricingRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM pricing_rules WHERE id = $1`

	var rule models.PricingRule
	err := scanRule(r.db.QueryRowContext(ctx, query, id), &rule)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrRuleNotFound
		}
		return nil, fmt.Errorf("get rule: %w", err)
	}
	return &rule, nil
}

func (r *RuleRepo) CreateRule(ctx context.Context, rule *models.PricingRule) error {
	query := `
		INSERT INTO pricing_rules
		(id, target_type, target_id, rule_type, conditions, actions, priority,
		 start_date, end_date, usage_limit, usage_count, is_active, created_by,
		 created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,NOW(),NOW())
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		rule.ID,
		rule.TargetType,
		rule.TargetID,
		rule.RuleType,
		rule.Conditions,
		rule.Actions,
		rule.Priority,
		rule.StartDate,
		rule.EndDate,
		rule.UsageLimit,
		rule.UsageCount,
		rule.IsActive,
		rule.CreatedBy,
	).Scan(&rule.CreatedAt, &rule.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create rule: %w", err)
	}
	return nil
}

// UpdateRule writes the full merged record; partial-field merging happens in
// the admin service before this is called.
func (r *RuleRepo) UpdateRule(ctx context.Context, rule *models.PricingRule) error {
	query := `
		UPDATE pricing_rules
		SET target_type = $2, target_id = $3, rule_type = $4, conditions = $5,
		    actions = $6, priority = $7, start_date = $8, end_date = $9,
		    usage_limit = $10, is_active = $11, updated_at = NOW()
		WHERE id = $1
	`

	res, err := r.db.ExecContext(ctx, query,
		rule.ID,
		rule.TargetType,
		rule.TargetID,
		rule.RuleType,
		rule.Conditions,
		rule.Actions,
		rule.Priority,
		rule.StartDate,
		rule.EndDate,
		rule.UsageLimit,
		rule.IsActive,
	)
	if err != nil {
		return fmt.Errorf("update rule: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update rule: %w", err)
	}
	if n == 0 {
		return models.ErrRuleNotFound
	}
	return nil
}

func (r *RuleRepo) DeleteRule(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pricing_rules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete rule: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete rule: %w", err)
	}
	if n == 0 {
		return models.ErrRuleNotFound
	}
	return nil
}

func (r *RuleRepo) ListRules(ctx context.Context, filter models.RuleFilter) ([]models.PricingRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM pricing_rules WHERE 1=1`
	args := []any{}

	if filter.TargetType != "" {
		args = append(args, filter.TargetType)
		query += fmt.Sprintf(" AND target_type = $%d", len(args))
	}
	if filter.TargetID != "" {
		args = append(args, filter.TargetID)
		query += fmt.Sprintf(" AND target_id = $%d", len(args))
	}
	if filter.RuleType != "" {
		args = append(args, filter.RuleType)
		query += fmt.Sprintf(" AND rule_type = $%d", len(args))
	}
	if filter.ActiveOnly {
		query += " AND is_active = TRUE"
	}
	query += " ORDER BY priority DESC, id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list rules: %w", err)
	}
	defer rows.Close()

	return scanRules(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRule(row rowScanner, rule *models.PricingRule) error {
	return row.Scan(
		&rule.ID,
		&rule.TargetType,
		&rule.TargetID,
		&rule.RuleType,
		&rule.Conditions,
		&rule.Actions,
		&rule.Priority,
		&rule.StartDate,
		&rule.EndDate,
		&rule.UsageLimit,
		&rule.UsageCount,
		&rule.IsActive,
		&rule.CreatedBy,
		&rule.CreatedAt,
		&rule.UpdatedAt,
	)
}

func scanRules(rows *sql.Rows) ([]models.PricingRule, error) {
	var rules []models.PricingRule
	for rows.Next() {
		var rule models.PricingRule
		if err := scanRule(rows, &rule); err != nil {
			return nil, fmt.Errorf("scan rule: %w", err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan rules: %w", err)
	}
	return rules, nil
}
