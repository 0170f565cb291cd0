package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type TargetType string

const (
	TargetProduct  TargetType = "product"
	TargetCategory TargetType = "category"
)

type RuleType string

const (
	RuleTimeBased      RuleType = "time_based"
	RuleQuantityBased  RuleType = "quantity_based"
	RuleCustomerTier   RuleType = "customer_tier"
	RuleInventoryBased RuleType = "inventory_based"
)

type DiscountType string

const (
	DiscountPercentage  DiscountType = "percentage"
	DiscountFixedAmount DiscountType = "fixed_amount"
	DiscountFixedPrice  DiscountType = "fixed_price"
)

type ApplyTo string

const (
	ApplyToItem  ApplyTo = "item"
	ApplyToOrder ApplyTo = "order"
)

// RuleConditions is the condition payload for a rule. Which fields are
// meaningful depends on the rule's RuleType; absent fields leave that
// dimension unconstrained.
type RuleConditions struct {
	TimeStart          *string  `json:"time_start,omitempty"` // "HH:MM", 24h clock
	TimeEnd            *string  `json:"time_end,omitempty"`
	DaysOfWeek         []int    `json:"day_of_week,omitempty"` // 0 = Sunday
	QuantityMin        *int     `json:"quantity_min,omitempty"`
	QuantityMax        *int     `json:"quantity_max,omitempty"`
	CustomerTiers      []string `json:"customer_tiers,omitempty"`
	InventoryThreshold *int     `json:"inventory_threshold,omitempty"`
}

// RuleActions is the discount specification attached to a rule.
type RuleActions struct {
	DiscountType  DiscountType `json:"discount_type"`
	DiscountValue float64      `json:"discount_value"`
	MaxDiscount   *float64     `json:"max_discount,omitempty"`
	ApplyTo       ApplyTo      `json:"apply_to,omitempty"` // defaults to "item"
}

type PricingRule struct {
	ID         uuid.UUID      `json:"id"`
	TargetType TargetType     `json:"target_type"`
	TargetID   string         `json:"target_id"`
	RuleType   RuleType       `json:"rule_type"`
	Conditions RuleConditions `json:"conditions"`
	Actions    RuleActions    `json:"actions"`
	Priority   int            `json:"priority"`
	StartDate  *time.Time     `json:"start_date,omitempty"`
	EndDate    *time.Time     `json:"end_date,omitempty"`
	UsageLimit *int           `json:"usage_limit,omitempty"`
	UsageCount int            `json:"usage_count"`
	IsActive   bool           `json:"is_active"`
	CreatedBy  string         `json:"created_by,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// RuleFilter narrows rule listings; zero values leave that dimension
// unfiltered.
type RuleFilter struct {
	TargetType TargetType
	TargetID   string
	RuleType   RuleType
	ActiveOnly bool
}

// Conditions and actions are stored as jsonb columns.

func (c RuleConditions) Value() (driver.Value, error) {
	return json.Marshal(c)
}

func (c *RuleConditions) Scan(src any) error {
	return scanJSON(src, c)
}

func (a RuleActions) Value() (driver.Value, error) {
	return json.Marshal(a)
}

func (a *RuleActions) Scan(src any) error {
	return scanJSON(src, a)
}

func scanJSON(src, dst any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("unsupported jsonb source %T", src)
	}
}
