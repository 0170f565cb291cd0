package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pricegrid/dynamic-pricing-service/internal/models"
)

// evaluateConditions decides whether a rule's conditions hold for the given
// context at time now. Absent condition fields leave that dimension
// unconstrained, so a rule with an empty payload is always eligible.
func evaluateConditions(rule models.PricingRule, pctx models.PricingContext, now time.Time) (bool, error) {
	cond := rule.Conditions

	switch rule.RuleType {
	case models.RuleTimeBased:
		return evaluateTimeWindow(cond, now)

	case models.RuleQuantityBased:
		qty := pctx.Quantity
		if qty < 1 {
			qty = 1
		}
		if cond.QuantityMin != nil && qty < *cond.QuantityMin {
			return false, nil
		}
		if cond.QuantityMax != nil && qty > *cond.QuantityMax {
			return false, nil
		}
		return true, nil

	case models.RuleCustomerTier:
		if len(cond.CustomerTiers) == 0 {
			return true, nil
		}
		if pctx.CustomerTier == "" {
			return false, nil
		}
		for _, tier := range cond.CustomerTiers {
			if tier == pctx.CustomerTier {
				return true, nil
			}
		}
		return false, nil

	case models.RuleInventoryBased:
		// no stock info means no inventory gating
		if cond.InventoryThreshold == nil || pctx.CurrentStock == nil {
			return true, nil
		}
		return *pctx.CurrentStock <= *cond.InventoryThreshold, nil

	default:
		return false, fmt.Errorf("unknown rule type %q", rule.RuleType)
	}
}

func evaluateTimeWindow(cond models.RuleConditions, now time.Time) (bool, error) {
	nowMinutes := now.Hour()*60 + now.Minute()

	if cond.TimeStart != nil {
		start, err := parseClock(*cond.TimeStart)
		if err != nil {
			return false, err
		}
		if nowMinutes < start {
			return false, nil
		}
	}
	if cond.TimeEnd != nil {
		// a start after the end is never satisfiable; wrap-around windows
		// are not supported
		end, err := parseClock(*cond.TimeEnd)
		if err != nil {
			return false, err
		}
		if nowMinutes > end {
			return false, nil
		}
	}

	if len(cond.DaysOfWeek) > 0 {
		day := int(now.Weekday()) // 0 = Sunday
		found := false
		for _, d := range cond.DaysOfWeek {
			if d == day {
				found = true
				break
			}
		}
		if !found {
			return false, nil
		}
	}
	return true, nil
}

// parseClock converts an "HH:MM" string to minutes after midnight.
func parseClock(s string) (int, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock value %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid clock value %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid clock value %q", s)
	}
	return h*60 + m, nil
}
