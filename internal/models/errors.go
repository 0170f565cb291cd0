package models

import "errors"

var (
	// ErrRuleNotFound is returned when a referenced rule id does not exist.
	ErrRuleNotFound = errors.New("pricing rule not found")
	// ErrInvalidRule is returned when a rule spec is malformed, e.g. an
	// unrecognized discount type or a negative fixed_price value.
	ErrInvalidRule = errors.New("invalid pricing rule")
)
