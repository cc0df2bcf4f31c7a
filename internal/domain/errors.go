package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across repositories and services.
var (
	ErrNotFound           = errors.New("not found")
	ErrDuplicateSlug      = errors.New("slug already in use")
	ErrEventStoreNotReady = errors.New("event store not ready")
)

// Rule identifies which validation rule a field failed.
type Rule string

const (
	RuleRequired        Rule = "required"
	RuleInvalidEnum     Rule = "invalid_enum"
	RuleEmptyCollection Rule = "empty_collection"
	RuleInvalidDate     Rule = "invalid_date"
	RuleInvalidTime     Rule = "invalid_time"
	RuleInvalidEmail    Rule = "invalid_email"
)

// ValidationError is a field-scoped rejection produced by the validation
// pipelines. It names the offending field and the rule it violated.
type ValidationError struct {
	Field string
	Rule  Rule
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Rule)
}

// NewValidationError returns a ValidationError for the given field and rule.
func NewValidationError(field string, rule Rule) *ValidationError {
	return &ValidationError{Field: field, Rule: rule}
}

// DanglingReferenceError reports a booking that references an event which
// does not exist in storage. It carries the attempted identifier.
type DanglingReferenceError struct {
	EventID string
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("event %q does not exist", e.EventID)
}
