// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Standard sentinel errors
var (
	ErrTradeNotFound   = errors.New("trade not found")
	ErrTradeLocked     = errors.New("trade originates from the data feed and cannot be modified")
	ErrInvalidSetting  = errors.New("invalid setting value")
	ErrEmptyImport     = errors.New("import contained no usable rows")
	ErrConfigInvalid   = errors.New("invalid configuration")
	ErrInputValidation = errors.New("input validation failed")
)

// ValidationError reports every invariant a single trade save violated.
// It blocks only that save.
type ValidationError struct {
	TradeID    string
	Violations []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("trade %q failed validation: %s", e.TradeID, strings.Join(e.Violations, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInputValidation
}

// NewValidationError creates a ValidationError for a trade.
func NewValidationError(tradeID string, violations []string) *ValidationError {
	return &ValidationError{TradeID: tradeID, Violations: violations}
}

// FeedError wraps the failure of one candidate data source. The loader
// recovers by moving to the next candidate; this type exists so the last
// failure can still be inspected.
type FeedError struct {
	Source string
	Err    error
}

func (e *FeedError) Error() string {
	return fmt.Sprintf("feed source %s: %v", e.Source, e.Err)
}

func (e *FeedError) Unwrap() error {
	return e.Err
}

// StoreError wraps a persistence failure with the logical key involved.
type StoreError struct {
	Key string
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
