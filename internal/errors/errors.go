// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrInvalidPricingInput = errors.New("invalid pricing input")
	ErrProviderUnavailable = errors.New("provider unavailable")
	ErrUnknownValuation    = errors.New("valuation unknown: current spot unavailable")
	ErrSymbolNotFound      = errors.New("symbol not found")
	ErrPositionNotFound    = errors.New("position not found")
	ErrPositionExists      = errors.New("position already in watchlist")
	ErrConfigInvalid       = errors.New("invalid configuration")
	ErrDatabaseError       = errors.New("database error")
)

// PricingInputError reports an input the probability model cannot price.
// It always wraps ErrInvalidPricingInput; the model never substitutes a
// default for a bad input.
type PricingInputError struct {
	Field string
	Value float64
}

func (e *PricingInputError) Error() string {
	return fmt.Sprintf("%v: %s=%g", ErrInvalidPricingInput, e.Field, e.Value)
}

func (e *PricingInputError) Unwrap() error {
	return ErrInvalidPricingInput
}

// NewPricingInputError creates a new PricingInputError.
func NewPricingInputError(field string, value float64) *PricingInputError {
	return &PricingInputError{Field: field, Value: value}
}

// ProviderError represents an error from a market data provider.
type ProviderError struct {
	Provider string
	Symbol   string
	Op       string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("provider error [%s] %s %s: %v", e.Provider, e.Op, e.Symbol, e.Err)
	}
	return fmt.Sprintf("provider error [%s] %s %s", e.Provider, e.Op, e.Symbol)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError creates a new ProviderError.
func NewProviderError(provider, op, symbol string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Op: op, Symbol: symbol, Err: err}
}
