// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrConfigInvalid    = errors.New("invalid configuration")
	ErrInputValidation  = errors.New("input validation failed")
	ErrNoResults        = errors.New("no simulation results")
	ErrNoLegs           = errors.New("strategy has no legs")
	ErrBatchCancelled   = errors.New("batch run cancelled")
	ErrDatabaseError    = errors.New("database error")
	ErrRunNotFound      = errors.New("simulation run not found")
	ErrExportFailed     = errors.New("export failed")
	ErrNonPositiveVol   = errors.New("volatility must be positive")
	ErrInvalidScanRange = errors.New("invalid price scan range")
)

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// PricingError represents an error from the pricing engine.
type PricingError struct {
	Underlying float64
	Strike     float64
	Reason     string
	Err        error
}

func (e *PricingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("pricing error [S=%.2f K=%.2f]: %s: %v", e.Underlying, e.Strike, e.Reason, e.Err)
	}
	return fmt.Sprintf("pricing error [S=%.2f K=%.2f]: %s", e.Underlying, e.Strike, e.Reason)
}

func (e *PricingError) Unwrap() error {
	return e.Err
}

// NewPricingError creates a new PricingError.
func NewPricingError(underlying, strike float64, reason string, err error) *PricingError {
	return &PricingError{
		Underlying: underlying,
		Strike:     strike,
		Reason:     reason,
		Err:        err,
	}
}

// SimulationError represents an error during a batch simulation run.
type SimulationError struct {
	Phase string // "validate", "run", "reduce"
	Err   error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("simulation error [%s]: %v", e.Phase, e.Err)
}

func (e *SimulationError) Unwrap() error {
	return e.Err
}

// NewSimulationError creates a new SimulationError.
func NewSimulationError(phase string, err error) *SimulationError {
	return &SimulationError{
		Phase: phase,
		Err:   err,
	}
}

// StoreError represents a persistence error.
type StoreError struct {
	Operation string
	Err       error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error [%s]: %v", e.Operation, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// ExportError represents a CSV export error.
type ExportError struct {
	Path string
	Err  error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [%s]: %v", e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// NewExportError creates a new ExportError.
func NewExportError(path string, err error) *ExportError {
	return &ExportError{
		Path: path,
		Err:  err,
	}
}

// NewStoreError creates a new StoreError.
func NewStoreError(operation string, err error) *StoreError {
	return &StoreError{
		Operation: operation,
		Err:       err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
