// Package errors provides structured error handling with typed error codes.
//
// Error codes are organized into categories:
//   - General errors (1-99): Unknown and general errors
//   - Validation errors (100-199): Invalid parameters, configurations and signals
//   - Data/Resource errors (200-299): Missing symbols, failed queries, unavailable sources
//   - Strategy errors (400-499): Strategy registration and evaluation errors
//   - Inference errors (500-599): Failures of the external inference collaborator
//   - Backtest errors (600-699): Simulation engine errors
//   - Optimization errors (700-799): Parameter sweep errors
//
// Usage:
//
//	err := errors.Newf(errors.ErrCodeSymbolNotFound, "no bars for symbol %s", symbol)
//	err := errors.Wrap(errors.ErrCodeQueryFailed, "failed to query bars", originalErr)
//	if errors.HasCode(err, errors.ErrCodeSymbolNotFound) { ... }
package errors

import (
	"errors"
	"fmt"
)

// Error represents a structured error with an error code and message.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// New creates a new Error with the given code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   nil,
	}
}

// Newf creates a new Error with the given code and formatted message.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   nil,
	}
}

// Wrap wraps an existing error with a new Error containing the given code and message.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an existing error with a new Error containing the given code and formatted message.
func Wrapf(code ErrorCode, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
	}

	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error carrying the same code.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}

	return t.Code == e.Code
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// GetCode extracts the ErrorCode from an error if it's an *Error type.
// Returns ErrCodeUnknown if the error is not an *Error type.
func GetCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	var insufficient *InsufficientDataError
	if errors.As(err, &insufficient) {
		return ErrCodeInsufficientData
	}

	var notFound *SymbolNotFoundError
	if errors.As(err, &notFound) {
		return ErrCodeSymbolNotFound
	}

	return ErrCodeUnknown
}

// HasCode checks if an error has a specific ErrorCode.
func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

// InsufficientDataError is returned when a run does not have enough bars
// left after filtering the requested date range.
type InsufficientDataError struct {
	Required int    // Minimum data points required
	Actual   int    // Actual data points available
	Symbol   string // Optional: symbol context
	Message  string // Human-readable message
}

// NewInsufficientDataError creates a new InsufficientDataError.
func NewInsufficientDataError(required, actual int, symbol, message string) *InsufficientDataError {
	return &InsufficientDataError{
		Required: required,
		Actual:   actual,
		Symbol:   symbol,
		Message:  message,
	}
}

// NewInsufficientDataErrorf creates a new InsufficientDataError with a formatted message.
func NewInsufficientDataErrorf(required, actual int, symbol, format string, args ...any) *InsufficientDataError {
	return &InsufficientDataError{
		Required: required,
		Actual:   actual,
		Symbol:   symbol,
		Message:  fmt.Sprintf(format, args...),
	}
}

// Error implements the error interface.
func (e *InsufficientDataError) Error() string {
	return e.Message
}

// IsInsufficientDataError checks if an error is an InsufficientDataError.
func IsInsufficientDataError(err error) bool {
	var insufficientErr *InsufficientDataError

	return errors.As(err, &insufficientErr)
}

// SymbolNotFoundError is returned when the data provider holds no series for a symbol.
type SymbolNotFoundError struct {
	Symbol string
	Cause  error
}

// NewSymbolNotFoundError creates a new SymbolNotFoundError.
func NewSymbolNotFoundError(symbol string, cause error) *SymbolNotFoundError {
	return &SymbolNotFoundError{
		Symbol: symbol,
		Cause:  cause,
	}
}

// Error implements the error interface.
func (e *SymbolNotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("symbol not found: %s: %v", e.Symbol, e.Cause)
	}

	return fmt.Sprintf("symbol not found: %s", e.Symbol)
}

// Unwrap returns the underlying error cause.
func (e *SymbolNotFoundError) Unwrap() error {
	return e.Cause
}

// IsSymbolNotFoundError checks if an error is a SymbolNotFoundError or carries ErrCodeSymbolNotFound.
func IsSymbolNotFoundError(err error) bool {
	var notFound *SymbolNotFoundError
	if errors.As(err, &notFound) {
		return true
	}

	var e *Error
	if errors.As(err, &e) {
		return e.Code == ErrCodeSymbolNotFound
	}

	return false
}
