// Package errors provides the unified error type and factory functions for
// the PharmaRisk analytics engine.  Every layer (domain, application,
// infrastructure, interfaces) uses AppError as the single carrier for
// structured error information, enabling consistent HTTP responses, logging,
// and monitoring.
package errors

import (
	"errors"
	"fmt"
)

// AppError is the single structured error type used throughout the engine.
// It satisfies the standard error interface and supports Go 1.13+ error
// wrapping so that errors.Is / errors.As / errors.Unwrap work transparently
// across all layers.
//
// Usage:
//
//	return errors.New(errors.ErrCodeCompanyNotFound, "ticker PFE not found")
//	return errors.Wrap(repoErr, errors.ErrCodeDatabaseError, "failed to load records")
//	return errors.MissingRevenueData("PFE").WithDetail("source=reference_data")
type AppError struct {
	// Code is the typed error code that uniquely identifies the failure
	// category.
	Code ErrorCode

	// Message is the primary human-readable description of the error,
	// suitable for inclusion in API responses returned to callers.
	Message string

	// Detail carries supplementary context (tickers, entity IDs, source
	// labels) that aids debugging without leaking internals to end users.
	Detail string

	// Cause is the underlying error, enabling errors.Is / errors.As
	// traversal of the full chain.
	Cause error
}

// Error implements the standard error interface.
// Format: "[<code>] <message>: <detail>" with the detail segment omitted
// when Detail is empty.
func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Detail)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetail returns a shallow copy of the receiver with Detail set.
// It is safe to call on a nil pointer (returns nil).
func (e *AppError) WithDetail(detail string) *AppError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Detail = detail
	return &clone
}

// New constructs a fresh AppError with the given code and formatted message.
func New(code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap constructs an AppError that wraps an existing error.  If err is nil,
// Wrap returns nil so it can be used inline on repository results.
func Wrap(err error, code ErrorCode, format string, args ...interface{}) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   err,
	}
}

// IsCode reports whether any error in err's chain is an *AppError with the
// given code.  It is the idiomatic way to check domain-specific failure
// modes:
//
//	if errors.IsCode(err, errors.ErrCodeMissingRevenueData) { ... }
func IsCode(err error, code ErrorCode) bool {
	var ae *AppError
	for err != nil {
		if errors.As(err, &ae) && ae.Code == code {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// GetCode extracts the ErrorCode from the first *AppError in err's chain,
// or ErrCodeInternal when none is present.  Middleware uses this to pick an
// HTTP status and a metric label without coupling to specific domain errors.
func GetCode(err error) ErrorCode {
	if err == nil {
		return CodeOK
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ErrCodeInternal
}

// AsAppError extracts the first *AppError in err's chain, or nil.
func AsAppError(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// NewValidation constructs an ErrCodeValidation AppError.
func NewValidation(format string, args ...interface{}) *AppError {
	return New(ErrCodeValidation, format, args...)
}

// NewNotFound constructs an ErrCodeNotFound AppError.
func NewNotFound(format string, args ...interface{}) *AppError {
	return New(ErrCodeNotFound, format, args...)
}

// NewInternal constructs an ErrCodeInternal AppError.
func NewInternal(format string, args ...interface{}) *AppError {
	return New(ErrCodeInternal, format, args...)
}

// MissingRevenueData constructs the typed precondition failure returned by
// the financial impact projector when a company's revenue is unknown or
// zero.  Callers distinguish this from a zero-risk projection: "no risk"
// and "cannot assess risk" are different answers.
func MissingRevenueData(ticker string) *AppError {
	return &AppError{
		Code:    ErrCodeMissingRevenueData,
		Message: DefaultMessageForCode(ErrCodeMissingRevenueData),
		Detail:  "ticker=" + ticker,
	}
}

// IsMissingRevenueData reports whether err carries ErrCodeMissingRevenueData.
func IsMissingRevenueData(err error) bool {
	return IsCode(err, ErrCodeMissingRevenueData)
}

// IsValidation reports whether err carries ErrCodeValidation.
func IsValidation(err error) bool {
	return IsCode(err, ErrCodeValidation)
}

// IsNotFound reports whether err carries ErrCodeNotFound or
// ErrCodeCompanyNotFound.
func IsNotFound(err error) bool {
	return IsCode(err, ErrCodeNotFound) || IsCode(err, ErrCodeCompanyNotFound)
}
