package shared

import (
	"errors"
	"fmt"
)

// DomainError represents a domain-level error.
// Two DomainErrors match under errors.Is when their codes are equal, so a
// sentinel such as ErrInsufficientStock also matches a copy carrying a more
// specific message.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is matches domain errors by code
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithMessage returns a copy of the error with a more specific message
func (e *DomainError) WithMessage(format string, args ...any) *DomainError {
	return &DomainError{Code: e.Code, Message: fmt.Sprintf(format, args...)}
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrCrossTenant         = NewDomainError("CROSS_TENANT_REFERENCE", "Referenced resource belongs to another tenant")
	ErrInvariantViolation  = NewDomainError("INVARIANT_VIOLATION", "Internal invariant violated")
)

// Ledger errors
var (
	ErrInsufficientStock     = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrInvalidAmount         = NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	ErrMissingPaymentMethod  = NewDomainError("MISSING_PAYMENT_METHOD", "Tenant has no active default payment method")
	ErrRegisterAlreadyOpen   = NewDomainError("REGISTER_ALREADY_OPEN", "Operator already has an open cash register")
	ErrRegisterAlreadyClosed = NewDomainError("REGISTER_ALREADY_CLOSED", "Cash register is already closed")
	ErrRegisterNotOpen       = NewDomainError("REGISTER_NOT_OPEN", "Cash register is not open")
)

// IsNotFound reports whether err is (or wraps) ErrNotFound
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
