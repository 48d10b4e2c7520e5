package domain

import "fmt"

// DomainError represents a domain-specific error with a code and message
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Error codes
const (
	ErrCodeNotFound   = "NOT_FOUND"
	ErrCodeValidation = "VALIDATION_ERROR"
	ErrCodeConflict   = "CONFLICT"
	ErrCodeTransient  = "TRANSIENT"
	ErrCodeInternal   = "INTERNAL_ERROR"
)

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource string) error {
	return &DomainError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

// NewValidationError creates a new validation error
func NewValidationError(msg string) error {
	return &DomainError{
		Code:    ErrCodeValidation,
		Message: msg,
	}
}

// NewConflictError creates a new conflict error
func NewConflictError(msg string) error {
	return &DomainError{
		Code:    ErrCodeConflict,
		Message: msg,
	}
}

// NewTransientError wraps a network or service-unavailable failure that the
// caller may retry; local state proceeds without it.
func NewTransientError(err error) error {
	return &DomainError{
		Code:    ErrCodeTransient,
		Message: "Service temporarily unavailable",
		Err:     err,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(err error) error {
	return &DomainError{
		Code:    ErrCodeInternal,
		Message: "An internal error occurred",
		Err:     err,
	}
}

// IsNotFound checks if the error is a not found error
func IsNotFound(err error) bool {
	if de, ok := err.(*DomainError); ok {
		return de.Code == ErrCodeNotFound
	}
	return false
}

// IsValidation checks if the error is a validation error
func IsValidation(err error) bool {
	if de, ok := err.(*DomainError); ok {
		return de.Code == ErrCodeValidation
	}
	return false
}

// IsConflict checks if the error is a conflict error
func IsConflict(err error) bool {
	if de, ok := err.(*DomainError); ok {
		return de.Code == ErrCodeConflict
	}
	return false
}

// IsTransient checks if the error is a transient error
func IsTransient(err error) bool {
	if de, ok := err.(*DomainError); ok {
		return de.Code == ErrCodeTransient
	}
	return false
}
