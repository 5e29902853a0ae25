package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates that the authenticated user lacks permission for the action.
var ErrForbidden = errors.New("forbidden")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrConflict indicates the operation conflicts with the current state of the resource.
var ErrConflict = errors.New("conflict with current resource state")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// ErrRefreshTokenExpired indicates the presented refresh token is past its expiry.
var ErrRefreshTokenExpired = errors.New("refresh token expired")

// ErrConfigurationIncomplete indicates the tenant has not finished billing setup
// (numbering prefix/start/suffix missing). Handlers surface this as an
// onboarding prompt rather than a generic failure.
var ErrConfigurationIncomplete = errors.New("tenant billing configuration incomplete")

// ErrSequenceCollision indicates two allocations raced for the same document
// number. The caller retries allocation exactly once before giving up.
var ErrSequenceCollision = errors.New("document number sequence collision")

// ErrInvalidAmount indicates a negative or non-finite monetary value where
// a non-negative amount is required.
var ErrInvalidAmount = errors.New("invalid monetary amount")

// ErrNoBudgetData indicates a KPI ratio was requested with no budget set.
// It is surfaced as an explicit "unavailable" value, never coerced to zero.
var ErrNoBudgetData = errors.New("no budget data")

// AppError wraps a lower-level error with an HTTP-ish status code and message.
// Repositories use it to attach context to driver errors.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that matches errors.Is(err, ErrNotFound).
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}
