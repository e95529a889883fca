// Package apperr defines the error taxonomy shared by every layer of the API.
//
// Each class of failure has a sentinel error. Domain errors wrap one of the
// sentinels, so callers classify with errors.Is and the HTTP layer maps any
// error to a status code with Status and to a stable code string with Code.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Classes.
var (
	ErrValidation        = errors.New("validation failed")
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("not found")
	ErrProfileMissing    = errors.New("profile missing")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrConflict          = errors.New("conflict")
	ErrInternal          = errors.New("internal error")
)

// Domain errors. Each one wraps its class.
var (
	ErrOrderNotFound       = fmt.Errorf("order %w", ErrNotFound)
	ErrDishNotFound        = fmt.Errorf("dish %w", ErrNotFound)
	ErrKitchenNotFound     = fmt.Errorf("kitchen %w", ErrNotFound)
	ErrUserNotFound        = fmt.Errorf("user %w", ErrNotFound)
	ErrDishUnavailable     = fmt.Errorf("%w: dish unavailable", ErrValidation)
	ErrKitchenUnavailable  = fmt.Errorf("%w: kitchen unavailable", ErrValidation)
	ErrDishNotInKitchen    = fmt.Errorf("%w: dish does not belong to kitchen", ErrValidation)
	ErrInvalidQuantity     = fmt.Errorf("%w: quantity must be a positive integer", ErrValidation)
	ErrNoItems             = fmt.Errorf("%w: order needs at least one item", ErrValidation)
	ErrAmountTooLarge      = fmt.Errorf("%w: amount exceeds the maximum", ErrValidation)
	ErrEmailTaken          = fmt.Errorf("%w: email already registered", ErrValidation)
	ErrInvalidCredentials  = fmt.Errorf("%w: invalid email or password", ErrUnauthenticated)
	ErrOrderAlreadyClaimed = fmt.Errorf("%w: order already claimed", ErrConflict)
)

// TransitionError reports a lifecycle move that the transition table rejects.
type TransitionError struct {
	From string
	To   string
	Role string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid transition: %s → %s is not allowed for %s", e.From, e.To, e.Role)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// FieldError reports a single malformed input field.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("value is invalid: %s (%s)", e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error { return ErrValidation }

// Invalid is a shorthand for a FieldError.
func Invalid(field, reason string) error {
	return &FieldError{Field: field, Reason: reason}
}

// Forbidden wraps ErrForbidden with a reason.
func Forbidden(reason string) error {
	return fmt.Errorf("%w: %s", ErrForbidden, reason)
}

// Status maps err to an HTTP status code. Unclassified errors are 500.
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidTransition):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrProfileMissing):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Code returns a stable machine-readable code for err.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrOrderAlreadyClaimed):
		return "order_already_claimed"
	case errors.Is(err, ErrEmailTaken):
		return "email_taken"
	case errors.Is(err, ErrDishUnavailable):
		return "dish_unavailable"
	case errors.Is(err, ErrInvalidQuantity):
		return "invalid_quantity"
	case errors.Is(err, ErrAmountTooLarge):
		return "amount_too_large"
	case errors.Is(err, ErrOrderNotFound):
		return "order_not_found"
	case errors.Is(err, ErrDishNotFound):
		return "dish_not_found"
	case errors.Is(err, ErrProfileMissing):
		return "profile_missing"
	case errors.Is(err, ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, ErrValidation):
		return "validation_error"
	case errors.Is(err, ErrUnauthenticated):
		return "unauthenticated"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrConflict):
		return "conflict"
	default:
		return "internal_error"
	}
}

// IsInternal reports whether err falls outside the known classes.
func IsInternal(err error) bool {
	return Status(err) == http.StatusInternalServerError
}
