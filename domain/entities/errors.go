package entities

import (
	"errors"
	"fmt"
)

// Recoverable business failures. Callers can distinguish "retry won't help"
// conditions (duplicate, locked, invalid selection) from conditions that may
// clear after user action (insufficient balance) via IsRetryable.
var (
	// ErrInsufficientBalance is returned when a user's balance cannot cover a purchase.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrDuplicateTicket is returned when a user already holds a ticket for a draw.
	ErrDuplicateTicket = errors.New("user already holds a ticket for this draw")

	// ErrDrawLocked is returned when a purchase arrives inside the lock window.
	ErrDrawLocked = errors.New("draw is locked for ticket sales")

	// ErrDrawNotOpen is returned for purchases against completed or inactive draws.
	ErrDrawNotOpen = errors.New("draw is not open for ticket sales")

	// ErrAlreadyCompleted is returned when completing a draw that has already settled.
	ErrAlreadyCompleted = errors.New("draw has already been completed")

	// ErrTicketCapExceeded is returned when a user hits the per-draw ticket cap.
	ErrTicketCapExceeded = errors.New("ticket cap for this draw exceeded")

	// ErrUserNotFound is returned when the referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrUserBlocked is returned when a blocked user attempts an operation.
	ErrUserBlocked = errors.New("user is blocked")

	// ErrDrawNotFound is returned when the referenced draw does not exist.
	ErrDrawNotFound = errors.New("draw not found")
)

// ValidationError reports a malformed input, such as a bad number selection.
type ValidationError struct {
	Field  string
	Reason string
}

// NewValidationError creates a validation error for a named field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsRetryable reports whether the failure may clear after user action.
// Insufficient balance can be fixed with a deposit; the rest are terminal
// for the attempted operation.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrInsufficientBalance)
}
