package services

import "fmt"

// Closed error taxonomy. Controllers map these onto HTTP statuses;
// anything else is a server error.

// ValidationError: malformed input. Surfaced to the caller, no retry.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

func errValidation(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotEligibleError: a window or admission rule refused the operation.
// Reason names the rule that failed ("past cutoff", "quota exhausted",
// "duplicate for period", ...).
type NotEligibleError struct{ Reason string }

func (e *NotEligibleError) Error() string { return "not eligible: " + e.Reason }

func errNotEligible(format string, args ...any) error {
	return &NotEligibleError{Reason: fmt.Sprintf(format, args...)}
}

// NotFoundError: the referenced order/menu is absent or soft-deleted.
type NotFoundError struct{ What string }

func (e *NotFoundError) Error() string { return e.What + " not found" }

func errNotFound(what string) error { return &NotFoundError{What: what} }

// ConflictError: an optimistic-concurrency or uniqueness violation at
// commit time. The caller may retry the whole operation once.
type ConflictError struct{ Msg string }

func (e *ConflictError) Error() string { return e.Msg }

func errConflict(format string, args ...any) error {
	return &ConflictError{Msg: fmt.Sprintf(format, args...)}
}
