package submission

import (
	"errors"
	"fmt"
	"strings"
)

// Provider names used in ProviderError.
const (
	ProviderCalendar = "calendar"
	ProviderEmail    = "email"
)

// ErrMissingFields is matched by every ValidationError via errors.Is.
var ErrMissingFields = errors.New("submission: required fields missing")

// ValidationError is returned when required fields are empty. No side effect
// may run for a request that fails validation.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("submission: missing required fields: %s", strings.Join(e.Missing, ", "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrMissingFields
}

// ProviderError wraps a failure reported by an external delivery provider.
type ProviderError struct {
	Provider string // ProviderCalendar or ProviderEmail
	Op       string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s provider: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("%s provider: %s: %v", e.Provider, e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// CalendarError wraps err as a calendar provider failure.
func CalendarError(op string, err error) error {
	return &ProviderError{Provider: ProviderCalendar, Op: op, Err: err}
}

// EmailError wraps err as an email provider failure.
func EmailError(op string, err error) error {
	return &ProviderError{Provider: ProviderEmail, Op: op, Err: err}
}

// IsCalendarError reports whether err came from the calendar provider.
func IsCalendarError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.Provider == ProviderCalendar
}

// IsEmailError reports whether err came from the email provider.
func IsEmailError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.Provider == ProviderEmail
}

// FallbackStorageError means a failed submission could not be persisted.
// There is no secondary fallback; the caller gets a bare internal error.
type FallbackStorageError struct {
	Err error
}

func (e *FallbackStorageError) Error() string {
	return fmt.Sprintf("fallback storage: %v", e.Err)
}

func (e *FallbackStorageError) Unwrap() error { return e.Err }
