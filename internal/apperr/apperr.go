// Package apperr holds the error taxonomy shared by the service layer
// and the HTTP handlers. Every error a service returns either is, or
// wraps, one of these sentinels so handlers can map it to a status
// code with errors.Is.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound: a referenced project, contact, transaction or tax
	// does not exist or is not owned by the caller.
	ErrNotFound = errors.New("not found")

	// ErrConflict: an optimistic version check failed; the caller must
	// re-fetch and retry with fresh versions.
	ErrConflict = errors.New("version conflict")

	// ErrInvalidRequest: the request is malformed (e.g. scope=ALL
	// without a root version).
	ErrInvalidRequest = errors.New("invalid request")

	// ErrInternal: the unit of work failed to persist or re-read a row
	// it just wrote.
	ErrInternal = errors.New("internal error")
)

// ValidationError reports a date-range/type inconsistency detected
// before any row is touched.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func Validationf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrNotFound)
}
