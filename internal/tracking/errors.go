package tracking

import (
	"errors"
	"fmt"

	"github.com/your-org/campustrack/internal/models"
)

// ErrSuperseded is returned by a search that finished after a newer search started.
var ErrSuperseded = errors.New("superseded by a newer request")

// ErrMalformedSnapshot is wrapped by load failures caused by invalid records.
var ErrMalformedSnapshot = models.ErrMalformedSnapshot

// ValidationError reports missing or invalid user input. It is raised before
// any backend call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// TransportError reports a network or backend failure during load or search.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// LoadError is returned by DataStore.Load once all attempts are exhausted.
type LoadError struct {
	Attempts int
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load snapshot (after %d attempts): %v", e.Attempts, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

func newValidationError(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// IsValidation reports whether err is or wraps a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsTransport reports whether err is or wraps a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
