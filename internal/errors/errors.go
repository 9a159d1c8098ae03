// Package errors classifies remote store failures so the write executor can
// decide between retrying with backoff and failing fast.
package errors

import (
	stderrors "errors"
	"fmt"

	"github.com/tidewell/scheduler/internal/model"
)

// ErrorCategory selects the retry policy for a failed store call.
type ErrorCategory int

const (
	// Recoverable failures are retried with exponential backoff: 5xx, 429,
	// timeouts, connection resets.
	Recoverable ErrorCategory = iota

	// Irrecoverable failures are reported at once: validation, not found,
	// other 4xx.
	Irrecoverable
)

func (c ErrorCategory) String() string {
	switch c {
	case Recoverable:
		return "Recoverable"
	case Irrecoverable:
		return "Irrecoverable"
	default:
		return fmt.Sprintf("Unknown(%d)", int(c))
	}
}

// ClassifiedError wraps a store failure with its retry category.
type ClassifiedError struct {
	Category   ErrorCategory
	StatusCode int    // 0 when the failure was not an HTTP response
	Body       string // response body, for logs
	Underlying error
}

func (e *ClassifiedError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("[%s] HTTP %d: %v", e.Category, e.StatusCode, e.Underlying)
	}
	return fmt.Sprintf("[%s] %v", e.Category, e.Underlying)
}

func (e *ClassifiedError) Unwrap() error { return e.Underlying }

// IsIrrecoverable reports whether err, or anything it wraps, must not be
// retried. Unclassified model.ErrValidation and model.ErrNotFound count as
// irrecoverable too.
func IsIrrecoverable(err error) bool {
	var ce *ClassifiedError
	if stderrors.As(err, &ce) {
		return ce.Category == Irrecoverable
	}
	return stderrors.Is(err, model.ErrValidation) || stderrors.Is(err, model.ErrNotFound)
}

// Irrecoverablef builds an irrecoverable error without an HTTP status.
func Irrecoverablef(format string, args ...any) *ClassifiedError {
	return &ClassifiedError{Category: Irrecoverable, Underlying: fmt.Errorf(format, args...)}
}
