package errors

import (
	"fmt"
	"net/http"

	"github.com/tidewell/scheduler/internal/model"
)

// ClassifyHTTPError maps a status code onto a category. 408 and 429 are
// retried along with every 5xx; the rest of 4xx fails fast.
func ClassifyHTTPError(statusCode int, body string, underlying error) *ClassifiedError {
	return &ClassifiedError{
		Category:   httpCategory(statusCode),
		StatusCode: statusCode,
		Body:       body,
		Underlying: underlying,
	}
}

func httpCategory(statusCode int) ErrorCategory {
	switch {
	case statusCode == http.StatusRequestTimeout, statusCode == http.StatusTooManyRequests:
		return Recoverable
	case statusCode >= 400 && statusCode < 500:
		return Irrecoverable
	default:
		return Recoverable
	}
}

// NewHTTPError classifies a non-success response for operation. 404 wraps
// model.ErrNotFound and 400 wraps model.ErrValidation so callers can use
// errors.Is without knowing about HTTP.
func NewHTTPError(statusCode int, body string, operation string) *ClassifiedError {
	var underlying error
	switch statusCode {
	case http.StatusNotFound:
		underlying = fmt.Errorf("%s: %w", operation, model.ErrNotFound)
	case http.StatusBadRequest:
		underlying = fmt.Errorf("%s: %w", operation, model.ErrValidation)
	case http.StatusConflict:
		underlying = fmt.Errorf("%s: %w", operation, model.ErrConflict)
	default:
		underlying = fmt.Errorf("%s failed: HTTP %d", operation, statusCode)
	}
	return ClassifyHTTPError(statusCode, body, underlying)
}

// NewNetworkError classifies a transport failure; these are always retried.
func NewNetworkError(operation string, err error) *ClassifiedError {
	return &ClassifiedError{
		Category:   Recoverable,
		Underlying: fmt.Errorf("%s network error: %w", operation, err),
	}
}
