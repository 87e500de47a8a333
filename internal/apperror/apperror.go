package apperror

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Handlers map these to HTTP status codes with errors.Is:
// validation → 400, not found → 404, everything else → a generic 500 that never
// leaks the underlying message in production.
var (
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation error")
	ErrProvider        = errors.New("provider error")
	ErrEmptyGeneration = errors.New("empty generation")
)

type AppError struct {
	Err     error  // sentinel kind (one of the vars above)
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// ProviderFailure wraps a fault from the external generation provider
// (network error, quota, provider-side failure). Never retried.
func ProviderFailure(err error) *AppError {
	return &AppError{
		Err:     ErrProvider,
		Message: fmt.Sprintf("generation provider failed: %v", err),
	}
}

// EmptyGeneration indicates the provider produced nothing usable — an empty
// completion, or output that was only markdown fences and whitespace.
func EmptyGeneration(message string) *AppError {
	return &AppError{
		Err:     ErrEmptyGeneration,
		Message: message,
	}
}
