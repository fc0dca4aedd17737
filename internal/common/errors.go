package common

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// AppError is a typed failure surfaced to callers with an HTTP-like status code.
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

func NewValidationError(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: message}
}

func NewNotFoundError(resource, id string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: fmt.Sprintf("%s not found: %s", resource, id)}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{Code: http.StatusForbidden, Message: message}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{Code: http.StatusUnauthorized, Message: message}
}

// StatusCode returns the status carried by an AppError anywhere in the chain, or 500.
func StatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return http.StatusInternalServerError
}

func IsValidation(err error) bool {
	return StatusCode(err) == http.StatusBadRequest
}

func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}
