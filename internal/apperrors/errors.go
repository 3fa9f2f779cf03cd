package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInvalidState indicates that a state-machine precondition was violated,
// e.g. settling an instrument that is no longer pending.
var ErrInvalidState = errors.New("invalid state")

// ErrStorage indicates that the underlying persistence layer failed.
// Callers may retry these; they are never caused by user input.
var ErrStorage = errors.New("storage failure")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// AppError carries an HTTP-ish status code alongside the wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
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

// Is makes every server-side AppError match ErrStorage.
func (e *AppError) Is(target error) bool {
	return target == ErrStorage && e.Code >= http.StatusInternalServerError
}

// IsBusiness reports whether err is one of the expected business-rule failures
// (as opposed to a storage failure or an unknown error).
func IsBusiness(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidState) ||
		errors.Is(err, ErrDuplicate)
}
