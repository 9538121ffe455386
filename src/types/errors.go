package types

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorKind int

const (
	VALIDATION_ERROR ErrorKind = iota + 1
	NOT_FOUND_ERROR
	CONFLICT_ERROR
	AUTH_ERROR
	FORBIDDEN_ERROR
	INTERNAL_ERROR
)

// AppError is returned across the engine boundary so handlers can map the
// outcome to a status code without string matching.
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Message, e.Err.Error())
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) Status() int {
	switch e.Kind {
	case VALIDATION_ERROR:
		return http.StatusBadRequest
	case NOT_FOUND_ERROR:
		return http.StatusNotFound
	case CONFLICT_ERROR:
		return http.StatusConflict
	case AUTH_ERROR:
		return http.StatusUnauthorized
	case FORBIDDEN_ERROR:
		return http.StatusForbidden
	case INTERNAL_ERROR:
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}

var ErrSlotUnavailable = &AppError{Kind: CONFLICT_ERROR, Message: "slot unavailable"}

func NewValidationError(format string, args ...any) *AppError {
	return &AppError{Kind: VALIDATION_ERROR, Message: fmt.Sprintf(format, args...)}
}

func NewNotFoundError(format string, args ...any) *AppError {
	return &AppError{Kind: NOT_FOUND_ERROR, Message: fmt.Sprintf(format, args...)}
}

func NewConflictError(format string, args ...any) *AppError {
	return &AppError{Kind: CONFLICT_ERROR, Message: fmt.Sprintf(format, args...)}
}

func NewAuthError(msg string) *AppError {
	return &AppError{Kind: AUTH_ERROR, Message: msg}
}

func NewForbiddenError(msg string) *AppError {
	return &AppError{Kind: FORBIDDEN_ERROR, Message: msg}
}

func NewInternalError(err error) *AppError {
	return &AppError{Kind: INTERNAL_ERROR, Message: "something went wrong", Err: err}
}

// StatusOf resolves the HTTP status and the caller-safe message for err.
// Anything that is not an AppError is treated as internal.
func StatusOf(err error) (int, string) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.Kind == INTERNAL_ERROR {
			return appErr.Status(), "something went wrong"
		}
		return appErr.Status(), appErr.Message
	}
	return http.StatusInternalServerError, "something went wrong"
}
