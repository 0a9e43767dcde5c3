package utils

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindNotFound
	KindValidation
	KindInvalidOperation
	KindForbidden
	KindUnauthenticated
)

const internalErrorMessage = "An internal error occurred. Please try again later."

type AppError struct {
	Kind    ErrorKind
	Message string
	Details []string
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

func (e *AppError) StatusCode() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation, KindInvalidOperation:
		return http.StatusBadRequest
	case KindForbidden:
		return http.StatusForbidden
	case KindUnauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func NotFound(entity string, key interface{}) error {
	return &AppError{Kind: KindNotFound, Message: fmt.Sprintf("%s (%v) was not found", entity, key)}
}

func Validation(message string, details ...string) error {
	return &AppError{Kind: KindValidation, Message: message, Details: details}
}

func InvalidOperation(format string, args ...interface{}) error {
	return &AppError{Kind: KindInvalidOperation, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(message string) error {
	return &AppError{Kind: KindForbidden, Message: message}
}

func Unauthenticated(message string) error {
	return &AppError{Kind: KindUnauthenticated, Message: message}
}

// Internal wraps a store or I/O failure; the message never reaches the client.
func Internal(message string, err error) error {
	return &AppError{Kind: KindInternal, Message: message, Err: err}
}

func IsKind(err error, kind ErrorKind) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == kind
}
