// Package apperrors defines the error kinds the service reports to clients
// and the HTTP status each of them maps to.
package apperrors

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindPersistence Kind = iota
	KindValidation
	KindDuplicate
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindDuplicate:
		return "duplicate"
	case KindNotFound:
		return "not_found"
	default:
		return "persistence"
	}
}

// Status is the HTTP status code clients see for this kind.
func (k Kind) Status() int {
	switch k {
	case KindValidation, KindDuplicate:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error carries a client-facing Message. Err is the cause and is only ever logged.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func Duplicate(message string, cause error) *Error {
	return &Error{Kind: KindDuplicate, Message: message, Err: cause}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Persistence(message string, cause error) *Error {
	return &Error{Kind: KindPersistence, Message: message, Err: cause}
}

// StatusOf returns the HTTP status and client message for err.
// Errors that are not *Error are reported as a generic 500.
func StatusOf(err error) (int, string) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind.Status(), appErr.Message
	}
	return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}
