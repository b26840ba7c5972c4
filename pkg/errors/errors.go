package errors

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/lib/pq"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors. ConstraintViolation, Reference and NotFound are the
// kinds surfaced by the record operations; the rest are transport concerns.
var (
	ErrConstraintViolation = New("CONSTRAINT_VIOLATION", http.StatusConflict, "constraint violation")
	ErrReference           = New("REFERENCE_ERROR", http.StatusUnprocessableEntity, "referenced record does not exist")
	ErrNotFound            = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrValidation          = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal            = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrCacheMiss           = New("CACHE_MISS", http.StatusNotFound, "cache miss")
)

// PostgreSQL SQLSTATE codes mapped onto the record error kinds.
const (
	pgStringTooLong   = "22001"
	pgNotNull         = "23502"
	pgForeignKey      = "23503"
	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// FromDatabase classifies an error returned by the persistence boundary.
// message overrides the kind's default message when not empty.
func FromDatabase(err error, message string) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	if errors.Is(err, sql.ErrNoRows) {
		return wrapKind(err, ErrNotFound, message)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pgUniqueViolation, pgNotNull, pgCheckViolation, pgStringTooLong:
			return wrapKind(err, ErrConstraintViolation, describe(message, pqErr))
		case pgForeignKey:
			return wrapKind(err, ErrReference, describe(message, pqErr))
		}
	}
	return wrapKind(err, ErrInternal, message)
}

// Is reports whether err carries the same code as kind.
func Is(err error, kind *Error) bool {
	if err == nil || kind == nil {
		return false
	}
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Code == kind.Code
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

func wrapKind(err error, kind *Error, message string) *Error {
	if message == "" {
		message = kind.Message
	}
	return Wrap(err, kind.Code, kind.Status, message)
}

func describe(message string, pqErr *pq.Error) string {
	if pqErr.Constraint == "" {
		return message
	}
	if message == "" {
		return pqErr.Constraint
	}
	return fmt.Sprintf("%s (%s)", message, pqErr.Constraint)
}
