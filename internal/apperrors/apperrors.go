// Package apperrors defines the typed error taxonomy used at the store-client
// boundary. Classification happens here, on SQLSTATE codes and network error
// types, never by scanning error message text.
package apperrors

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"

	"github.com/lib/pq"
)

// Kind classifies an error for callers and for HTTP mapping
type Kind string

const (
	// Validation indicates malformed input, rejected before any store mutation
	Validation Kind = "VALIDATION"

	// Conflict indicates a uniqueness or referential violation
	Conflict Kind = "CONFLICT"

	// PermissionDenied indicates a store-level authorization rejection.
	// Never treated as retryable and never conflated with Transient.
	PermissionDenied Kind = "PERMISSION_DENIED"

	// NotFound indicates a referenced entity does not exist
	NotFound Kind = "NOT_FOUND"

	// Transient indicates a network or timeout failure that is safe to retry
	Transient Kind = "TRANSIENT"

	// Internal is the fallback for everything unclassified
	Internal Kind = "INTERNAL"
)

// Postgres SQLSTATE codes the store boundary understands
const (
	pgInsufficientPrivilege = "42501"
	pgUniqueViolation       = "23505"
	pgForeignKeyViolation   = "23503"
	pgQueryCanceled         = "57014"
	pgConnectionFailure     = "08006"
	pgCannotConnectNow      = "57P03"
)

// Error carries a kind, a short human-readable message and optional detail
type Error struct {
	Kind    Kind
	Message string // one short specific sentence, never a serialized object
	Field   string // offending field for Validation errors
	Count   int    // blocking-reference count for Conflict errors
	Err     error  // wrapped cause
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Retryable reports whether the caller may safely retry the operation
func (e *Error) Retryable() bool { return e.Kind == Transient }

// New creates an error of the given kind
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Validationf creates a Validation error naming the offending field
func Validationf(field, format string, args ...interface{}) *Error {
	return &Error{Kind: Validation, Message: fmt.Sprintf(format, args...), Field: field}
}

// Conflictf creates a Conflict error with a blocking-reference count
func Conflictf(count int, format string, args ...interface{}) *Error {
	return &Error{Kind: Conflict, Message: fmt.Sprintf(format, args...), Count: count}
}

// NotFoundf creates a NotFound error
func NotFoundf(format string, args ...interface{}) *Error {
	return &Error{Kind: NotFound, Message: fmt.Sprintf(format, args...)}
}

// Wrap classifies err and attaches a short message. sql.ErrNoRows maps to
// NotFound, pq SQLSTATEs to their kinds, timeouts and connection failures to
// Transient, everything else to Internal.
func Wrap(err error, message string) *Error {
	if err == nil {
		return nil
	}

	// Already classified: keep the original kind, re-wrap the message
	var appErr *Error
	if errors.As(err, &appErr) {
		return &Error{Kind: appErr.Kind, Message: message, Field: appErr.Field, Count: appErr.Count, Err: err}
	}

	return &Error{Kind: classify(err), Message: message, Err: err}
}

func classify(err error) Kind {
	if errors.Is(err, sql.ErrNoRows) {
		return NotFound
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return Transient
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pgInsufficientPrivilege:
			return PermissionDenied
		case pgUniqueViolation, pgForeignKeyViolation:
			return Conflict
		case pgQueryCanceled, pgConnectionFailure, pgCannotConnectNow:
			return Transient
		}
		return Internal
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return Transient
	}

	return Internal
}

// KindOf returns the classified kind of any error
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	if err == nil {
		return Internal
	}
	return classify(err)
}

// IsKind reports whether err carries the given kind
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
