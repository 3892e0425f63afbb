// Package errs provides the unified error type used across sqlconsole.
//
// Drivers, the dialect registry, the query guard and the schema browser all
// return *errs.Error. Callers branch on the Is* predicates and never import
// driver-specific packages.
//
// Usage:
//
//	// In a driver, wrap native errors:
//	return errs.Wrap(errs.ErrKindQueryFailed, "query failed", myErr)
//
//	// At the query-entry boundary, decide what the user sees:
//	if errs.IsReadOnlyViolation(err) {
//	    resp.Error = errs.Message(err)
//	}
package errs

import (
	"errors"
	"fmt"
)

// ErrKind categorises an error without exposing backend-specific codes.
type ErrKind int

const (
	ErrKindUnknown              ErrKind = iota
	ErrKindNotFound                     // no rows
	ErrKindConnectionFailed             // cannot reach the backend
	ErrKindTimeout                      // context deadline / cancellation
	ErrKindQueryFailed                  // SQL or storage operation error
	ErrKindInvalidInput                 // bad arguments from the caller
	ErrKindPermissionDenied             // access denied / auth failure
	ErrKindUnsupportedDialect           // configuration names an unknown dialect
	ErrKindUnsupportedOperation         // no template for (dialect, operation)
	ErrKindReadOnlyViolation            // statement rejected by the read-only policy
	ErrKindTableNotFound                // table name not in the live table list
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindNotFound:
		return "not_found"
	case ErrKindConnectionFailed:
		return "connection_failed"
	case ErrKindTimeout:
		return "timeout"
	case ErrKindQueryFailed:
		return "query_failed"
	case ErrKindInvalidInput:
		return "invalid_input"
	case ErrKindPermissionDenied:
		return "permission_denied"
	case ErrKindUnsupportedDialect:
		return "unsupported_dialect"
	case ErrKindUnsupportedOperation:
		return "unsupported_operation"
	case ErrKindReadOnlyViolation:
		return "read_only_violation"
	case ErrKindTableNotFound:
		return "table_not_found"
	default:
		return "unknown"
	}
}

// Error is the single error type returned by all sqlconsole subsystems.
type Error struct {
	Kind    ErrKind
	Message string
	Cause   error // original driver-level error, preserved for logging
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap allows errors.Is / errors.As to traverse the cause chain.
func (e *Error) Unwrap() error {
	return e.Cause
}

// --- Constructors ---

// New creates an *Error with the given kind and message and no cause.
func New(kind ErrKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Newf is New with a format string.
func Newf(kind ErrKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an *Error with the given kind, message, and an underlying cause.
func Wrap(kind ErrKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// Message returns the user-facing text of err: the Message of the first
// *Error in the chain, followed by its cause when there is one. Errors of
// other types are returned verbatim.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	return err.Error()
}

// --- Predicates ---

// IsNotFound reports whether err represents a "no rows" result.
func IsNotFound(err error) bool {
	return KindOf(err) == ErrKindNotFound
}

// IsTimeout reports whether err was caused by a deadline or context cancellation.
func IsTimeout(err error) bool {
	return KindOf(err) == ErrKindTimeout
}

// IsConnectionFailed reports whether err is a connectivity or auth failure.
func IsConnectionFailed(err error) bool {
	return KindOf(err) == ErrKindConnectionFailed
}

// IsQueryFailed reports whether err is a backend execution failure.
func IsQueryFailed(err error) bool {
	return KindOf(err) == ErrKindQueryFailed
}

// IsInvalidInput reports whether err was caused by bad input from the caller.
func IsInvalidInput(err error) bool {
	return KindOf(err) == ErrKindInvalidInput
}

// IsPermissionDenied reports whether err is an access control failure.
func IsPermissionDenied(err error) bool {
	return KindOf(err) == ErrKindPermissionDenied
}

// IsUnsupportedDialect reports whether err names a dialect outside the supported set.
func IsUnsupportedDialect(err error) bool {
	return KindOf(err) == ErrKindUnsupportedDialect
}

// IsUnsupportedOperation reports whether err is a missing (dialect, operation) template.
func IsUnsupportedOperation(err error) bool {
	return KindOf(err) == ErrKindUnsupportedOperation
}

// IsReadOnlyViolation reports whether err was raised by the read-only policy.
func IsReadOnlyViolation(err error) bool {
	return KindOf(err) == ErrKindReadOnlyViolation
}

// IsTableNotFound reports whether err is an unknown-table rejection.
func IsTableNotFound(err error) bool {
	return KindOf(err) == ErrKindTableNotFound
}

// KindOf extracts the ErrKind from any error in the chain.
func KindOf(err error) ErrKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrKindUnknown
}
