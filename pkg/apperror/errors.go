// Package apperror provides a structured way to handle application errors
// with specific codes, severity levels, and additional details.
//
// Two failure classes matter for the certifier:
//   - CodeMalformedInput: graph construction received inconsistent data and
//     must fail outright.
//   - CodeInvariantViolation: a structural invariant of the graph or of the
//     residual network is broken. These are raised with panic(Invariant(...))
//     and are never swallowed.
//
// A sparse cut found by the game is NOT an error and has no code here.
package apperror

import (
	"errors"
	"fmt"
)

// ErrorCode represents a specific application error code.
type ErrorCode string

const (
	// Input
	CodeMalformedInput   ErrorCode = "MALFORMED_INPUT"
	CodeNilInput         ErrorCode = "NIL_INPUT"
	CodeInvalidArgument  ErrorCode = "INVALID_ARGUMENT"
	CodeInvalidNode      ErrorCode = "INVALID_NODE"
	CodeSelfLoop         ErrorCode = "SELF_LOOP"
	CodeEdgeNotFound     ErrorCode = "EDGE_NOT_FOUND"
	CodeInvalidCut       ErrorCode = "INVALID_CUT"
	CodeInvalidCapacity  ErrorCode = "INVALID_CAPACITY"
	CodeInvalidSource    ErrorCode = "INVALID_SOURCE"
	CodeInvalidSink      ErrorCode = "INVALID_SINK"
	CodeSourceEqualsSink ErrorCode = "SOURCE_EQUALS_SINK"

	// Algorithms
	CodeInvalidAlgorithm   ErrorCode = "INVALID_ALGORITHM"
	CodeInvariantViolation ErrorCode = "INVARIANT_VIOLATION"
	CodeTimeout            ErrorCode = "TIMEOUT"

	// General
	CodeInternal ErrorCode = "INTERNAL_ERROR"
	CodeNotFound ErrorCode = "NOT_FOUND"
)

// Severity defines the criticality level of an error.
type Severity int

const (
	// SeverityWarning indicates a non-critical issue that can be ignored or automatically resolved.
	SeverityWarning Severity = iota
	// SeverityError indicates a standard error that requires attention.
	SeverityError
	// SeverityCritical indicates a broken invariant; the current run cannot continue.
	SeverityCritical
)

// String returns the string representation of the Severity.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Error is a custom error type that includes an ErrorCode, message,
// an optional field, additional details, an underlying cause, and a severity level.
type Error struct {
	Code     ErrorCode      // Code is a unique identifier for the type of error.
	Message  string         // Message is a human-readable description of the error.
	Field    string         // Field indicates which input field caused the error, if applicable.
	Details  map[string]any // Details provides additional structured information about the error.
	Cause    error          // Cause is the underlying error that triggered this application error.
	Severity Severity       // Severity indicates the criticality level of the error.
}

// Error implements the error interface, returning a string representation of the error.
func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("[%s] %s (field: %s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error, allowing for error chain introspection.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new application error with the given code and message.
// The default severity is SeverityError.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Details:  make(map[string]any),
		Severity: SeverityError,
	}
}

// Newf is New with a formatted message.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// NewWithField creates a new application error with the given code, message, and field.
func NewWithField(code ErrorCode, message, field string) *Error {
	e := New(code, message)
	e.Field = field
	return e
}

// NewCritical creates a new application error with SeverityCritical.
func NewCritical(code ErrorCode, message string) *Error {
	e := New(code, message)
	e.Severity = SeverityCritical
	return e
}

// Malformed creates a CodeMalformedInput error.
func Malformed(format string, args ...any) *Error {
	return Newf(CodeMalformedInput, format, args...)
}

// Invariant creates a critical CodeInvariantViolation error. Callers panic
// with the result.
func Invariant(format string, args ...any) *Error {
	return NewCritical(CodeInvariantViolation, fmt.Sprintf(format, args...))
}

// Wrap creates a new application error that wraps an existing error,
// providing additional context with a code and message.
func Wrap(cause error, code ErrorCode, message string) *Error {
	e := New(code, message)
	e.Cause = cause
	return e
}

// WithDetails adds a key-value pair to the error's details map and returns the modified error.
func (e *Error) WithDetails(key string, value any) *Error {
	e.Details[key] = value
	return e
}

// WithField sets the field associated with the error and returns the modified error.
func (e *Error) WithField(field string) *Error {
	e.Field = field
	return e
}

// WithSeverity sets the severity level of the error and returns the modified error.
func (e *Error) WithSeverity(s Severity) *Error {
	e.Severity = s
	return e
}

// Is checks if the given error is an application error with a matching ErrorCode.
func Is(err error, code ErrorCode) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// Code extracts the ErrorCode from an error. If the error is not an *Error,
// it returns CodeInternal.
func Code(err error) ErrorCode {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// IsCritical checks if the given error is an application error with SeverityCritical.
func IsCritical(err error) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Severity == SeverityCritical
	}
	return false
}

// Recover converts a recovered panic value into an error. Application errors
// pass through unchanged; anything else is wrapped as an invariant violation.
// Intended for deferred use at the outermost boundary of a run:
//
//	defer func() {
//	    if r := recover(); r != nil {
//	        err = apperror.Recover(r)
//	    }
//	}()
func Recover(r any) error {
	switch v := r.(type) {
	case *Error:
		return v
	case error:
		return Wrap(v, CodeInvariantViolation, v.Error()).WithSeverity(SeverityCritical)
	default:
		return Invariant("%v", v)
	}
}

// Predefined errors for common scenarios.
var (
	ErrNilGraph         = New(CodeNilInput, "graph is nil")
	ErrInvalidSource    = New(CodeInvalidSource, "source node not in graph")
	ErrInvalidSink      = New(CodeInvalidSink, "sink node not in graph")
	ErrSourceEqualsSink = New(CodeSourceEqualsSink, "source and sink cannot be the same")
	ErrCacheDisabled    = New(CodeInvalidArgument, "verdict cache is not configured")
)
