// Package errs provides structured, user-friendly errors with machine-parseable codes.
package errs

import (
	"errors"
	"fmt"
)

// ErrorCode is a machine-parseable error identifier.
type ErrorCode string

const (
	// General
	ErrUnknown    ErrorCode = "ERR-000"
	ErrInternal   ErrorCode = "ERR-001"
	ErrConfig     ErrorCode = "ERR-002"
	ErrValidation ErrorCode = "ERR-003"

	// Argument errors
	ErrInvalidArgs ErrorCode = "ERR-ARGS-001"

	// Version control errors
	ErrRevision  ErrorCode = "ERR-GIT-001"
	ErrGitStatus ErrorCode = "ERR-GIT-002"
	ErrGitRoot   ErrorCode = "ERR-GIT-003"

	// External tool errors
	ErrToolNotFound ErrorCode = "ERR-TOOL-001"
	ErrToolLaunch   ErrorCode = "ERR-TOOL-002"

	// State errors
	ErrStateRead  ErrorCode = "ERR-STATE-001"
	ErrStateWrite ErrorCode = "ERR-STATE-002"

	// Lock errors
	ErrLocked ErrorCode = "ERR-LOCK-001"
)

// Error is the standard structured error type used across devctl packages.
type Error struct {
	Code     ErrorCode // Machine-parseable error code
	Op       string    // Operation chain, e.g., "bench.compare.resolve"
	Resource string    // Resource identifier (tool name, revision, path)
	Cause    error     // Wrapped upstream error
	Advice   string    // Human-readable remediation hint
}

func (e *Error) Error() string {
	if e.Resource != "" {
		return fmt.Sprintf("[%s] %s (%s): %v", e.Code, e.Op, e.Resource, e.Cause)
	}
	return fmt.Sprintf("[%s] %s: %v", e.Code, e.Op, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// UserMessage returns the formatted user-facing error message with remediation advice.
func (e *Error) UserMessage() string {
	msg := fmt.Sprintf("%s: %s: %v", e.Code, e.Op, e.Cause)
	if e.Resource != "" {
		msg += fmt.Sprintf(" (resource: %s)", e.Resource)
	}
	if e.Advice != "" {
		msg += fmt.Sprintf("\n  → %s", e.Advice)
	}
	return msg
}

// New creates a new Error.
func New(code ErrorCode, op string, cause error) *Error {
	return &Error{Code: code, Op: op, Cause: cause}
}

// Newf creates a new Error with a formatted message as the cause.
func Newf(code ErrorCode, op, format string, args ...any) *Error {
	return &Error{Code: code, Op: op, Cause: fmt.Errorf(format, args...)}
}

// WithResource sets the resource identifier on an Error.
func (e *Error) WithResource(resource string) *Error {
	e.Resource = resource
	return e
}

// WithAdvice sets the human-readable remediation hint on an Error.
func (e *Error) WithAdvice(advice string) *Error {
	e.Advice = advice
	return e
}

// Wrap wraps an existing error as an Error at a new operation boundary.
func Wrap(err error, code ErrorCode, op string) *Error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Op: op, Cause: err}
}

// IsCode reports whether err is an Error with the given code.
func IsCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// As extracts the *Error from err, or returns nil.
func As(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Exit status
// ─────────────────────────────────────────────────────────────────────────────

// ExitError carries a process exit status up to the CLI entry point.
// The command that returns it has already reported whatever the user needs.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// Exit returns an error that makes the CLI exit with code.
// Exit(0) returns nil.
func Exit(code int) error {
	if code == 0 {
		return nil
	}
	return &ExitError{Code: code}
}

// ExitCode maps err to a process exit status: 0 for nil, the carried code
// for an ExitError, 1 for anything else.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return 1
}

// IsSilent reports whether err only carries an exit status and needs no
// further reporting.
func IsSilent(err error) bool {
	var ee *ExitError
	return errors.As(err, &ee)
}
