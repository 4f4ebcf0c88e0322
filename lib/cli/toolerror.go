// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import "fmt"

// ErrorCategory classifies command errors so callers and scripts can
// tell bad input from a missing file from a bug without parsing the
// message.
type ErrorCategory string

const (
	// CategoryValidation indicates invalid input: an unknown flag
	// value, a malformed answer file, a config that fails Validate.
	CategoryValidation ErrorCategory = "validation"

	// CategoryNotFound indicates a referenced file does not exist.
	CategoryNotFound ErrorCategory = "not_found"

	// CategoryInternal indicates an unexpected failure: I/O errors
	// other than not-found, terminal setup failures, bugs.
	CategoryInternal ErrorCategory = "internal"
)

// Exit codes per category. Distinct codes let scripts branch on the
// failure kind.
const (
	exitInternal   = 1
	exitValidation = 2
	exitNotFound   = 3
)

// ToolError is a categorized error. It wraps the underlying error so
// errors.Is and errors.As see the full chain. Use the constructors
// rather than building one directly.
type ToolError struct {
	Category ErrorCategory
	Err      error

	// Hint is an optional remediation appended to the message after a
	// blank line.
	Hint string
}

// Error returns the message, followed by the hint when one is set.
func (e *ToolError) Error() string {
	if e.Hint == "" {
		return e.Err.Error()
	}
	return e.Err.Error() + "\n\n" + e.Hint
}

// Unwrap returns the underlying error.
func (e *ToolError) Unwrap() error { return e.Err }

// WithHint sets the remediation hint and returns the receiver for
// chaining.
func (e *ToolError) WithHint(hint string) *ToolError {
	e.Hint = hint
	return e
}

// ExitCode maps the category to the process exit code.
func (e *ToolError) ExitCode() int {
	switch e.Category {
	case CategoryValidation:
		return exitValidation
	case CategoryNotFound:
		return exitNotFound
	default:
		return exitInternal
	}
}

// Validation creates a validation error.
func Validation(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryValidation, Err: fmt.Errorf(format, args...)}
}

// NotFound creates a not-found error.
func NotFound(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryNotFound, Err: fmt.Errorf(format, args...)}
}

// Internal creates an internal error.
func Internal(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryInternal, Err: fmt.Errorf(format, args...)}
}
