// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"
)

// ExitError requests a non-zero exit without printing anything: the
// command has already written its own output.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// ExitCode returns the exit code.
func (e *ExitError) ExitCode() int {
	return e.Code
}

// exitCoder is implemented by errors that choose their exit code.
type exitCoder interface {
	ExitCode() int
}

// ExitCode returns the exit code for err: 0 for nil, the code of the
// first error in the chain that implements ExitCode, and 1 otherwise.
// The second result reports whether err should still be printed; an
// [ExitError] is silent.
func ExitCode(err error) (int, bool) {
	if err == nil {
		return 0, false
	}
	var silent *ExitError
	if errors.As(err, &silent) {
		return silent.Code, false
	}
	var coder exitCoder
	if errors.As(err, &coder) {
		return coder.ExitCode(), true
	}
	return exitInternal, true
}
