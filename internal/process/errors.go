// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package process

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"strings"
)

// InvocationError represents a calculator process that could not be started
// or did not exit cleanly
type InvocationError struct {
	// Program is the executable path or command line that was run
	Program string
	// Args passed after the program
	Args []string
	// ExitCode of the child, -1 if it never exited normally
	ExitCode int
	// Stderr captured from the child, trimmed
	Stderr string
	// Underlying error
	Err error
}

// Error implements the error interface
func (e *InvocationError) Error() string {
	msg := fmt.Sprintf("invocation error [%s %s]", e.Program, strings.Join(e.Args, " "))

	if e.ExitCode > 0 {
		msg += fmt.Sprintf(" (exit status %d)", e.ExitCode)
	}

	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}

	if e.Stderr != "" {
		msg += fmt.Sprintf(" [stderr: %s]", e.Stderr)
	}

	return msg
}

// Unwrap returns the underlying error
func (e *InvocationError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err means the calculator executable does not exist
func IsNotFound(err error) bool {
	return errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist)
}

// IsTimeout reports whether err was caused by the per-call deadline
func IsTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}
