// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package process runs the calculator under test as a child process.
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"mvdan.cc/sh/v3/shell"
)

// DefaultTimeout bounds a single calculator invocation
const DefaultTimeout = 10 * time.Second

// DefaultWaitDelay bounds how long output is drained once the calculator has
// exited or been killed, so a leftover grandchild holding stdout cannot stall
// the call
const DefaultWaitDelay = 250 * time.Millisecond

// DefaultExecutable returns the calculator name resolved through PATH
func DefaultExecutable() string {
	if runtime.GOOS == "windows" {
		return "calc.exe"
	}
	return "calc"
}

// Invoker runs the calculator once with the given arguments and returns its
// raw standard output
type Invoker interface {
	Invoke(ctx context.Context, args []string) (string, error)
}

// Options selects and configures an Invoker
type Options struct {
	// Executable is run directly, resolved through PATH when it has no separator
	Executable string
	// Command is a command line such as "python3 calc.py"; it wins over Executable
	Command string
	// Timeout per invocation, DefaultTimeout when zero
	Timeout time.Duration
}

// New returns a CommandInvoker when a command line is configured and an
// ExecInvoker otherwise
func New(opts Options) (Invoker, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	if strings.TrimSpace(opts.Command) != "" {
		return &CommandInvoker{Command: opts.Command, Timeout: timeout}, nil
	}

	path := opts.Executable
	if path == "" {
		path = DefaultExecutable()
	}
	return &ExecInvoker{Path: path, Timeout: timeout}, nil
}

// ExecInvoker starts the executable directly with os/exec
type ExecInvoker struct {
	Path    string
	Timeout time.Duration
	// WaitDelay is DefaultWaitDelay when zero
	WaitDelay time.Duration
}

// Invoke runs the executable and waits for it to exit
func (e *ExecInvoker) Invoke(ctx context.Context, args []string) (string, error) {
	ctx, cancel := withTimeout(ctx, e.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, e.Path, args...)
	cmd.WaitDelay = e.WaitDelay
	if cmd.WaitDelay <= 0 {
		cmd.WaitDelay = DefaultWaitDelay
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return stdout.String(), nil
	}

	invErr := &InvocationError{
		Program:  e.Path,
		Args:     args,
		ExitCode: -1,
		Stderr:   strings.TrimSpace(stderr.String()),
		Err:      err,
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		invErr.ExitCode = exitErr.ExitCode()
	}

	// A killed child reports "signal: killed"; the deadline is the real cause.
	if ctxErr := ctx.Err(); ctxErr != nil {
		invErr.Err = ctxErr
	} else if errors.Is(err, exec.ErrWaitDelay) {
		invErr.Err = fmt.Errorf("output still held open after exit: %w", err)
	}

	return stdout.String(), invErr
}

// CommandInvoker runs a command line such as "python3 calc.py" with the
// calculator arguments appended. The line is split with shell quoting rules
// and executed without a shell, so the deadline kills the calculator itself.
type CommandInvoker struct {
	Command   string
	Timeout   time.Duration
	WaitDelay time.Duration
}

// Invoke splits the command line and runs it like an ExecInvoker
func (c *CommandInvoker) Invoke(ctx context.Context, args []string) (string, error) {
	fields, err := shell.Fields(c.Command, nil)
	if err != nil {
		return "", &InvocationError{
			Program:  c.Command,
			Args:     args,
			ExitCode: -1,
			Err:      fmt.Errorf("invalid command line: %w", err),
		}
	}
	if len(fields) == 0 {
		return "", &InvocationError{
			Program:  c.Command,
			Args:     args,
			ExitCode: -1,
			Err:      errors.New("empty command line"),
		}
	}

	argv := append(fields[1:len(fields):len(fields)], args...)
	slog.DebugContext(ctx, "Executing calculator command", "cmd", fields[0], "args", argv)

	inner := &ExecInvoker{Path: fields[0], Timeout: c.Timeout, WaitDelay: c.WaitDelay}
	out, err := inner.Invoke(ctx, argv)

	var invErr *InvocationError
	if errors.As(err, &invErr) {
		invErr.Program = c.Command
		invErr.Args = args
	}
	return out, err
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
