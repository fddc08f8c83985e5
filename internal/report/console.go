// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package report prints verification progress for humans.
package report

import (
	"io"

	"github.com/fatih/color"

	"calc-verify/internal/calculator"
	"calc-verify/internal/verifier"
)

// Console writes one line per checked pair and one per finished operation
type Console struct {
	out  io.Writer
	pass *color.Color
	fail *color.Color
	ok   *color.Color
}

var _ verifier.Reporter = (*Console)(nil)

// NewConsole creates a Console writing to out. Colors follow fatih/color's
// terminal detection unless noColor is set.
func NewConsole(out io.Writer, noColor bool) *Console {
	c := &Console{
		out:  out,
		pass: color.New(color.FgGreen),
		fail: color.New(color.FgRed),
		ok:   color.New(color.FgGreen, color.Bold),
	}
	if noColor {
		c.pass.DisableColor()
		c.fail.DisableColor()
		c.ok.DisableColor()
	}
	return c
}

// PairPassed prints "<a> <op> <b> = <value>"
func (c *Console) PairPassed(op calculator.Operation, a, b int64, value string) {
	c.pass.Fprintf(c.out, "%d %s %d = %s\n", a, op, b, value)
}

// PairMismatch prints "<a> <op> <b>: expected[<e>] got[<g>]"
func (c *Console) PairMismatch(m verifier.Mismatch) {
	err := &verifier.MismatchError{Mismatch: m}
	c.fail.Fprintln(c.out, err.Error())
}

// OperationPassed prints "Test for <op> ok"
func (c *Console) OperationPassed(op calculator.Operation) {
	c.ok.Fprintf(c.out, "Test for %s ok\n", op)
}

// OperationFailed prints the invocation failure that aborted op
func (c *Console) OperationFailed(op calculator.Operation, err error) {
	c.fail.Fprintf(c.out, "Test for %s failed: %v\n", op, err)
}

// Summary prints the per-run totals
func (c *Console) Summary(s verifier.Summary) {
	printer := c.ok
	if !s.OK() {
		printer = c.fail
	}
	printer.Fprintf(c.out, "%d passed, %d failed\n", s.Passed(), s.Failed())
}
