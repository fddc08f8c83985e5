// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package verifier checks an external calculator against the reference
// functions, one operand pair at a time.
package verifier

import (
	"context"
	"errors"
	"log/slog"
	"math/big"
	"strconv"
	"strings"
	"time"

	"calc-verify/internal/calculator"
	"calc-verify/internal/process"
)

// Options configures a Verifier
type Options struct {
	Range Range
	// CheckIdempotence invokes every pair twice and requires equal output
	CheckIdempotence bool
}

// Verifier runs the calculator over every operand pair of an operation
type Verifier struct {
	invoker  process.Invoker
	reporter Reporter
	opts     Options
}

// New creates a Verifier. A nil reporter discards progress.
func New(invoker process.Invoker, reporter Reporter, opts Options) *Verifier {
	if reporter == nil {
		reporter = NopReporter{}
	}
	return &Verifier{
		invoker:  invoker,
		reporter: reporter,
		opts:     opts,
	}
}

// Verify checks op over the whole range and stops at the first mismatch or
// invocation failure
func (v *Verifier) Verify(ctx context.Context, op calculator.Operation) Outcome {
	start := time.Now()
	outcome := Outcome{Operation: op}

	finish := func(status Status) Outcome {
		outcome.Status = status
		outcome.Duration = time.Since(start)
		return outcome
	}

	ref, err := calculator.Reference(op)
	if err != nil {
		outcome.Err = err
		v.reporter.OperationFailed(op, err)
		return finish(StatusFailed)
	}

	slog.InfoContext(ctx, "Verifying operation",
		"op", op,
		"min", v.opts.Range.Min,
		"max", v.opts.Range.Max,
		"pairs", v.opts.Range.Size().String())

	for a, b := range v.opts.Range.Pairs() {
		want, err := ref(big.NewInt(a), big.NewInt(b))
		if errors.Is(err, calculator.ErrDivisionByZero) {
			slog.DebugContext(ctx, "Skipping pair with undefined reference", "op", op, "a", a, "b", b)
			outcome.Skipped++
			continue
		}
		if err != nil {
			outcome.Err = err
			v.reporter.OperationFailed(op, err)
			return finish(StatusFailed)
		}
		expected := want.String()

		actual, err := v.invoke(ctx, op, a, b)
		if err != nil {
			outcome.Err = err
			v.reporter.OperationFailed(op, err)
			return finish(StatusFailed)
		}

		if expected != actual {
			return v.mismatch(ctx, &outcome, finish, Mismatch{
				Operation: op, A: a, B: b, Expected: expected, Actual: actual,
			})
		}

		if v.opts.CheckIdempotence {
			again, err := v.invoke(ctx, op, a, b)
			if err != nil {
				outcome.Err = err
				v.reporter.OperationFailed(op, err)
				return finish(StatusFailed)
			}
			if again != actual {
				return v.mismatch(ctx, &outcome, finish, Mismatch{
					Operation: op, A: a, B: b, Expected: actual, Actual: again, Repeat: true,
				})
			}
		}

		outcome.Matched++
		v.reporter.PairPassed(op, a, b, actual)
	}

	slog.InfoContext(ctx, "Operation verified",
		"op", op,
		"matched", outcome.Matched,
		"skipped", outcome.Skipped,
		"duration", time.Since(start))
	v.reporter.OperationPassed(op)
	return finish(StatusPassed)
}

func (v *Verifier) mismatch(ctx context.Context, outcome *Outcome, finish func(Status) Outcome, m Mismatch) Outcome {
	slog.WarnContext(ctx, "Mismatch detected",
		"op", m.Operation,
		"a", m.A,
		"b", m.B,
		"expected", m.Expected,
		"actual", m.Actual,
		"repeat", m.Repeat)
	outcome.Mismatch = &m
	v.reporter.PairMismatch(m)
	return finish(StatusMismatch)
}

func (v *Verifier) invoke(ctx context.Context, op calculator.Operation, a, b int64) (string, error) {
	args := []string{op.String(), strconv.FormatInt(a, 10), strconv.FormatInt(b, 10)}
	out, err := v.invoker.Invoke(ctx, args)
	if err != nil {
		slog.ErrorContext(ctx, "Calculator invocation failed", "args", args, "error", err)
		return "", err
	}
	actual := strings.TrimSpace(out)
	slog.DebugContext(ctx, "Calculator invoked", "args", args, "output", actual)
	return actual, nil
}

// RunAll verifies each operation in order. Mismatches do not stop the run;
// the first invocation failure does and is returned alongside the outcomes
// collected so far.
func (v *Verifier) RunAll(ctx context.Context, ops []calculator.Operation) (Summary, error) {
	var summary Summary
	for _, op := range ops {
		outcome := v.Verify(ctx, op)
		summary.Outcomes = append(summary.Outcomes, outcome)
		if outcome.Status == StatusFailed {
			return summary, outcome.Err
		}
	}
	return summary, nil
}
