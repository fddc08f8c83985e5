// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package verifier

import (
	"fmt"
	"iter"
	"math/big"
	"time"

	"calc-verify/internal/calculator"
)

// Status is the final state of one operation's run
type Status string

const (
	StatusPassed   Status = "passed"
	StatusMismatch Status = "mismatch"
	StatusFailed   Status = "failed"
)

// Range is an inclusive operand range applied to both operands
type Range struct {
	Min int64
	Max int64
}

// DefaultRange is the range checked when none is configured
var DefaultRange = Range{Min: 1, Max: 99}

// Pairs yields every (a, b) in the range, ascending a then b
func (r Range) Pairs() iter.Seq2[int64, int64] {
	return func(yield func(int64, int64) bool) {
		if r.Min > r.Max {
			return
		}
		for a := r.Min; ; a++ {
			for b := r.Min; ; b++ {
				if !yield(a, b) {
					return
				}
				if b == r.Max {
					break
				}
			}
			if a == r.Max {
				return
			}
		}
	}
}

// Size returns the number of pairs in the range. It is exact for any
// bounds, including the full int64 range.
func (r Range) Size() *big.Int {
	if r.Min > r.Max {
		return new(big.Int)
	}
	n := new(big.Int).Sub(big.NewInt(r.Max), big.NewInt(r.Min))
	n.Add(n, big.NewInt(1))
	return n.Mul(n, n)
}

// Mismatch is a pair whose calculator output disagreed with the reference,
// or with a repeated invocation when Repeat is set
type Mismatch struct {
	Operation calculator.Operation
	A         int64
	B         int64
	Expected  string
	Actual    string
	Repeat    bool
}

// MismatchError carries a Mismatch as an error
type MismatchError struct {
	Mismatch Mismatch
}

// Error implements the error interface
func (e *MismatchError) Error() string {
	m := e.Mismatch
	if m.Repeat {
		return fmt.Sprintf("%d %s %d: unstable output, first[%s] then[%s]", m.A, m.Operation, m.B, m.Expected, m.Actual)
	}
	return fmt.Sprintf("%d %s %d: expected[%s] got[%s]", m.A, m.Operation, m.B, m.Expected, m.Actual)
}

// Outcome is the result of verifying one operation
type Outcome struct {
	Operation calculator.Operation
	Status    Status
	Matched   int
	Skipped   int
	Mismatch  *Mismatch
	Err       error
	Duration  time.Duration
}

// Error returns the mismatch or invocation failure, nil when the operation passed
func (o Outcome) Error() error {
	switch o.Status {
	case StatusMismatch:
		if o.Mismatch != nil {
			return &MismatchError{Mismatch: *o.Mismatch}
		}
	case StatusFailed:
		return o.Err
	}
	return nil
}

// Summary collects the outcomes of a run in execution order
type Summary struct {
	Outcomes []Outcome
}

// Passed returns how many operations passed
func (s Summary) Passed() int {
	n := 0
	for _, o := range s.Outcomes {
		if o.Status == StatusPassed {
			n++
		}
	}
	return n
}

// Failed returns how many operations mismatched or could not run
func (s Summary) Failed() int {
	return len(s.Outcomes) - s.Passed()
}

// OK reports whether every operation in the run passed
func (s Summary) OK() bool {
	return s.Failed() == 0
}

// Reporter receives progress as the verifier runs
type Reporter interface {
	PairPassed(op calculator.Operation, a, b int64, value string)
	PairMismatch(m Mismatch)
	OperationPassed(op calculator.Operation)
	OperationFailed(op calculator.Operation, err error)
}

// NopReporter discards everything
type NopReporter struct{}

func (NopReporter) PairPassed(calculator.Operation, int64, int64, string) {}
func (NopReporter) PairMismatch(Mismatch)                               {}
func (NopReporter) OperationPassed(calculator.Operation)                {}
func (NopReporter) OperationFailed(calculator.Operation, error)         {}
