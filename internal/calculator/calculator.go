// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package calculator holds the operation codes understood by the calculator
// executable and the in-process reference functions used as its oracle.
package calculator

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// Operation is an operation code passed as the first calculator argument
type Operation string

const (
	Plus  Operation = "plus"
	Minus Operation = "minus"
	Mul   Operation = "mul"
	Div   Operation = "div"
)

// ErrDivisionByZero is returned by the div reference when b is zero
var ErrDivisionByZero = errors.New("division by zero")

// ErrUnknownOperation is returned when an operation code is not recognised
var ErrUnknownOperation = errors.New("unknown operation")

// ReferenceFunc computes the expected result for a pair of operands
type ReferenceFunc func(a, b *big.Int) (*big.Int, error)

var references = map[Operation]ReferenceFunc{
	Plus: func(a, b *big.Int) (*big.Int, error) {
		return new(big.Int).Add(a, b), nil
	},
	Minus: func(a, b *big.Int) (*big.Int, error) {
		return new(big.Int).Sub(a, b), nil
	},
	Mul: func(a, b *big.Int) (*big.Int, error) {
		return new(big.Int).Mul(a, b), nil
	},
	// Truncates toward zero, like the bigint calculator it is checked against.
	Div: func(a, b *big.Int) (*big.Int, error) {
		if b.Sign() == 0 {
			return nil, ErrDivisionByZero
		}
		return new(big.Int).Quo(a, b), nil
	},
}

// Operations returns every supported operation in a stable order
func Operations() []Operation {
	return []Operation{Plus, Minus, Mul, Div}
}

// DefaultOperations returns the operations verified when none are configured
func DefaultOperations() []Operation {
	return []Operation{Plus, Mul, Div}
}

// ParseOperation converts a token into an Operation. The token must match
// exactly; surrounding whitespace is rejected.
func ParseOperation(s string) (Operation, error) {
	op := Operation(s)
	if _, ok := references[op]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownOperation, s)
	}
	return op, nil
}

// ParseOperations parses a configured list of tokens, trimming each one and
// rejecting duplicates
func ParseOperations(tokens []string) ([]Operation, error) {
	ops := make([]Operation, 0, len(tokens))
	seen := make(map[Operation]bool, len(tokens))
	for _, tok := range tokens {
		op, err := ParseOperation(strings.TrimSpace(tok))
		if err != nil {
			return nil, err
		}
		if seen[op] {
			return nil, fmt.Errorf("duplicate operation %q", op)
		}
		seen[op] = true
		ops = append(ops, op)
	}
	return ops, nil
}

// String implements fmt.Stringer
func (op Operation) String() string {
	return string(op)
}

// Reference returns the reference function for op
func Reference(op Operation) (ReferenceFunc, error) {
	fn, ok := references[op]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, string(op))
	}
	return fn, nil
}

// Apply evaluates op on a and b
func Apply(op Operation, a, b *big.Int) (*big.Int, error) {
	fn, err := Reference(op)
	if err != nil {
		return nil, err
	}
	return fn(a, b)
}

// ParseOperand parses a base-10 integer operand
func ParseOperand(s string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(strings.TrimSpace(s), 10)
	if !ok {
		return nil, fmt.Errorf("invalid operand %q", s)
	}
	return n, nil
}
