// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Command calc is the big-integer calculator checked by calc-verify.
//
//	calc {plus|minus|mul|div} arg1 arg2
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"calc-verify/internal/calculator"
)

const (
	exitOK = iota
	exitUsage
	exitInvalidOperation
	exitInvalidInput
)

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 4 {
		name := "calc"
		if len(args) > 0 && args[0] != "" {
			name = filepath.Base(args[0])
		}
		fmt.Fprintf(stdout, "Usage: %s {plus|minus|mul|div} arg1 arg2\n", name)
		return exitUsage
	}

	op, err := calculator.ParseOperation(args[1])
	if err != nil {
		fmt.Fprintf(stdout, "Invalid operation[%s]. Available: {plus|minus|mul|div}\n", args[1])
		return exitInvalidOperation
	}

	a, err := calculator.ParseOperand(args[2])
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitInvalidInput
	}
	b, err := calculator.ParseOperand(args[3])
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitInvalidInput
	}

	result, err := calculator.Apply(op, a, b)
	if errors.Is(err, calculator.ErrDivisionByZero) {
		fmt.Fprintln(stderr, "Division by zero")
		return exitInvalidInput
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitInvalidInput
	}

	fmt.Fprintln(stdout, result.String())
	return exitOK
}
