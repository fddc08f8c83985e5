// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRun(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{
			name:       "plus",
			args:       []string{"calc", "plus", "99", "99"},
			wantCode:   exitOK,
			wantStdout: "198\n",
		},
		{
			name:       "minus",
			args:       []string{"calc", "minus", "1", "99"},
			wantCode:   exitOK,
			wantStdout: "-98\n",
		},
		{
			name:       "mul",
			args:       []string{"calc", "mul", "99", "99"},
			wantCode:   exitOK,
			wantStdout: "9801\n",
		},
		{
			name:       "div truncates",
			args:       []string{"calc", "div", "99", "4"},
			wantCode:   exitOK,
			wantStdout: "24\n",
		},
		{
			name:       "big operands",
			args:       []string{"calc", "mul", "340282366920938463463374607431768211456", "2"},
			wantCode:   exitOK,
			wantStdout: "680564733841876926926749214863536422912\n",
		},
		{
			name:       "missing arguments",
			args:       []string{"/usr/bin/calc", "plus", "1"},
			wantCode:   exitUsage,
			wantStdout: "Usage: calc {plus|minus|mul|div} arg1 arg2\n",
		},
		{
			name:       "no arguments at all",
			args:       nil,
			wantCode:   exitUsage,
			wantStdout: "Usage: calc {plus|minus|mul|div} arg1 arg2\n",
		},
		{
			name:       "operation with surrounding whitespace",
			args:       []string{"calc", " plus", "1", "2"},
			wantCode:   exitInvalidOperation,
			wantStdout: "Invalid operation[ plus]. Available: {plus|minus|mul|div}\n",
		},
		{
			name:       "unknown operation",
			args:       []string{"calc", "pow", "2", "3"},
			wantCode:   exitInvalidOperation,
			wantStdout: "Invalid operation[pow]. Available: {plus|minus|mul|div}\n",
		},
		{
			name:       "bad operand",
			args:       []string{"calc", "plus", "one", "2"},
			wantCode:   exitInvalidInput,
			wantStderr: "invalid operand \"one\"\n",
		},
		{
			name:       "division by zero",
			args:       []string{"calc", "div", "1", "0"},
			wantCode:   exitInvalidInput,
			wantStderr: "Division by zero\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(tt.args, &stdout, &stderr)

			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantStdout, stdout.String())
			assert.Equal(t, tt.wantStderr, stderr.String())
		})
	}
}
