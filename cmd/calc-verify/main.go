// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Command calc-verify runs an external calculator over every operand pair in
// a range and compares its output with the reference arithmetic.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/pflag"

	"calc-verify/internal/config"
	"calc-verify/internal/process"
	"calc-verify/internal/report"
	"calc-verify/internal/verifier"
)

const (
	exitOK = iota
	exitMismatch
	exitInvocation
	exitConfig
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	flags := pflag.NewFlagSet("calc-verify", pflag.ContinueOnError)
	flags.SetOutput(stderr)

	configPath := flags.String("config", "", "Path to a YAML config file (default ./"+config.DefaultFileName+" if present)")
	envFile := flags.String("env-file", "", "Load environment variables from this file (default ./.env if present)")
	executable := flags.String("executable", "", "Calculator executable")
	command := flags.String("command", "", "Calculator command line, e.g. \"python3 calc.py\"")
	timeout := flags.Duration("timeout", 0, "Timeout per calculator invocation")
	rangeMin := flags.Int64("min", 0, "Smallest operand")
	rangeMax := flags.Int64("max", 0, "Largest operand")
	ops := flags.StringSlice("ops", nil, "Operations to verify, in order")
	idempotence := flags.Bool("idempotence", false, "Invoke every pair twice and require identical output")
	noColor := flags.Bool("no-color", false, "Disable colored output")
	logFormat := flags.String("log-format", "", "Log format: text or json")
	logLevel := flags.String("log-level", "", "Log level: debug, info, warn or error")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "❌ %v\n", err)
		return exitConfig
	}

	var envFiles []string
	if *envFile != "" {
		envFiles = append(envFiles, *envFile)
	}
	if err := config.LoadDotEnv(envFiles...); err != nil {
		fmt.Fprintf(stderr, "❌ %v\n", err)
		return exitConfig
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "❌ %v\n", err)
		return exitConfig
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		fmt.Fprintf(stderr, "❌ %v\n", err)
		return exitConfig
	}

	// Flags win over file and environment
	if flags.Changed("executable") {
		cfg.Calculator.Executable = *executable
	}
	if flags.Changed("command") {
		cfg.Calculator.Command = *command
	}
	if flags.Changed("timeout") {
		cfg.Calculator.Timeout = *timeout
	}
	if flags.Changed("min") {
		cfg.Verify.Range.Min = *rangeMin
	}
	if flags.Changed("max") {
		cfg.Verify.Range.Max = *rangeMax
	}
	if flags.Changed("ops") {
		cfg.Verify.Operations = *ops
	}
	if flags.Changed("idempotence") {
		cfg.Verify.CheckIdempotence = *idempotence
	}
	if flags.Changed("no-color") {
		cfg.Output.NoColor = *noColor
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format = *logFormat
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = *logLevel
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "❌ invalid configuration: %v\n", err)
		return exitConfig
	}

	slog.SetDefault(newLogger(stderr, cfg.Logging))

	operations, err := cfg.ParsedOperations()
	if err != nil {
		fmt.Fprintf(stderr, "❌ %v\n", err)
		return exitConfig
	}

	invoker, err := process.New(cfg.ProcessOptions())
	if err != nil {
		fmt.Fprintf(stderr, "❌ %v\n", err)
		return exitConfig
	}

	console := report.NewConsole(stdout, cfg.Output.NoColor)
	v := verifier.New(invoker, console, verifier.Options{
		Range: verifier.Range{
			Min: cfg.Verify.Range.Min,
			Max: cfg.Verify.Range.Max,
		},
		CheckIdempotence: cfg.Verify.CheckIdempotence,
	})

	summary, err := v.RunAll(ctx, operations)
	console.Summary(summary)

	if err != nil {
		if process.IsNotFound(err) {
			fmt.Fprintf(stderr, "❌ calculator not found: %v\n", err)
		} else {
			fmt.Fprintf(stderr, "❌ calculator invocation failed: %v\n", err)
		}
		return exitInvocation
	}
	if !summary.OK() {
		return exitMismatch
	}
	return exitOK
}

// newLogger builds the slog logger; text unless json is requested
func newLogger(w io.Writer, cfg config.LoggingConfig) *slog.Logger {
	level := slog.LevelInfo
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(strings.ToLower(cfg.Level))); err != nil {
			level = slog.LevelInfo
		}
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}
