// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"calc-verify/internal/calculator"
	"calc-verify/internal/process"
)

// DefaultFileName is looked up in the working directory when no path is given
const DefaultFileName = "calc-verify.yaml"

// Environment variables that override the file
const (
	EnvExecutable = "CALC_EXECUTABLE"
	EnvCommand    = "CALC_COMMAND"
	EnvTimeout    = "CALC_TIMEOUT"
	EnvRangeMin   = "CALC_RANGE_MIN"
	EnvRangeMax   = "CALC_RANGE_MAX"
	EnvLogFormat  = "LOG_FORMAT"
	EnvNoColor    = "NO_COLOR"
)

// Config represents the complete calc-verify configuration
type Config struct {
	Calculator CalculatorConfig `yaml:"calculator"`
	Verify     VerifyConfig     `yaml:"verify"`
	Logging    LoggingConfig    `yaml:"logging"`
	Output     OutputConfig     `yaml:"output"`
}

// CalculatorConfig describes how to run the calculator under test
type CalculatorConfig struct {
	Executable string        `yaml:"executable"`
	Command    string        `yaml:"command"`
	Timeout    time.Duration `yaml:"timeout"`
}

// VerifyConfig controls which pairs are checked
type VerifyConfig struct {
	Operations       []string    `yaml:"operations"`
	Range            RangeConfig `yaml:"range"`
	CheckIdempotence bool        `yaml:"check_idempotence"`
}

// RangeConfig is an inclusive operand range applied to both operands
type RangeConfig struct {
	Min int64 `yaml:"min"`
	Max int64 `yaml:"max"`
}

// LoggingConfig selects the slog handler
type LoggingConfig struct {
	Format string `yaml:"format"`
	Level  string `yaml:"level"`
}

// OutputConfig controls the console report
type OutputConfig struct {
	NoColor bool `yaml:"no_color"`
}

// Default returns the configuration used when nothing is overridden
func Default() *Config {
	ops := calculator.DefaultOperations()
	names := make([]string, len(ops))
	for i, op := range ops {
		names[i] = op.String()
	}

	return &Config{
		Calculator: CalculatorConfig{
			Executable: process.DefaultExecutable(),
			Timeout:    process.DefaultTimeout,
		},
		Verify: VerifyConfig{
			Operations: names,
			Range:      RangeConfig{Min: 1, Max: 99},
		},
		Logging: LoggingConfig{
			Format: "text",
			Level:  "info",
		},
	}
}

// Load reads the configuration file at path on top of the defaults. An empty
// path falls back to DefaultFileName in the working directory, and to the
// defaults alone when that file does not exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		path = filepath.Join(cwd, DefaultFileName)
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// LoadDotEnv loads .env style files into the process environment without
// overriding variables that are already set. With no files it reads ./.env
// if present.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		if _, err := os.Stat(".env"); errors.Is(err, fs.ErrNotExist) {
			return nil
		}
	}
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// ApplyEnv overrides fields from environment variables looked up with lookup
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvExecutable); ok && v != "" {
		c.Calculator.Executable = v
	}
	if v, ok := lookup(EnvCommand); ok && v != "" {
		c.Calculator.Command = v
	}
	if v, ok := lookup(EnvTimeout); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvTimeout, err)
		}
		c.Calculator.Timeout = d
	}
	if v, ok := lookup(EnvRangeMin); ok && v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvRangeMin, err)
		}
		c.Verify.Range.Min = n
	}
	if v, ok := lookup(EnvRangeMax); ok && v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvRangeMax, err)
		}
		c.Verify.Range.Max = n
	}
	if v, ok := lookup(EnvLogFormat); ok && v != "" {
		c.Logging.Format = v
	}
	if v, ok := lookup(EnvNoColor); ok && v != "" {
		c.Output.NoColor = true
	}
	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Calculator.Executable == "" && strings.TrimSpace(c.Calculator.Command) == "" {
		return fmt.Errorf("calculator executable or command is required")
	}

	if c.Calculator.Timeout < 0 {
		return fmt.Errorf("calculator timeout must not be negative")
	}

	if c.Verify.Range.Min > c.Verify.Range.Max {
		return fmt.Errorf("range min %d is greater than max %d", c.Verify.Range.Min, c.Verify.Range.Max)
	}

	if len(c.Verify.Operations) == 0 {
		return fmt.Errorf("at least one operation is required")
	}

	if _, err := c.ParsedOperations(); err != nil {
		return err
	}

	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Logging.Format)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Logging.Level)
	}

	return nil
}

// ParsedOperations returns the configured operations in order
func (c *Config) ParsedOperations() ([]calculator.Operation, error) {
	return calculator.ParseOperations(c.Verify.Operations)
}

// ProcessOptions maps the calculator section onto invoker options
func (c *Config) ProcessOptions() process.Options {
	return process.Options{
		Executable: c.Calculator.Executable,
		Command:    c.Calculator.Command,
		Timeout:    c.Calculator.Timeout,
	}
}
