// Package toolchain runs build-tool commands with a bounded timeout and
// captures their combined output.
//
// It shells out to cargo (or any compatible command-line tool), layering a
// per-invocation timeout onto the caller's context. A non-zero exit code
// is reported in the Result rather than as an error; the error return is
// reserved for invocation failures such as a missing binary.
package toolchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

const (
	// DefaultBinary is the build tool invoked for each command.
	DefaultBinary = "cargo"

	// DefaultTimeout bounds a single tool invocation.
	DefaultTimeout = 300 * time.Second
)

// Result captures the outcome of a single tool invocation.
type Result struct {
	// Output holds the combined stdout and stderr text.
	Output string

	// ExitCode is the process exit code. Zero means success.
	ExitCode int

	// TimedOut reports whether the invocation hit its timeout.
	TimedOut bool

	// Duration is the wall-clock time the invocation took.
	Duration time.Duration
}

// OK reports whether the invocation completed with a zero exit code.
func (r Result) OK() bool {
	return !r.TimedOut && r.ExitCode == 0
}

// Runner executes tool commands. Implementations must treat a non-zero
// exit code as an ordinary Result; the error return is for failing to
// invoke the tool at all.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) (Result, error)
}

// Cargo is a Runner that invokes the cargo binary.
type Cargo struct {
	binary  string
	timeout time.Duration
}

// Option is a functional option for configuring a Cargo runner.
type Option func(*Cargo) error

// WithBinary overrides the tool binary name or path.
func WithBinary(name string) Option {
	return func(c *Cargo) error {
		if name == "" {
			return fmt.Errorf("binary must not be empty")
		}
		c.binary = name
		return nil
	}
}

// WithTimeout sets the per-invocation timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Cargo) error {
		if d <= 0 {
			return fmt.Errorf("timeout must be positive, got %v", d)
		}
		c.timeout = d
		return nil
	}
}

// New creates a Cargo runner with the given options.
func New(opts ...Option) (*Cargo, error) {
	c := &Cargo{
		binary:  DefaultBinary,
		timeout: DefaultTimeout,
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("toolchain: %w", err)
		}
	}

	return c, nil
}

// Run executes the tool with the given arguments in dir. The invocation is
// bounded by the configured timeout; on expiry the Result reports TimedOut
// and the process is killed. An empty dir runs in the current directory.
func (c *Cargo) Run(ctx context.Context, dir string, args ...string) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()

	cmd := exec.CommandContext(ctx, c.binary, args...)
	cmd.Dir = dir

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	res := Result{
		Output:   out.String(),
		Duration: time.Since(start),
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		res.TimedOut = true
		return res, nil
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
	default:
		return res, fmt.Errorf("run %s %v: %w", c.binary, args, err)
	}

	return res, nil
}

// Truncate shortens s to at most n bytes for log excerpts, appending an
// ellipsis marker when text was dropped. The full text should always be
// kept wherever the result is recorded.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
