// Package runner executes OS diagnostic commands with bounded timeouts.
package runner

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

var (
	// ErrUnavailable indicates the tool is missing or exited non-zero.
	ErrUnavailable = errors.New("command unavailable")
	// ErrTimeout indicates the command exceeded its deadline.
	ErrTimeout = errors.New("command timed out")
)

// Runner runs a named command and returns its captured stdout.
// Implementations must honor the timeout; a hung tool must never hang
// the caller.
type Runner interface {
	Run(ctx context.Context, timeout time.Duration, name string, args ...string) (string, error)
}

// ExecRunner runs commands through os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, timeout time.Duration, name string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("%s: %w", name, ErrTimeout)
		}
		return "", fmt.Errorf("%s: %w: %v", name, ErrUnavailable, err)
	}
	return string(out), nil
}
