package provision

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"
)

// Runner executes one package-manager subprocess. Injected so provisioning
// can be tested without a real uv binary.
type Runner interface {
	// Run executes name with args in dir, bounded by timeout.
	// It returns captured stdout and stderr; a non-zero exit is an error.
	Run(ctx context.Context, dir string, timeout time.Duration, name string, args ...string) (stdout, stderr string, err error)
}

// ExecRunner implements Runner over os/exec.
type ExecRunner struct{}

// Run executes the command, capturing both output streams.
func (ExecRunner) Run(ctx context.Context, dir string, timeout time.Duration, name string, args ...string) (string, string, error) {
	if _, err := exec.LookPath(name); err != nil {
		return "", "", err
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		runErr = ctx.Err()
	}
	return stdout.String(), stderr.String(), runErr
}
