//go:generate mockgen -source=executor.go -destination=executor_mock.go -package=executor
package executor

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"syscall"
	"time"

	"shiki/internal/config/logger"
)

// Spec describes one command invocation
type Spec struct {
	Command string
	Args    []string
	Timeout time.Duration
	RunAs   string
	Dir     string
	Env     []string
}

// Result is the outcome of one command invocation. It is always populated,
// a timeout is reported through TimedOut rather than an absent result.
type Result struct {
	ReturnCode int
	Stdout     string
	Stderr     string
	TimedOut   bool
	Duration   time.Duration
}

// Executor runs commands with a timeout and captures their output.
// Arguments are passed as an argv vector and never shell-concatenated.
type Executor interface {
	Execute(ctx context.Context, spec Spec) (Result, error)
}

// executor implements the Executor interface
type executor struct {
	log logger.Logger
}

// NewExecutor creates a new executor instance
func NewExecutor(log logger.Logger) Executor {
	return &executor{log: log.WithComponent("EXECUTOR")}
}

// Execute runs the command described by spec. An error is returned only when
// the command could not be invoked at all; non-zero exit codes and timeouts
// are reported through the Result.
func (e *executor) Execute(ctx context.Context, spec Spec) (Result, error) {
	if spec.Timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, spec.Timeout)
		defer cancel()
	}

	name, args := spec.Command, spec.Args
	if spec.RunAs != "" {
		args = append([]string{"-n", "-u", spec.RunAs, name}, args...)
		name = "sudo"
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = spec.Dir

	if len(spec.Env) > 0 {
		cmd.Env = spec.Env
	}

	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}

		// Kill the whole group so script children do not outlive the timeout
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	result := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: elapsed,
	}

	if ctx.Err() == context.DeadlineExceeded {
		result.TimedOut = true
		result.ReturnCode = -1

		e.log.Warn().Msgf("Command '%s' timed out after %s", spec.Command, elapsed.Truncate(time.Millisecond))

		return result, nil
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ReturnCode = exitErr.ExitCode()
			return result, nil
		}

		return result, err
	}

	result.ReturnCode = 0

	e.log.Debug().Msgf("Command '%s' finished in %s (rc=0)", spec.Command, elapsed.Truncate(time.Millisecond))

	return result, nil
}
