// Package process runs external commands with concurrently drained output
// streams, a hard deadline, and exit-code validation.
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultTimeout bounds a run when Runner.Timeout is zero.
const DefaultTimeout = 10 * time.Second

// drainWorkers is one reader for stdout and one for stderr.
const drainWorkers = 2

// Sentinel errors for process execution.
var (
	ErrEmptyCommand = errors.New("empty command")
	ErrLaunch       = errors.New("failed to launch process")
	ErrRejected     = errors.New("process exited with unaccepted status")
	ErrTimeout      = errors.New("process timed out")
)

// ExitError reports a process that ran to completion with an exit code
// outside the accepted set. It matches ErrRejected with errors.Is.
type ExitError struct {
	Code   int
	Stderr []byte
	Args   []string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("process (%s) exited with status code %d", strings.Join(e.Args, " "), e.Code)
	if stderr := strings.TrimSpace(string(e.Stderr)); stderr != "" {
		msg += ":\n" + stderr
	}
	return msg
}

// Is makes errors.Is(err, ErrRejected) true for any *ExitError.
func (e *ExitError) Is(target error) bool {
	return target == ErrRejected
}

// Result holds the captured output of a completed run.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	Duration time.Duration
}

// Runner executes commands directly (no shell). The zero value is usable:
// it accepts exit code 0 only, uses DefaultTimeout and logs nothing.
// A Runner is safe for concurrent use as long as its fields are not mutated.
type Runner struct {
	// Timeout bounds the whole run. When it expires the process group is
	// killed, the output pipes are closed and Run returns ErrTimeout, even
	// if a detached child still holds the pipes.
	Timeout time.Duration

	// AcceptedCodes lists exit codes treated as success. Empty means {0}.
	AcceptedCodes []int

	// Logger receives the command line, the tool's stderr and failures.
	Logger *zap.Logger
}

// Run starts argv[0] with argv[1:], drains stdout and stderr concurrently,
// and waits for the process to exit.
//
// Errors:
//   - ErrEmptyCommand when argv is empty
//   - ErrLaunch when the process cannot be started
//   - *ExitError (ErrRejected) when the exit code is not accepted
//   - ErrTimeout when Timeout expires; the process group is killed
//   - ctx.Err() when the parent context is canceled first
func (r *Runner) Run(ctx context.Context, argv []string) (*Result, error) {
	if len(argv) == 0 || argv[0] == "" {
		return nil, ErrEmptyCommand
	}

	logger := r.logger()
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.Command(argv[0], argv[1:]...) // #nosec G204 -- argv is assembled by the caller on purpose
	setProcessGroup(cmd)

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: stdout pipe: %v", ErrLaunch, err)
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: stderr pipe: %v", ErrLaunch, err)
	}

	logger.Debug("starting process", zap.Strings("argv", argv), zap.Duration("timeout", timeout))

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLaunch, argv[0], err)
	}

	// A child that left the process group can outlive the kill and keep
	// the pipes open, so closing them is what unblocks the readers.
	pid := cmd.Process.Pid
	stopKill := context.AfterFunc(runCtx, func() {
		KillProcessGroup(pid)
		_ = stdoutPipe.Close()
		_ = stderrPipe.Close()
	})

	// Both streams must be read while the process runs: a tool that fills
	// the stderr pipe while we block on stdout would never exit.
	var stdout, stderr bytes.Buffer
	var drains errgroup.Group
	drains.SetLimit(drainWorkers)
	drains.Go(func() error {
		_, err := io.Copy(&stdout, stdoutPipe)
		return err
	})
	drains.Go(func() error {
		_, err := io.Copy(&stderr, stderrPipe)
		return err
	})

	drainErr := drains.Wait()
	waitErr := cmd.Wait()
	stopKill()
	elapsed := time.Since(start)

	// Output read after the deadline may be truncated, so an expired
	// context wins over whatever the process reported.
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("running %s: %w", argv[0], ctxErr)
	}
	if runCtx.Err() != nil {
		logger.Error("process timed out",
			zap.Strings("argv", argv),
			zap.Duration("timeout", timeout),
			zap.ByteString("stderr", stderr.Bytes()))
		return nil, fmt.Errorf("%w after %v: %s", ErrTimeout, timeout, argv[0])
	}

	if drainErr != nil {
		return nil, fmt.Errorf("reading output of %s: %w", argv[0], drainErr)
	}

	var exitErr *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) {
		return nil, fmt.Errorf("waiting for %s: %w", argv[0], waitErr)
	}

	code := cmd.ProcessState.ExitCode()
	if !r.accepts(code) {
		logger.Error("process rejected",
			zap.Strings("argv", argv),
			zap.Int("exit_code", code),
			zap.ByteString("stderr", stderr.Bytes()))
		return nil, &ExitError{
			Code:   code,
			Stderr: stderr.Bytes(),
			Args:   slices.Clone(argv),
		}
	}

	if stderr.Len() > 0 {
		logger.Info("process output", zap.String("binary", argv[0]), zap.ByteString("stderr", stderr.Bytes()))
	}
	logger.Debug("process finished",
		zap.Int("exit_code", code),
		zap.Int("stdout_bytes", stdout.Len()),
		zap.Duration("duration", elapsed))

	return &Result{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		ExitCode: code,
		Duration: elapsed,
	}, nil
}

func (r *Runner) accepts(code int) bool {
	if len(r.AcceptedCodes) == 0 {
		return code == 0
	}
	return slices.Contains(r.AcceptedCodes, code)
}

func (r *Runner) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}
