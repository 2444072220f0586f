package process

// Notes:
// - Real subprocesses are provided by re-executing the test binary:
//   TestHelperProcess behaves like a tiny fake tool when its arguments
//   contain "--" followed by a helper mode.
// - The launch failure for pipes (StdoutPipe/StderrPipe) is not tested: it
//   only fails when the Cmd was already started.

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// helperArgv builds an argv that re-executes the test binary as a fake tool.
func helperArgv(mode string, args ...string) []string {
	argv := []string{os.Args[0], "-test.run=^TestHelperProcess$", "--", mode}
	return append(argv, args...)
}

// TestHelperProcess is not a real test. It is the fake tool started by
// helperArgv and exits before the testing framework prints anything.
func TestHelperProcess(t *testing.T) {
	args := os.Args
	for len(args) > 0 {
		if args[0] == "--" {
			args = args[1:]
			break
		}
		args = args[1:]
	}
	if len(args) == 0 {
		return
	}

	switch args[0] {
	case "pdf":
		fmt.Fprint(os.Stdout, "%PDF-1.4 fake document")
		fmt.Fprint(os.Stderr, "Loading pages (1/6)\nDone")
	case "fail":
		fmt.Fprint(os.Stderr, "Error: Failed loading page")
		os.Exit(1)
	case "exit":
		code, _ := strconv.Atoi(args[1])
		os.Exit(code)
	case "flood":
		// Far beyond any pipe buffer on both streams.
		chunk := bytes.Repeat([]byte("x"), 64*1024)
		for i := 0; i < 32; i++ {
			_, _ = os.Stderr.Write(chunk)
			_, _ = os.Stdout.Write(chunk)
		}
	case "sleep":
		time.Sleep(time.Minute)
	case "linger":
		time.Sleep(15 * time.Second)
	case "detached":
		// Leaves a child outside the process group holding both pipes.
		child := exec.Command(os.Args[0], "-test.run=^TestHelperProcess$", "--", "linger")
		child.Stdout = os.Stdout
		child.Stderr = os.Stderr
		detach(child)
		if err := child.Start(); err != nil {
			os.Exit(3)
		}
		fmt.Fprint(os.Stdout, "parent done")
	case "args":
		fmt.Fprint(os.Stdout, strings.Join(args[1:], "\n"))
	}
	os.Exit(0)
}

// ---------------------------------------------------------------------------
// TestRunner_Run - Exit codes and captured output
// ---------------------------------------------------------------------------

func TestRunner_Run(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		argv       []string
		accepted   []int
		wantStdout string
		wantCode   int
		wantErr    error
	}{
		{
			name:       "success returns stdout",
			argv:       helperArgv("pdf"),
			wantStdout: "%PDF-1.4 fake document",
		},
		{
			name:     "exit 1 rejected by default",
			argv:     helperArgv("fail"),
			wantErr:  ErrRejected,
			wantCode: 1,
		},
		{
			name:     "exit 1 accepted when listed",
			argv:     helperArgv("exit", "1"),
			accepted: []int{0, 1},
			wantCode: 1,
		},
		{
			name:     "exit 0 rejected when not listed",
			argv:     helperArgv("exit", "0"),
			accepted: []int{2},
			wantErr:  ErrRejected,
		},
		{
			name:       "arguments passed without shell",
			argv:       helperArgv("args", "a b", "$HOME", "*.html"),
			wantStdout: "a b\n$HOME\n*.html",
		},
		{
			name:    "empty argv",
			argv:    nil,
			wantErr: ErrEmptyCommand,
		},
		{
			name:    "empty binary",
			argv:    []string{""},
			wantErr: ErrEmptyCommand,
		},
		{
			name:    "missing binary fails to launch",
			argv:    []string{"/nonexistent/wkhtmltopdf-binary", "-"},
			wantErr: ErrLaunch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := &Runner{Timeout: 30 * time.Second, AcceptedCodes: tt.accepted}
			res, err := r.Run(context.Background(), tt.argv)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Run() error = %v, want %v", err, tt.wantErr)
				}
				var exitErr *ExitError
				if errors.As(err, &exitErr) && exitErr.Code != tt.wantCode {
					t.Errorf("ExitError.Code = %d, want %d", exitErr.Code, tt.wantCode)
				}
				return
			}

			if err != nil {
				t.Fatalf("Run() unexpected error: %v", err)
			}
			if tt.wantStdout != "" && string(res.Stdout) != tt.wantStdout {
				t.Errorf("Stdout = %q, want %q", res.Stdout, tt.wantStdout)
			}
			if res.ExitCode != tt.wantCode {
				t.Errorf("ExitCode = %d, want %d", res.ExitCode, tt.wantCode)
			}
		})
	}
}

func TestRunner_Run_RejectedCarriesStderrAndArgs(t *testing.T) {
	t.Parallel()

	argv := helperArgv("fail")
	r := &Runner{Timeout: 30 * time.Second}
	_, err := r.Run(context.Background(), argv)

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected *ExitError, got %T: %v", err, err)
	}
	if !strings.Contains(string(exitErr.Stderr), "Failed loading page") {
		t.Errorf("Stderr = %q, want it to contain tool message", exitErr.Stderr)
	}
	if len(exitErr.Args) != len(argv) || exitErr.Args[0] != argv[0] {
		t.Errorf("Args = %v, want %v", exitErr.Args, argv)
	}

	msg := err.Error()
	for _, want := range []string{"status code 1", "Failed loading page", argv[0]} {
		if !strings.Contains(msg, want) {
			t.Errorf("error message %q missing %q", msg, want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestRunner_Run_ConcurrentDrain - Large output on both streams
// ---------------------------------------------------------------------------

func TestRunner_Run_ConcurrentDrain(t *testing.T) {
	t.Parallel()

	r := &Runner{Timeout: 30 * time.Second}
	res, err := r.Run(context.Background(), helperArgv("flood"))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	const want = 32 * 64 * 1024
	if len(res.Stdout) != want {
		t.Errorf("len(Stdout) = %d, want %d", len(res.Stdout), want)
	}
	if len(res.Stderr) != want {
		t.Errorf("len(Stderr) = %d, want %d", len(res.Stderr), want)
	}
}

// ---------------------------------------------------------------------------
// TestRunner_Run_Timeout - Deadline kills the process
// ---------------------------------------------------------------------------

func TestRunner_Run_TimeoutKillsProcess(t *testing.T) {
	t.Parallel()

	r := &Runner{Timeout: 200 * time.Millisecond}

	start := time.Now()
	_, err := r.Run(context.Background(), helperArgv("sleep"))
	elapsed := time.Since(start)

	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("Run() error = %v, want %v", err, ErrTimeout)
	}
	if elapsed > 10*time.Second {
		t.Errorf("Run() took %v, process was not killed", elapsed)
	}
}

func TestRunner_Run_TimeoutWithDetachedChild(t *testing.T) {
	t.Parallel()

	r := &Runner{Timeout: 500 * time.Millisecond}

	start := time.Now()
	res, err := r.Run(context.Background(), helperArgv("detached"))
	elapsed := time.Since(start)

	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("Run() = (%v, %v), want %v", res, err, ErrTimeout)
	}
	if elapsed > 10*time.Second {
		t.Errorf("Run() took %v, open pipes outlived the timeout", elapsed)
	}
}

func TestRunner_Run_ParentCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(100*time.Millisecond, cancel)

	r := &Runner{Timeout: time.Minute}
	_, err := r.Run(ctx, helperArgv("sleep"))

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want %v", err, context.Canceled)
	}
	if errors.Is(err, ErrTimeout) {
		t.Error("parent cancellation reported as timeout")
	}
}

// ---------------------------------------------------------------------------
// TestRunner_Run_Logging - stderr reported on success, failures logged
// ---------------------------------------------------------------------------

func TestRunner_Run_LogsStderrOnSuccess(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	r := &Runner{Timeout: 30 * time.Second, Logger: zap.New(core)}

	if _, err := r.Run(context.Background(), helperArgv("pdf")); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	entries := logs.FilterMessage("process output").All()
	if len(entries) != 1 {
		t.Fatalf("got %d 'process output' entries, want 1", len(entries))
	}
	if got, _ := entries[0].ContextMap()["stderr"].(string); !strings.Contains(got, "Loading pages") {
		t.Errorf("logged stderr = %q, want tool progress", got)
	}
}

func TestRunner_Run_LogsRejection(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.ErrorLevel)
	r := &Runner{Timeout: 30 * time.Second, Logger: zap.New(core)}

	_, _ = r.Run(context.Background(), helperArgv("fail"))

	entries := logs.FilterMessage("process rejected").All()
	if len(entries) != 1 {
		t.Fatalf("got %d 'process rejected' entries, want 1", len(entries))
	}
	if code := entries[0].ContextMap()["exit_code"]; code != int64(1) {
		t.Errorf("exit_code = %v, want 1", code)
	}
}

func TestExitError_Is(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("converting: %w", &ExitError{Code: 3})
	if !errors.Is(err, ErrRejected) {
		t.Error("wrapped *ExitError does not match ErrRejected")
	}
	if errors.Is(err, ErrTimeout) {
		t.Error("*ExitError unexpectedly matches ErrTimeout")
	}
}
