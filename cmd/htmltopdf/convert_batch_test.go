package main

// Notes:
// - convertBatch: concurrency is checked with an in-flight counter; real
//   wkhtmltopdf runs are covered by cli_unix_test.go.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	htmltopdf "github.com/alnah/go-htmltopdf"
)

// ---------------------------------------------------------------------------
// TestPlanJobs - Output path assignment
// ---------------------------------------------------------------------------

func TestPlanJobs(t *testing.T) {
	t.Parallel()

	inputs := classifyInputs([]string{
		"docs/intro.html",
		"other/intro.html",
		"notes.md",
		"https://example.com/guide/start.html",
		"intro.htm",
	})
	jobs := planJobs(inputs, "out")

	want := []string{
		filepath.Join("out", "intro.pdf"),
		filepath.Join("out", "intro-2.pdf"),
		filepath.Join("out", "notes.pdf"),
		filepath.Join("out", "example.com-guide-start.pdf"),
		filepath.Join("out", "intro-3.pdf"),
	}
	if len(jobs) != len(want) {
		t.Fatalf("got %d jobs, want %d", len(jobs), len(want))
	}
	for i, j := range jobs {
		if j.OutputPath != want[i] {
			t.Errorf("job %d (%s): OutputPath = %q, want %q", i, j.Input.Source, j.OutputPath, want[i])
		}
	}
}

func TestOutputBaseName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		source string
		kind   htmltopdf.PageKind
		want   string
	}{
		{"page.html", htmltopdf.PageFile, "page"},
		{"/abs/dir/README.md", htmltopdf.PageMarkdown, "README"},
		{"https://example.com", htmltopdf.PageURL, "example.com"},
		{"https://example.com/", htmltopdf.PageURL, "example.com"},
		{"https://example.com/docs/v1/intro.html", htmltopdf.PageURL, "example.com-docs-v1-intro"},
		{"http://localhost:8080/docs/", htmltopdf.PageURL, "localhost-8080-docs"},
		{"file:///tmp/x.html", htmltopdf.PageURL, "page"},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			t.Parallel()
			if got := outputBaseName(input{Source: tt.source, Kind: tt.kind}); got != tt.want {
				t.Errorf("outputBaseName(%q) = %q, want %q", tt.source, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestConvertBatch - Worker pool
// ---------------------------------------------------------------------------

func makeJobs(n int) []job {
	jobs := make([]job, n)
	for i := range jobs {
		name := fmt.Sprintf("page%d.html", i)
		jobs[i] = job{Input: input{Source: name, Kind: htmltopdf.PageFile}, OutputPath: name + ".pdf"}
	}
	return jobs
}

func TestConvertBatch_OrderAndErrors(t *testing.T) {
	t.Parallel()

	jobs := makeJobs(10)
	errOdd := errors.New("odd page")

	results := convertBatch(context.Background(), 3, jobs, func(_ context.Context, j job) error {
		var n int
		fmt.Sscanf(j.Input.Source, "page%d.html", &n)
		if n%2 == 1 {
			return errOdd
		}
		return nil
	})

	if len(results) != len(jobs) {
		t.Fatalf("got %d results, want %d", len(results), len(jobs))
	}
	for i, r := range results {
		if r.InputPath != jobs[i].Input.Source {
			t.Errorf("result %d InputPath = %q, want %q", i, r.InputPath, jobs[i].Input.Source)
		}
		if r.OutputPath != jobs[i].OutputPath {
			t.Errorf("result %d OutputPath = %q, want %q", i, r.OutputPath, jobs[i].OutputPath)
		}
		wantErr := i%2 == 1
		if (r.Err != nil) != wantErr {
			t.Errorf("result %d Err = %v, want error: %v", i, r.Err, wantErr)
		}
	}

	summary := countResults(results)
	if summary.Succeeded != 5 || summary.Failed != 5 {
		t.Errorf("countResults() = %+v, want 5/5", summary)
	}
}

func TestConvertBatch_LimitsConcurrency(t *testing.T) {
	t.Parallel()

	const workers = 2
	var inFlight, peak atomic.Int32

	convertBatch(context.Background(), workers, makeJobs(12), func(context.Context, job) error {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		return nil
	})

	if got := peak.Load(); got > workers {
		t.Errorf("peak concurrency = %d, want <= %d", got, workers)
	}
}

func TestConvertBatch_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int32
	results := convertBatch(ctx, 2, makeJobs(4), func(context.Context, job) error {
		calls.Add(1)
		return nil
	})

	if calls.Load() != 0 {
		t.Errorf("convert called %d times after cancellation", calls.Load())
	}
	for i, r := range results {
		if !errors.Is(r.Err, context.Canceled) {
			t.Errorf("result %d Err = %v, want %v", i, r.Err, context.Canceled)
		}
	}
}

func TestConvertBatch_Empty(t *testing.T) {
	t.Parallel()

	if results := convertBatch(context.Background(), 4, nil, nil); results != nil {
		t.Errorf("convertBatch(nil) = %v, want nil", results)
	}
}

// ---------------------------------------------------------------------------
// TestResolvePoolSize - Pool sizing
// ---------------------------------------------------------------------------

func TestResolvePoolSize(t *testing.T) {
	t.Parallel()

	if got := resolvePoolSize(5); got != 5 {
		t.Errorf("resolvePoolSize(5) = %d, want 5", got)
	}

	auto := resolvePoolSize(0)
	if auto < 1 || auto > maxAutoWorkers {
		t.Errorf("resolvePoolSize(0) = %d, want 1..%d", auto, maxAutoWorkers)
	}
	if want := min(max(runtime.GOMAXPROCS(0)/2, 1), maxAutoWorkers); auto != want {
		t.Errorf("resolvePoolSize(0) = %d, want %d", auto, want)
	}
}

// ---------------------------------------------------------------------------
// TestPrintResultsWithWriter - Batch report
// ---------------------------------------------------------------------------

func TestPrintResultsWithWriter(t *testing.T) {
	t.Parallel()

	results := []ConversionResult{
		{InputPath: "a.html", OutputPath: "out/a.pdf", Duration: 1500 * time.Millisecond},
		{InputPath: "b.html", OutputPath: "out/b.pdf", Err: fmt.Errorf("converting to PDF: %w", htmltopdf.ErrTimeout)},
	}

	tests := []struct {
		name        string
		quiet       bool
		verbose     bool
		wantStdout  []string
		avoidStdout []string
	}{
		{
			name:       "default",
			wantStdout: []string{"Created out/a.pdf", "1 succeeded, 1 failed"},
		},
		{
			name:        "verbose",
			verbose:     true,
			wantStdout:  []string{"a.html -> out/a.pdf (1.5s)"},
			avoidStdout: []string{"Created"},
		},
		{
			name:        "quiet",
			quiet:       true,
			avoidStdout: []string{"Created", "succeeded"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var stdout, stderr bytes.Buffer
			env := &Environment{Stdout: &stdout, Stderr: &stderr}

			failed := printResultsWithWriter(results, tt.quiet, tt.verbose, env)
			if failed != 1 {
				t.Errorf("failed = %d, want 1", failed)
			}
			if !strings.Contains(stderr.String(), "FAILED b.html") || !strings.Contains(stderr.String(), "hint:") {
				t.Errorf("stderr = %q, want failure line with hint", stderr.String())
			}
			for _, want := range tt.wantStdout {
				if !strings.Contains(stdout.String(), want) {
					t.Errorf("stdout = %q, want %q", stdout.String(), want)
				}
			}
			for _, avoid := range tt.avoidStdout {
				if strings.Contains(stdout.String(), avoid) {
					t.Errorf("stdout = %q, should not contain %q", stdout.String(), avoid)
				}
			}
		})
	}
}
