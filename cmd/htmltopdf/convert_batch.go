package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"sync"
	"time"

	htmltopdf "github.com/alnah/go-htmltopdf"
	"github.com/alnah/go-htmltopdf/internal/config"
	"github.com/alnah/go-htmltopdf/internal/hints"
)

// maxAutoWorkers caps the automatic pool size: each worker runs a
// wkhtmltopdf process with its own rendering engine.
const maxAutoWorkers = 8

// unsafeNameChars matches characters replaced when a URL becomes a file name.
var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// job is one input of a batch and where its PDF goes.
type job struct {
	Input      input
	OutputPath string
}

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	InputPath  string
	OutputPath string
	Err        error
	Duration   time.Duration
}

// runBatch converts each input to its own PDF inside the output directory.
func runBatch(ctx context.Context, inputs []input, flags *convertFlags, cfg *config.Config, newBuilder func() *htmltopdf.Builder, env *Environment) error {
	for _, in := range inputs {
		if in.Source == stdioName {
			return ErrStdinInBatch
		}
	}

	outDir := flags.output
	if outDir == "" {
		outDir = defaultOutputDir
	}
	jobs := planJobs(inputs, outDir)

	if flags.dryRun {
		for _, j := range jobs {
			b := newBuilder()
			if err := addInput(b, j.Input, env.Stdin); err != nil {
				return err
			}
			args, err := b.Args()
			if err != nil {
				return err
			}
			fmt.Fprintf(env.Stdout, "%s > %s\n", shellJoin(args), j.OutputPath)
		}
		return nil
	}

	if err := os.MkdirAll(outDir, dirPermissions); err != nil {
		return fmt.Errorf("creating output directory: %w%s", err, hints.ForOutputDirectory())
	}

	workers := resolvePoolSize(cfg.Workers)
	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Pool size: %d\n", workers)
	}

	results := convertBatch(ctx, workers, jobs, func(ctx context.Context, j job) error {
		b := newBuilder()
		if err := addInput(b, j.Input, env.Stdin); err != nil {
			return err
		}
		return b.ConvertToFile(ctx, j.OutputPath)
	})

	failed := printResultsWithWriter(results, flags.common.quiet, flags.common.verbose, env)
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d conversion(s) failed", ErrBatchFailed, failed, len(results))
	}
	return nil
}

// planJobs assigns a unique output path to every input.
func planJobs(inputs []input, outDir string) []job {
	jobs := make([]job, 0, len(inputs))
	used := make(map[string]int, len(inputs))

	for _, in := range inputs {
		base := outputBaseName(in)
		used[base]++
		if n := used[base]; n > 1 {
			base = fmt.Sprintf("%s-%d", base, n)
		}
		jobs = append(jobs, job{
			Input:      in,
			OutputPath: filepath.Join(outDir, base+".pdf"),
		})
	}
	return jobs
}

// outputBaseName derives a file name (without extension) for an input.
// Files keep their base name; URLs use host and path.
func outputBaseName(in input) string {
	if in.Kind != htmltopdf.PageURL {
		base := filepath.Base(in.Source)
		return strings.TrimSuffix(base, filepath.Ext(base))
	}

	u, err := url.Parse(in.Source)
	if err != nil || u.Host == "" {
		return "page"
	}
	name := u.Host
	if p := strings.Trim(u.Path, "/"); p != "" {
		name += "-" + strings.TrimSuffix(p, filepath.Ext(p))
	}
	name = strings.Trim(unsafeNameChars.ReplaceAllString(name, "-"), "-")
	if name == "" {
		return "page"
	}
	return name
}

// convertBatch runs convert for every job with at most workers in flight.
// Results keep the order of jobs.
func convertBatch(ctx context.Context, workers int, jobs []job, convert func(context.Context, job) error) []ConversionResult {
	if len(jobs) == 0 {
		return nil
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	results := make([]ConversionResult, len(jobs))
	var wg sync.WaitGroup
	queue := make(chan int, len(jobs))

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range queue {
				j := jobs[idx]
				results[idx] = ConversionResult{InputPath: j.Input.Source, OutputPath: j.OutputPath}
				if err := ctx.Err(); err != nil {
					results[idx].Err = err
					continue
				}
				start := time.Now()
				results[idx].Err = convert(ctx, j)
				results[idx].Duration = time.Since(start)
			}
		}()
	}

	for i := range jobs {
		queue <- i
	}
	close(queue)

	wg.Wait()
	return results
}

// resolvePoolSize determines the optimal pool size.
// Priority: explicit value > GOMAXPROCS-based calculation.
func resolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	// Auto-calculate based on GOMAXPROCS (adjusted by automaxprocs for containers)
	n := runtime.GOMAXPROCS(0) / 2
	if n < 1 {
		return 1
	}
	if n > maxAutoWorkers {
		return maxAutoWorkers
	}
	return n
}

// ResultSummary holds the count of succeeded and failed conversions.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed conversions.
func countResults(results []ConversionResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// printResultsWithWriter outputs conversion results and returns the
// number of failures.
func printResultsWithWriter(results []ConversionResult, quiet, verbose bool, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v%s\n", r.InputPath, r.Err, hintFor(r.Err))
			continue
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary.Failed
}
