package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	htmltopdf "github.com/alnah/go-htmltopdf"
	"github.com/alnah/go-htmltopdf/internal/fileutil"
	"github.com/alnah/go-htmltopdf/internal/hints"
	"github.com/alnah/go-htmltopdf/internal/process"
)

// versionTimeout bounds "wkhtmltopdf --version".
const versionTimeout = 10 * time.Second

// Doctor statuses.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string     `json:"status"` // "ready", "warnings", "errors"
	Tool     toolInfo   `json:"wkhtmltopdf"`
	Env      envInfo    `json:"environment"`
	System   systemInfo `json:"system"`
	Warnings []string   `json:"warnings,omitempty"`
	Errors   []string   `json:"errors,omitempty"`
}

// toolInfo holds wkhtmltopdf detection results.
type toolInfo struct {
	Found     bool   `json:"found"`
	Path      string `json:"path,omitempty"`
	Source    string `json:"source,omitempty"` // "flag", "env", "PATH"
	Version   string `json:"version,omitempty"`
	PatchedQt bool   `json:"patched_qt"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	Display       string `json:"display,omitempty"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempDir      string `json:"temp_dir"`
	TempWritable bool   `json:"temp_writable"`
}

// doctorFlags holds flags for the doctor command.
type doctorFlags struct {
	json   bool
	binary string
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 4 = wkhtmltopdf unusable,
// 1 = other errors.
func runDoctorCmd(ctx context.Context, args []string, env *Environment) int {
	f := &doctorFlags{}
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	fs.BoolVar(&f.json, "json", false, "output JSON")
	fs.StringVarP(&f.binary, "binary", "b", "", "wkhtmltopdf path to check")
	fs.Usage = func() { printDoctorUsage(env.Stderr) }
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return ExitSuccess
		}
		return ExitUsage
	}

	result := runDoctor(ctx, f.binary)

	if f.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	switch {
	case result.Status != statusErrors:
		return ExitSuccess
	case !result.Tool.Found:
		return ExitTool
	default:
		return ExitGeneral
	}
}

// runDoctor performs all diagnostic checks.
func runDoctor(ctx context.Context, binary string) *doctorResult {
	result := &doctorResult{
		Status: statusReady,
		Env: envInfo{
			OS:      runtime.GOOS,
			Arch:    runtime.GOARCH,
			Display: os.Getenv("DISPLAY"),
		},
	}

	checkTool(ctx, result, binary)
	checkEnvironment(result)
	checkSystem(result)

	// Determine final status
	if len(result.Errors) > 0 {
		result.Status = statusErrors
	} else if len(result.Warnings) > 0 {
		result.Status = statusWarnings
	}

	return result
}

// checkTool locates wkhtmltopdf and asks for its version.
func checkTool(ctx context.Context, result *doctorResult, binary string) {
	path, source := binary, "flag"
	if path == "" {
		path, source = os.Getenv("HTMLTOPDF_BINARY"), "env"
	}
	if path == "" {
		detected, err := htmltopdf.DetectInstallation(ctx)
		if err != nil {
			result.Errors = append(result.Errors,
				"wkhtmltopdf not found. Install it or set --binary / HTMLTOPDF_BINARY")
			return
		}
		path, source = detected, "PATH"
	}

	result.Tool.Path = path
	result.Tool.Source = source

	runner := &process.Runner{Timeout: versionTimeout}
	res, err := runner.Run(ctx, []string{path, "--version"})
	if err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("wkhtmltopdf at %s does not run: %v", path, err))
		return
	}

	result.Tool.Found = true
	result.Tool.Version = strings.TrimSpace(string(res.Stdout))
	result.Tool.PatchedQt = strings.Contains(strings.ToLower(result.Tool.Version), "patched qt")
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult) {
	result.Env.Container, result.Env.ContainerHint = isContainer()

	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	// Unpatched builds need an X server; the patched-qt build does not.
	if result.Tool.Found && !result.Tool.PatchedQt {
		if hint := hints.ForHeadlessEnvironment(); hint != "" {
			result.Warnings = append(result.Warnings,
				"wkhtmltopdf is not the patched-qt build and no display is available"+hint)
		}
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer() (bool, string) {
	// Explicit override (highest priority)
	if os.Getenv("HTMLTOPDF_CONTAINER") == "1" {
		return true, "HTMLTOPDF_CONTAINER=1"
	}
	if hints.IsInContainer() {
		return true, "/.dockerenv"
	}
	// Podman / systemd-nspawn / general container indicator
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies inline pages can be written to the temp directory.
func checkSystem(result *doctorResult) {
	result.System.TempDir = os.TempDir()
	path, err := fileutil.WriteTempFile("", "<p>doctor</p>", "html")
	if err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", result.System.TempDir))
		return
	}
	_ = fileutil.RemoveIfExists(path)
	result.System.TempWritable = true
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "htmltopdf doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "wkhtmltopdf")
	if r.Tool.Found {
		fmt.Fprintf(w, "  [OK] Found at %s (%s)\n", r.Tool.Path, r.Tool.Source)
		if r.Tool.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Tool.Version)
		}
		if r.Tool.PatchedQt {
			fmt.Fprintln(w, "  [OK] Patched Qt: yes (runs headless)")
		} else {
			fmt.Fprintln(w, "  [OK] Patched Qt: no")
		}
	} else {
		fmt.Fprintln(w, "  [ERROR] Not usable")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintf(w, "  [OK] Temp directory: %s writable\n", r.System.TempDir)
	} else {
		fmt.Fprintf(w, "  [ERROR] Temp directory: %s not writable\n", r.System.TempDir)
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready to convert")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
