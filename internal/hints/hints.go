// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"runtime"
	"strings"

	"github.com/alnah/go-htmltopdf/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForInstallationNotFound returns hints for a missing wkhtmltopdf binary.
func ForInstallationNotFound() string {
	hints := []string{"install wkhtmltopdf from https://wkhtmltopdf.org/downloads.html"}
	if os.Getenv("HTMLTOPDF_BINARY") == "" {
		hints = append(hints, "or set --binary / HTMLTOPDF_BINARY to its path")
	}
	return formatHints(hints)
}

// ForProcessRejected inspects the tool's stderr and suggests a fix for the
// failures users hit most often.
func ForProcessRejected(stderr string) string {
	var hints []string
	lower := strings.ToLower(stderr)

	if strings.Contains(lower, "cannot connect to x server") || strings.Contains(lower, "could not connect to display") {
		hints = append(hints, "this wkhtmltopdf build needs an X server; use the patched-qt build or run under xvfb-run")
	}
	if strings.Contains(lower, "blocked access to file") {
		hints = append(hints, "local files are blocked; use --enable-local-file-access")
	}
	if strings.Contains(lower, "contentnotfounderror") || strings.Contains(lower, "hostnotfounderror") {
		hints = append(hints, "some resources failed to load; use --accept-exit-code 1 to keep the partial PDF")
	}

	return formatHints(hints)
}

// ForHeadlessEnvironment warns when no display is available on Linux,
// where unpatched wkhtmltopdf builds refuse to start.
func ForHeadlessEnvironment() string {
	if runtime.GOOS != "linux" {
		return ""
	}
	if os.Getenv("DISPLAY") != "" && !IsInContainer() {
		return ""
	}
	return format("no display detected; only the patched-qt wkhtmltopdf build works headless (or use xvfb-run)")
}

// ForTimeout returns a hint about increasing timeout for slow operations.
func ForTimeout() string {
	return format("for large or slow pages, use --timeout flag")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-htmltopdf/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(toSlash(p), ".config/go-htmltopdf") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// toSlash normalizes separators so Windows paths match too.
func toSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
