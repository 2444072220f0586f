package htmltopdf

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/alnah/go-htmltopdf/internal/process"
)

// binaryName is the executable looked up on PATH.
const binaryName = "wkhtmltopdf"

// lookupAcceptedCodes: which and where.exe both exit 1 when nothing matches.
var lookupAcceptedCodes = []int{0, 1}

// commandRunner runs an argv and returns its captured output.
// *process.Runner is the production implementation.
type commandRunner interface {
	Run(ctx context.Context, argv []string) (*process.Result, error)
}

// DetectInstallation locates wkhtmltopdf with "which" (or "where.exe" on
// Windows) and returns the first path it prints.
//
// Errors wrap ErrInstallationNotFound, and also the lookup failure when the
// lookup command itself could not run.
func DetectInstallation(ctx context.Context) (string, error) {
	runner := &process.Runner{AcceptedCodes: lookupAcceptedCodes}
	return detectInstallation(ctx, runner, runtime.GOOS)
}

func lookupCommand(goos string) []string {
	if goos == "windows" {
		return []string{"where.exe", binaryName}
	}
	return []string{"which", binaryName}
}

func detectInstallation(ctx context.Context, runner commandRunner, goos string) (string, error) {
	argv := lookupCommand(goos)
	res, err := runner.Run(ctx, argv)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrInstallationNotFound, argv[0], err)
	}

	// where.exe lists every match, one per line; the first wins.
	scanner := bufio.NewScanner(bytes.NewReader(res.Stdout))
	for scanner.Scan() {
		if path := strings.TrimSpace(scanner.Text()); path != "" {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %s is not on PATH", ErrInstallationNotFound, binaryName)
}
