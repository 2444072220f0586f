package main

import (
	"errors"
	"os"

	htmltopdf "github.com/alnah/go-htmltopdf"
	"github.com/alnah/go-htmltopdf/internal/config"
	"github.com/alnah/go-htmltopdf/internal/logging"
)

// Exit codes for the htmltopdf CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful conversion
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitTool    = 4 // wkhtmltopdf missing, rejected, or timed out
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Tool errors (exit 4)
	if errors.Is(err, htmltopdf.ErrInstallationNotFound) ||
		errors.Is(err, htmltopdf.ErrProcessLaunch) ||
		errors.Is(err, htmltopdf.ErrProcessRejected) ||
		errors.Is(err, htmltopdf.ErrTimeout) {
		return ExitTool
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrStdinInBatch) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, logging.ErrInvalidLevel) ||
		errors.Is(err, logging.ErrInvalidFormat) ||
		errors.Is(err, htmltopdf.ErrInvalidConfiguration) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, htmltopdf.ErrTempFile) ||
		errors.Is(err, htmltopdf.ErrWriteOutput) {
		return ExitIO
	}

	return ExitGeneral
}
