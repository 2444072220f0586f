package htmltopdf

import (
	"errors"
	"fmt"

	"github.com/alnah/go-htmltopdf/internal/markup"
	"github.com/alnah/go-htmltopdf/internal/process"
)

// Sentinel errors for library operations.
var (
	ErrInstallationNotFound = errors.New("wkhtmltopdf installation not found")
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// Process errors. A rejected exit code is reported as *ExitError.
	ErrProcessLaunch   = process.ErrLaunch
	ErrProcessRejected = process.ErrRejected
	ErrTimeout         = process.ErrTimeout

	// I/O errors.
	ErrTempFile    = errors.New("temporary file failure")
	ErrWriteOutput = errors.New("failed to write output")

	ErrMarkdownConversion = markup.ErrConversion
)

// Configuration errors. Each matches ErrInvalidConfiguration with errors.Is.
var (
	ErrInstallationRequired = fmt.Errorf("%w: wkhtmltopdf install path not set", ErrInvalidConfiguration)
	ErrNoPages              = fmt.Errorf("%w: no pages added", ErrInvalidConfiguration)
	ErrEmptyURL             = fmt.Errorf("%w: URL cannot be empty", ErrInvalidConfiguration)
	ErrEmptyHTML            = fmt.Errorf("%w: HTML content cannot be empty", ErrInvalidConfiguration)
	ErrEmptyMarkdown        = fmt.Errorf("%w: markdown content cannot be empty", ErrInvalidConfiguration)
	ErrEmptyTitle           = fmt.Errorf("%w: title cannot be empty", ErrInvalidConfiguration)
	ErrEmptyInstallPath     = fmt.Errorf("%w: install path cannot be empty", ErrInvalidConfiguration)
	ErrEmptyOptionName      = fmt.Errorf("%w: option name cannot be empty", ErrInvalidConfiguration)
	ErrInvalidPageSize      = fmt.Errorf("%w: invalid page size", ErrInvalidConfiguration)
	ErrInvalidOrientation   = fmt.Errorf("%w: invalid orientation", ErrInvalidConfiguration)
	ErrInvalidMargin        = fmt.Errorf("%w: invalid margin", ErrInvalidConfiguration)
)

// ExitError reports a wkhtmltopdf run that ended with an exit code outside
// the accepted set. It carries the code, the tool's stderr and the argv.
type ExitError = process.ExitError
