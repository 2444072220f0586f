package htmltopdf

import (
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-htmltopdf/internal/markup"
)

// DefaultTimeout bounds a conversion when WithTimeout is not used.
const DefaultTimeout = 10 * time.Second

// Option configures a Builder.
type Option func(*Builder)

// WithTimeout bounds each conversion. When it expires, wkhtmltopdf and its
// children are killed and Convert returns ErrTimeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("htmltopdf: WithTimeout duration must be positive")
	}
	return func(b *Builder) {
		b.timeout = d
	}
}

// WithAcceptedExitCodes replaces the set of exit codes treated as success
// (default {0}). wkhtmltopdf exits 1 when some resources failed to load but
// still writes a PDF; accept 1 to keep it.
func WithAcceptedExitCodes(codes ...int) Option {
	return func(b *Builder) {
		if len(codes) == 0 {
			return
		}
		b.acceptedCodes = slices.Clone(codes)
	}
}

// WithLogger sets the logger. The command line is logged at debug,
// the tool's stderr at info and failures at error.
func WithLogger(logger *zap.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithTempDir sets where inline pages are written (default os.TempDir()).
func WithTempDir(dir string) Option {
	return func(b *Builder) {
		b.conv.tempDir = dir
	}
}

// WithInstallPath is the option form of Builder.InstallPath.
func WithInstallPath(path string) Option {
	return func(b *Builder) {
		b.InstallPath(path)
	}
}

// withRunner replaces the process runner. Used by tests.
func withRunner(r commandRunner) Option {
	return func(b *Builder) {
		b.runner = r
	}
}

// WithMarkdownStyle sets the chroma style used to highlight code blocks in
// Markdown pages (default "github").
func WithMarkdownStyle(style string) Option {
	return func(b *Builder) {
		b.markdown = markup.NewRenderer(style)
	}
}
