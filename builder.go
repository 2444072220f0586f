package htmltopdf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-htmltopdf/internal/markup"
	"github.com/alnah/go-htmltopdf/internal/process"
)

// wkhtmltopdf option names.
const (
	flagPageSize             = "--page-size"
	flagOrientation          = "--orientation"
	flagMarginTop            = "--margin-top"
	flagMarginBottom         = "--margin-bottom"
	flagMarginLeft           = "--margin-left"
	flagMarginRight          = "--margin-right"
	flagTitle                = "--title"
	flagDisableJavaScript    = "--disable-javascript"
	flagNoImages             = "--no-images"
	flagDisableExternalLinks = "--disable-external-links"
	flagEnablePlugins        = "--enable-plugins"
	flagGrayscale            = "--grayscale"
	flagLowQuality           = "--lowquality"
	flagLocalFileAccess      = "--enable-local-file-access"
)

// outputFilePermissions is the mode of files written by ConvertToFile.
const outputFilePermissions = 0o644

// Builder configures and runs wkhtmltopdf conversions.
//
// Setter methods return the Builder for chaining. The first invalid value
// is recorded; later calls are ignored and Err, Convert and ConvertToFile
// return that error without starting a process.
//
// A Builder is not safe for concurrent mutation. Each Convert works on a
// snapshot with its own temp files, so a configured Builder may run
// several conversions in parallel.
type Builder struct {
	conv          conversion
	timeout       time.Duration
	acceptedCodes []int
	logger        *zap.Logger
	runner        commandRunner
	markdown      markdownRenderer
	err           error
}

// NewBuilder returns a Builder with default settings: 10s timeout, exit
// code 0 accepted, no logging, temp files in os.TempDir().
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		timeout:       DefaultTimeout,
		acceptedCodes: []int{0},
		logger:        zap.NewNop(),
		markdown:      markup.NewRenderer(markup.DefaultStyle),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Err returns the first configuration error, if any.
func (b *Builder) Err() error {
	return b.err
}

// fail records err unless an earlier error is already recorded.
func (b *Builder) fail(err error) *Builder {
	if b.err == nil {
		b.err = err
	}
	return b
}

// AutoDetect locates wkhtmltopdf on PATH and uses it as the install path.
func (b *Builder) AutoDetect(ctx context.Context) *Builder {
	if b.err != nil {
		return b
	}
	runner := &process.Runner{
		Timeout:       b.timeout,
		AcceptedCodes: lookupAcceptedCodes,
		Logger:        b.logger,
	}
	path, err := detectInstallation(ctx, runner, runtime.GOOS)
	if err != nil {
		return b.fail(err)
	}
	b.logger.Debug("wkhtmltopdf detected", zap.String("path", path))
	b.conv.installPath = path
	return b
}

// InstallPath sets the wkhtmltopdf executable to run.
func (b *Builder) InstallPath(path string) *Builder {
	if b.err != nil {
		return b
	}
	if strings.TrimSpace(path) == "" {
		return b.fail(ErrEmptyInstallPath)
	}
	b.conv.installPath = path
	return b
}

// AddURL appends a page fetched by wkhtmltopdf.
func (b *Builder) AddURL(url string) *Builder {
	if b.err != nil {
		return b
	}
	if strings.TrimSpace(url) == "" {
		return b.fail(ErrEmptyURL)
	}
	b.conv.pages = append(b.conv.pages, Page{Kind: PageURL, Source: url})
	return b
}

// AddFiles appends local HTML files in order. Empty paths are skipped.
func (b *Builder) AddFiles(paths ...string) *Builder {
	if b.err != nil {
		return b
	}
	for _, path := range paths {
		if path == "" {
			continue
		}
		b.conv.pages = append(b.conv.pages, Page{Kind: PageFile, Source: path})
	}
	return b
}

// AddHTML appends an inline HTML page. It is written to a temp file for
// the duration of each conversion.
func (b *Builder) AddHTML(html string) *Builder {
	if b.err != nil {
		return b
	}
	if strings.TrimSpace(html) == "" {
		return b.fail(ErrEmptyHTML)
	}
	b.conv.pages = append(b.conv.pages, Page{Kind: PageHTML, Source: html})
	return b
}

// AddMarkdown appends an inline Markdown page, rendered to HTML with
// GitHub Flavored Markdown and syntax highlighting.
func (b *Builder) AddMarkdown(markdown string) *Builder {
	if b.err != nil {
		return b
	}
	if strings.TrimSpace(markdown) == "" {
		return b.fail(ErrEmptyMarkdown)
	}
	b.conv.pages = append(b.conv.pages, Page{Kind: PageMarkdown, Source: markdown})
	return b
}

// AddMarkdownWithBaseDir appends an inline Markdown page whose relative
// image, link and stylesheet references point into baseDir, usually the
// directory of the file the Markdown was read from.
func (b *Builder) AddMarkdownWithBaseDir(markdown, baseDir string) *Builder {
	if b.err != nil {
		return b
	}
	if strings.TrimSpace(markdown) == "" {
		return b.fail(ErrEmptyMarkdown)
	}
	b.conv.pages = append(b.conv.pages, Page{Kind: PageMarkdown, Source: markdown, BaseDir: baseDir})
	return b
}

// PageSize sets --page-size. Empty means A4; names are case-insensitive.
func (b *Builder) PageSize(name string) *Builder {
	if b.err != nil {
		return b
	}
	size, err := ParsePageSize(name)
	if err != nil {
		return b.fail(err)
	}
	b.conv.body.Set(FlagWithValues(flagPageSize, string(size)))
	return b
}

// Orientation sets --orientation. Empty means portrait.
func (b *Builder) Orientation(name string) *Builder {
	if b.err != nil {
		return b
	}
	o, err := ParseOrientation(name)
	if err != nil {
		return b.fail(err)
	}
	b.conv.body.Set(FlagWithValues(flagOrientation, string(o)))
	return b
}

// Margins sets the four page margins in millimeters.
func (b *Builder) Margins(top, bottom, left, right float64) *Builder {
	if b.err != nil {
		return b
	}
	m := Margins{Top: top, Bottom: bottom, Left: left, Right: right}
	if err := m.Validate(); err != nil {
		return b.fail(err)
	}
	b.conv.body.Set(FlagWithValues(flagMarginTop, millimeters(m.Top)))
	b.conv.body.Set(FlagWithValues(flagMarginBottom, millimeters(m.Bottom)))
	b.conv.body.Set(FlagWithValues(flagMarginLeft, millimeters(m.Left)))
	b.conv.body.Set(FlagWithValues(flagMarginRight, millimeters(m.Right)))
	return b
}

// Title sets the PDF document title.
func (b *Builder) Title(title string) *Builder {
	if b.err != nil {
		return b
	}
	if strings.TrimSpace(title) == "" {
		return b.fail(ErrEmptyTitle)
	}
	b.conv.body.Set(FlagWithValues(flagTitle, title))
	return b
}

// DisableJavaScript stops pages from running JavaScript.
func (b *Builder) DisableJavaScript() *Builder { return b.flag(flagDisableJavaScript) }

// NoImages omits images from the output.
func (b *Builder) NoImages() *Builder { return b.flag(flagNoImages) }

// DisableExternalLinks stops links to remote pages from being made.
func (b *Builder) DisableExternalLinks() *Builder { return b.flag(flagDisableExternalLinks) }

// EnablePlugins enables installed browser plugins.
func (b *Builder) EnablePlugins() *Builder { return b.flag(flagEnablePlugins) }

// Grayscale renders the PDF in grayscale.
func (b *Builder) Grayscale() *Builder { return b.flag(flagGrayscale) }

// LowQuality produces smaller, lower quality PDFs.
func (b *Builder) LowQuality() *Builder { return b.flag(flagLowQuality) }

// AllowLocalFileAccess lets pages load local files. Recent wkhtmltopdf
// releases block file:// resources by default.
func (b *Builder) AllowLocalFileAccess() *Builder { return b.flag(flagLocalFileAccess) }

func (b *Builder) flag(name string) *Builder {
	if b.err != nil {
		return b
	}
	b.conv.body.Set(Flag(name))
	return b
}

// TOC inserts a generated table of contents before the pages.
func (b *Builder) TOC() *Builder {
	if b.err != nil {
		return b
	}
	b.conv.tocEnabled = true
	return b
}

// TOCOption adds an option to the TOC block, such as
// TOCOption("--toc-header-text", "Contents"). It does not enable the TOC.
func (b *Builder) TOCOption(name string, values ...string) *Builder {
	if b.err != nil {
		return b
	}
	if strings.TrimSpace(name) == "" {
		return b.fail(ErrEmptyOptionName)
	}
	b.conv.toc.Set(FlagWithValues(name, values...))
	return b
}

// CustomOption passes any global wkhtmltopdf option through unchanged,
// such as CustomOption("--dpi", "300").
func (b *Builder) CustomOption(name string, values ...string) *Builder {
	if b.err != nil {
		return b
	}
	if strings.TrimSpace(name) == "" {
		return b.fail(ErrEmptyOptionName)
	}
	b.conv.body.Set(FlagWithValues(name, values...))
	return b
}

// Args returns the argv Convert would run, with inline pages shown as
// placeholders instead of temp paths. Useful for logging and dry runs.
func (b *Builder) Args() ([]string, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}
	conv := b.conv.clone()
	argv := []string{conv.installPath}
	argv = conv.body.AppendArgs(argv)
	if conv.tocEnabled {
		argv = append(argv, tocKeyword)
		argv = conv.toc.AppendArgs(argv)
	}
	for _, p := range conv.pages {
		if p.Inline() {
			argv = append(argv, "<"+p.Kind.String()+">")
			continue
		}
		argv = append(argv, p.Source)
	}
	return append(argv, stdoutTarget), nil
}

func (b *Builder) validate() error {
	if b.err != nil {
		return b.err
	}
	if b.conv.installPath == "" {
		return ErrInstallationRequired
	}
	if len(b.conv.pages) == 0 {
		return ErrNoPages
	}
	return nil
}

// Convert runs wkhtmltopdf and returns the PDF it writes to stdout.
// Temp files for inline pages are removed whether or not the run succeeds.
//
// If only the cleanup fails, the PDF is returned together with an error
// matching ErrTempFile.
func (b *Builder) Convert(ctx context.Context) (pdf []byte, err error) {
	if err := b.validate(); err != nil {
		return nil, err
	}

	conv := b.conv.clone()
	cmd, err := conv.assemble(ctx, b.markdown)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cleanupErr := removeTempFiles(cmd.tempFiles); cleanupErr != nil {
			b.logger.Warn("temp file cleanup failed", zap.Error(cleanupErr))
			err = errors.Join(err, cleanupErr)
		}
	}()

	b.logger.Debug("running wkhtmltopdf",
		zap.Strings("argv", cmd.argv),
		zap.Int("pages", len(conv.pages)),
		zap.Int("temp_files", len(cmd.tempFiles)))

	res, err := b.processRunner().Run(ctx, cmd.argv)
	if err != nil {
		return nil, fmt.Errorf("converting to PDF: %w", err)
	}
	return res.Stdout, nil
}

// ConvertToFile runs Convert and writes the PDF to path with mode 0644.
func (b *Builder) ConvertToFile(ctx context.Context, path string) error {
	pdf, err := b.Convert(ctx)
	if err != nil && pdf == nil {
		return err
	}
	if writeErr := os.WriteFile(path, pdf, outputFilePermissions); writeErr != nil {
		return errors.Join(err, fmt.Errorf("%w: %s: %w", ErrWriteOutput, path, writeErr))
	}
	b.logger.Debug("PDF written", zap.String("path", path), zap.Int("bytes", len(pdf)))
	return err
}

func (b *Builder) processRunner() commandRunner {
	if b.runner != nil {
		return b.runner
	}
	return &process.Runner{
		Timeout:       b.timeout,
		AcceptedCodes: slices.Clone(b.acceptedCodes),
		Logger:        b.logger,
	}
}
