package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	htmltopdf "github.com/alnah/go-htmltopdf"
	"github.com/alnah/go-htmltopdf/internal/config"
	"github.com/alnah/go-htmltopdf/internal/fileutil"
	"github.com/alnah/go-htmltopdf/internal/hints"
	"github.com/alnah/go-htmltopdf/internal/logging"
	"github.com/alnah/go-htmltopdf/internal/yamlutil"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage              = errors.New("invalid usage")
	ErrNoInput            = errors.New("no input specified")
	ErrReadInput          = errors.New("failed to read input")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrStdinInBatch       = errors.New("stdin input (-) cannot be used with --batch")
	ErrBatchFailed        = errors.New("batch conversion failed")
)

// File permission constants.
const (
	dirPermissions = 0o750 // rwxr-x---: owner full, group read+execute
)

// Output defaults.
const (
	defaultOutputFile = "output.pdf"
	defaultOutputDir  = "."
	stdioName         = "-"
)

// input is one positional argument of the convert command.
type input struct {
	Source string // as typed by the user
	Kind   htmltopdf.PageKind
}

// runConvert orchestrates the conversion process.
func runConvert(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseConvertFlags(args, env.Stderr)
	if err != nil {
		if errors.Is(err, errHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if err := validateWorkers(flags.process.workers); err != nil {
		return err
	}

	envCfg := loadEnvConfig()
	warnUnknownEnvVars(env.Stderr)

	cfg, err := loadConfig(flags.common.config, envCfg)
	if err != nil {
		return err
	}
	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if flags.printConfig {
		return printConfig(cfg, env.Stdout)
	}

	logger, err := newLogger(cfg, flags.common, env.Stderr)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if len(positional) == 0 {
		return ErrNoInput
	}
	inputs := classifyInputs(positional)

	opts, err := builderOptions(cfg, flags, logger)
	if err != nil {
		return err
	}

	installPath, err := resolveInstallPath(ctx, cfg)
	if err != nil {
		if !flags.dryRun {
			return err
		}
		installPath = "wkhtmltopdf"
	}

	newBuilder := func() *htmltopdf.Builder {
		return configureBuilder(htmltopdf.NewBuilder(opts...).InstallPath(installPath), cfg)
	}

	if flags.batch {
		return runBatch(ctx, inputs, flags, cfg, newBuilder, env)
	}
	if flags.dryRun {
		return printCommand(newBuilder, inputs, env)
	}
	return runMerge(ctx, inputs, flags.output, flags.common.quiet, newBuilder, env)
}

// printConfig writes the effective configuration as YAML.
func printConfig(cfg *config.Config, w io.Writer) error {
	out, err := yamlutil.Encode(cfg)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

// printCommand writes the wkhtmltopdf command line for inputs without
// running it. Inline pages appear as <html> or <markdown>.
func printCommand(newBuilder func() *htmltopdf.Builder, inputs []input, env *Environment) error {
	b := newBuilder()
	for _, in := range inputs {
		if err := addInput(b, in, env.Stdin); err != nil {
			return err
		}
	}
	args, err := b.Args()
	if err != nil {
		return err
	}
	fmt.Fprintln(env.Stdout, shellJoin(args))
	return nil
}

// shellJoin joins args with spaces, quoting those a shell would split.
func shellJoin(args []string) string {
	quoted := make([]string, len(args))
	for i, arg := range args {
		if arg == "" || strings.ContainsAny(arg, " \t\n\"'$*?[]|&;()") {
			quoted[i] = strconv.Quote(arg)
			continue
		}
		quoted[i] = arg
	}
	return strings.Join(quoted, " ")
}

// loadConfig loads the named config, or returns an empty one.
func loadConfig(name string, envCfg *envConfig) (*config.Config, error) {
	if name == "" {
		name = envCfg.ConfigPath
	}
	if name == "" {
		return config.DefaultConfig(), nil
	}

	cfg, err := config.LoadConfig(name)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// mergeFlags applies CLI flags to cfg. CLI flags win over config and env.
func mergeFlags(f *convertFlags, cfg *config.Config) {
	if f.process.binary != "" {
		cfg.Binary = f.process.binary
	}
	if f.process.timeout != "" {
		cfg.Timeout = f.process.timeout
	}
	if len(f.process.acceptCodes) > 0 {
		cfg.AcceptedExitCodes = f.process.acceptCodes
	}
	if f.changed["workers"] {
		cfg.Workers = f.process.workers
	}

	if f.page.size != "" {
		cfg.Page.Size = f.page.size
	}
	if f.page.orientation != "" {
		cfg.Page.Orientation = f.page.orientation
	}
	if f.page.title != "" {
		cfg.Page.Title = f.page.title
	}
	mergeMargins(f, cfg)

	r := &cfg.Render
	r.DisableJavaScript = r.DisableJavaScript || f.render.disableJavaScript
	r.NoImages = r.NoImages || f.render.noImages
	r.DisableExternalLinks = r.DisableExternalLinks || f.render.disableExternalLinks
	r.EnablePlugins = r.EnablePlugins || f.render.enablePlugins
	r.Grayscale = r.Grayscale || f.render.grayscale
	r.LowQuality = r.LowQuality || f.render.lowQuality
	r.LocalFileAccess = r.LocalFileAccess || f.render.localFileAccess

	if f.toc.enabled {
		cfg.TOC.Enabled = true
	}
	cfg.TOC.Options = append(cfg.TOC.Options, parseOptionArgs(f.toc.options)...)
	cfg.Options = append(cfg.Options, parseOptionArgs(f.options)...)

	if f.common.logLevel != "" {
		cfg.Log.Level = f.common.logLevel
	}
	if f.common.logFormat != "" {
		cfg.Log.Format = f.common.logFormat
	}
}

// mergeMargins overrides only the sides given on the command line.
func mergeMargins(f *convertFlags, cfg *config.Config) {
	sides := []struct {
		flag  string
		value float64
		dst   func(m *config.MarginConfig) *float64
	}{
		{"margin-top", f.page.marginTop, func(m *config.MarginConfig) *float64 { return &m.Top }},
		{"margin-bottom", f.page.marginBottom, func(m *config.MarginConfig) *float64 { return &m.Bottom }},
		{"margin-left", f.page.marginLeft, func(m *config.MarginConfig) *float64 { return &m.Left }},
		{"margin-right", f.page.marginRight, func(m *config.MarginConfig) *float64 { return &m.Right }},
	}
	for _, side := range sides {
		if !f.changed[side.flag] {
			continue
		}
		if cfg.Page.Margins == nil {
			cfg.Page.Margins = &config.MarginConfig{}
		}
		*side.dst(cfg.Page.Margins) = side.value
	}
}

// parseOptionArgs turns "name=value" or "name" into options. A leading
// "--" is added when missing so "dpi=300" works like "--dpi=300".
func parseOptionArgs(args []string) []config.OptionConfig {
	opts := make([]config.OptionConfig, 0, len(args))
	for _, arg := range args {
		name, value, hasValue := strings.Cut(arg, "=")
		name = strings.TrimSpace(name)
		if name != "" && !strings.HasPrefix(name, "-") {
			name = "--" + name
		}
		opt := config.OptionConfig{Name: name}
		if hasValue {
			opt.Values = []string{value}
		}
		opts = append(opts, opt)
	}
	return opts
}

// newLogger builds the logger. --verbose means debug, --quiet means error.
func newLogger(cfg *config.Config, f commonFlags, stderr io.Writer) (*zap.Logger, error) {
	logCfg := logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}
	switch {
	case f.verbose:
		logCfg.Level = "debug"
	case f.quiet:
		logCfg.Level = "error"
	}

	switch strings.ToLower(logCfg.Output) {
	case "", "stderr":
		return logging.NewWithWriter(logCfg, stderr)
	default:
		return logging.New(logCfg)
	}
}

// builderOptions converts resolved configuration into library options.
func builderOptions(cfg *config.Config, f *convertFlags, logger *zap.Logger) ([]htmltopdf.Option, error) {
	opts := []htmltopdf.Option{htmltopdf.WithLogger(logger)}

	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return nil, err
	}
	if timeout > 0 {
		opts = append(opts, htmltopdf.WithTimeout(timeout))
	}
	if len(cfg.AcceptedExitCodes) > 0 {
		opts = append(opts, htmltopdf.WithAcceptedExitCodes(cfg.AcceptedExitCodes...))
	}
	if f.highlightStyle != "" {
		opts = append(opts, htmltopdf.WithMarkdownStyle(f.highlightStyle))
	}
	return opts, nil
}

// resolveInstallPath returns the configured binary or searches PATH once,
// so batch workers do not each run "which".
func resolveInstallPath(ctx context.Context, cfg *config.Config) (string, error) {
	if cfg.Binary != "" {
		return cfg.Binary, nil
	}
	path, err := htmltopdf.DetectInstallation(ctx)
	if err != nil {
		return "", fmt.Errorf("%w%s", err, hints.ForInstallationNotFound())
	}
	return path, nil
}

// configureBuilder applies page, render, TOC and raw options to b.
func configureBuilder(b *htmltopdf.Builder, cfg *config.Config) *htmltopdf.Builder {
	if cfg.Page.Size != "" {
		b.PageSize(cfg.Page.Size)
	}
	if cfg.Page.Orientation != "" {
		b.Orientation(cfg.Page.Orientation)
	}
	if m := cfg.Page.Margins; m != nil {
		b.Margins(m.Top, m.Bottom, m.Left, m.Right)
	}
	if cfg.Page.Title != "" {
		b.Title(cfg.Page.Title)
	}

	r := cfg.Render
	if r.DisableJavaScript {
		b.DisableJavaScript()
	}
	if r.NoImages {
		b.NoImages()
	}
	if r.DisableExternalLinks {
		b.DisableExternalLinks()
	}
	if r.EnablePlugins {
		b.EnablePlugins()
	}
	if r.Grayscale {
		b.Grayscale()
	}
	if r.LowQuality {
		b.LowQuality()
	}
	if r.LocalFileAccess {
		b.AllowLocalFileAccess()
	}

	if cfg.TOC.Enabled {
		b.TOC()
	}
	for _, opt := range cfg.TOC.Options {
		b.TOCOption(opt.Name, opt.Values...)
	}
	for _, opt := range cfg.Options {
		b.CustomOption(opt.Name, opt.Values...)
	}
	return b
}

// classifyInputs decides how each positional argument becomes a page.
func classifyInputs(args []string) []input {
	inputs := make([]input, 0, len(args))
	for _, arg := range args {
		in := input{Source: arg}
		switch {
		case arg == stdioName:
			in.Kind = htmltopdf.PageHTML
		case fileutil.IsURL(arg):
			in.Kind = htmltopdf.PageURL
		case fileutil.IsMarkdownPath(arg):
			in.Kind = htmltopdf.PageMarkdown
		default:
			in.Kind = htmltopdf.PageFile
		}
		inputs = append(inputs, in)
	}
	return inputs
}

// addInput adds in as a page of b, reading stdin and Markdown files.
func addInput(b *htmltopdf.Builder, in input, stdin io.Reader) error {
	switch {
	case in.Kind == htmltopdf.PageURL:
		b.AddURL(in.Source)
	case in.Source == stdioName:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return fmt.Errorf("%w: stdin: %v", ErrReadInput, err)
		}
		b.AddHTML(string(data))
	case in.Kind == htmltopdf.PageMarkdown:
		data, err := os.ReadFile(in.Source) // #nosec G304 -- user-provided input path
		if err != nil {
			return fmt.Errorf("%w: %w", ErrReadInput, err)
		}
		b.AddMarkdownWithBaseDir(string(data), filepath.Dir(in.Source))
	default:
		if !fileutil.FileExists(in.Source) {
			return fmt.Errorf("%w: %s: %w", ErrReadInput, in.Source, os.ErrNotExist)
		}
		b.AddFiles(in.Source)
	}
	return nil
}

// runMerge converts every input into a single PDF.
func runMerge(ctx context.Context, inputs []input, output string, quiet bool, newBuilder func() *htmltopdf.Builder, env *Environment) error {
	start := env.Now()
	b := newBuilder()
	for _, in := range inputs {
		if err := addInput(b, in, env.Stdin); err != nil {
			return err
		}
	}

	if output == "" {
		output = defaultOutputFile
	}

	if output == stdioName {
		// A cleanup failure still yields a PDF, as with ConvertToFile.
		pdf, err := b.Convert(ctx)
		if pdf == nil {
			return err
		}
		if _, writeErr := env.Stdout.Write(pdf); writeErr != nil {
			return errors.Join(err, fmt.Errorf("%w: stdout: %w", htmltopdf.ErrWriteOutput, writeErr))
		}
		return err
	}

	if err := os.MkdirAll(filepath.Dir(output), dirPermissions); err != nil {
		return fmt.Errorf("creating output directory: %w%s", err, hints.ForOutputDirectory())
	}
	if err := b.ConvertToFile(ctx, output); err != nil {
		return err
	}

	if !quiet {
		fmt.Fprintf(env.Stdout, "Created %s (%v)\n", output, env.Now().Sub(start).Round(time.Millisecond))
	}
	return nil
}

// validateWorkers checks the worker count is within bounds.
func validateWorkers(n int) error {
	if n < 0 || n > config.MaxWorkers {
		return fmt.Errorf("%w: %d (must be 0-%d)", ErrInvalidWorkerCount, n, config.MaxWorkers)
	}
	return nil
}
