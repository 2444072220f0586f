package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config    string
	quiet     bool
	verbose   bool
	logLevel  string
	logFormat string
}

// processFlags controls how wkhtmltopdf is located and run.
type processFlags struct {
	binary      string
	timeout     string
	acceptCodes []int
	workers     int
}

// pageFlags holds page layout flags.
type pageFlags struct {
	size         string
	orientation  string
	title        string
	marginTop    float64
	marginBottom float64
	marginLeft   float64
	marginRight  float64
}

// renderFlags holds wkhtmltopdf rendering switches.
type renderFlags struct {
	disableJavaScript    bool
	noImages             bool
	disableExternalLinks bool
	enablePlugins        bool
	grayscale            bool
	lowQuality           bool
	localFileAccess      bool
}

// tocFlags holds table of contents flags.
type tocFlags struct {
	enabled bool
	options []string // name=value
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common         commonFlags
	process        processFlags
	page           pageFlags
	render         renderFlags
	toc            tocFlags
	output         string
	batch          bool
	options        []string // name[=value]
	highlightStyle string
	dryRun         bool
	printConfig    bool

	// changed records flags set on the command line, so zero values
	// like --margin-top 0 still override the config file.
	changed map[string]bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show the wkhtmltopdf command and timing")
	fs.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
	fs.StringVar(&f.logFormat, "log-format", "", "log format: console, json")
}

// addProcessFlags adds wkhtmltopdf execution flags to a FlagSet.
func addProcessFlags(fs *flag.FlagSet, f *processFlags) {
	fs.StringVarP(&f.binary, "binary", "b", "", "wkhtmltopdf path (default: search PATH)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "conversion timeout (e.g., 30s, 2m)")
	fs.IntSliceVar(&f.acceptCodes, "accept-exit-code", nil, "exit codes treated as success (default 0)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers in batch mode (0 = auto)")
}

// addPageFlags adds page layout flags to a FlagSet.
func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVarP(&f.size, "page-size", "p", "", "page size: A4, Letter, Legal, ...")
	fs.StringVar(&f.orientation, "orientation", "", "page orientation: portrait, landscape")
	fs.StringVar(&f.title, "title", "", "PDF document title")
	fs.Float64Var(&f.marginTop, "margin-top", 0, "top margin in millimeters")
	fs.Float64Var(&f.marginBottom, "margin-bottom", 0, "bottom margin in millimeters")
	fs.Float64Var(&f.marginLeft, "margin-left", 0, "left margin in millimeters")
	fs.Float64Var(&f.marginRight, "margin-right", 0, "right margin in millimeters")
}

// addRenderFlags adds rendering switches to a FlagSet.
func addRenderFlags(fs *flag.FlagSet, f *renderFlags) {
	fs.BoolVar(&f.disableJavaScript, "disable-javascript", false, "do not run JavaScript")
	fs.BoolVar(&f.noImages, "no-images", false, "omit images")
	fs.BoolVar(&f.disableExternalLinks, "disable-external-links", false, "do not link to remote pages")
	fs.BoolVar(&f.enablePlugins, "enable-plugins", false, "enable browser plugins")
	fs.BoolVar(&f.grayscale, "grayscale", false, "render in grayscale")
	fs.BoolVar(&f.lowQuality, "lowquality", false, "smaller, lower quality output")
	fs.BoolVar(&f.localFileAccess, "enable-local-file-access", false, "allow pages to load local files")
}

// addTOCFlags adds TOC flags to a FlagSet.
func addTOCFlags(fs *flag.FlagSet, f *tocFlags) {
	fs.BoolVar(&f.enabled, "toc", false, "insert a table of contents")
	fs.StringArrayVar(&f.options, "toc-option", nil, "TOC option as name=value (repeatable)")
}

// buildConvertFlagSet registers every convert flag on a new FlagSet.
func buildConvertFlagSet(f *convertFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)

	// I/O flags
	fs.StringVarP(&f.output, "output", "o", "", "output file, directory with --batch, or - for stdout")
	fs.BoolVar(&f.batch, "batch", false, "convert each input to its own PDF")
	fs.StringArrayVar(&f.options, "option", nil, "raw wkhtmltopdf option as name[=value] (repeatable)")
	fs.StringVar(&f.highlightStyle, "highlight-style", "", "code highlighting style for Markdown inputs")
	fs.BoolVar(&f.dryRun, "dry-run", false, "print the wkhtmltopdf command instead of running it")
	fs.BoolVar(&f.printConfig, "print-config", false, "print the effective configuration as YAML and exit")

	// Flag groups
	addCommonFlags(fs, &f.common)
	addProcessFlags(fs, &f.process)
	addPageFlags(fs, &f.page)
	addRenderFlags(fs, &f.render)
	addTOCFlags(fs, &f.toc)

	return fs
}

// parseConvertFlags parses convert command flags and returns positional args.
func parseConvertFlags(args []string, usage io.Writer) (*convertFlags, []string, error) {
	f := &convertFlags{changed: make(map[string]bool)}
	fs := buildConvertFlagSet(f)
	fs.SetOutput(usage)
	fs.Usage = func() { printConvertUsage(usage) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	fs.Visit(func(fl *flag.Flag) {
		f.changed[fl.Name] = true
	})

	return f, fs.Args(), nil
}

// errHelp is returned by parse functions when -h or --help was given.
var errHelp = flag.ErrHelp
