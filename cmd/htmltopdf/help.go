package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: htmltopdf <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert    Convert URLs, HTML and Markdown files to PDF (default)")
	fmt.Fprintln(w, "  doctor     Check the wkhtmltopdf installation")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'htmltopdf help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: htmltopdf convert [flags] <input>...")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert inputs to PDF with wkhtmltopdf. Inputs are merged in order")
	fmt.Fprintln(w, "into one PDF unless --batch is given.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    URL, HTML file, Markdown file (.md), or - for HTML on stdin")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>           Output file (default output.pdf, - for stdout)")
	fmt.Fprintln(w, "                                or directory with --batch (default .)")
	fmt.Fprintln(w, "      --batch                   Convert each input to its own PDF")
	fmt.Fprintln(w, "  -w, --workers <n>             Parallel workers in batch mode (0 = auto)")
	fmt.Fprintln(w, "  -c, --config <name>           Config file name or path")
	fmt.Fprintln(w, "      --dry-run                 Print the wkhtmltopdf command without running it")
	fmt.Fprintln(w, "      --print-config            Print the effective configuration as YAML")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "wkhtmltopdf:")
	fmt.Fprintln(w, "  -b, --binary <path>           wkhtmltopdf executable (default: search PATH)")
	fmt.Fprintln(w, "  -t, --timeout <d>             Conversion timeout (default 10s)")
	fmt.Fprintln(w, "      --accept-exit-code <n>    Exit codes treated as success (repeatable)")
	fmt.Fprintln(w, "      --option <name[=value]>   Raw wkhtmltopdf option (repeatable)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Page:")
	fmt.Fprintln(w, "  -p, --page-size <s>           A4 (default), Letter, Legal, A3, ...")
	fmt.Fprintln(w, "      --orientation <s>         portrait, landscape")
	fmt.Fprintln(w, "      --title <s>               PDF document title")
	fmt.Fprintln(w, "      --margin-top <mm>         Top margin in millimeters")
	fmt.Fprintln(w, "      --margin-bottom <mm>      Bottom margin in millimeters")
	fmt.Fprintln(w, "      --margin-left <mm>        Left margin in millimeters")
	fmt.Fprintln(w, "      --margin-right <mm>       Right margin in millimeters")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "      --disable-javascript      Do not run JavaScript")
	fmt.Fprintln(w, "      --no-images               Omit images")
	fmt.Fprintln(w, "      --disable-external-links  Do not link to remote pages")
	fmt.Fprintln(w, "      --enable-plugins          Enable browser plugins")
	fmt.Fprintln(w, "      --grayscale               Render in grayscale")
	fmt.Fprintln(w, "      --lowquality              Smaller, lower quality output")
	fmt.Fprintln(w, "      --enable-local-file-access Allow pages to load local files")
	fmt.Fprintln(w, "      --highlight-style <s>     Code style for Markdown inputs (default github)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Table of Contents:")
	fmt.Fprintln(w, "      --toc                     Insert a table of contents")
	fmt.Fprintln(w, "      --toc-option <name=value> TOC option (repeatable)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet                   Only show errors")
	fmt.Fprintln(w, "  -v, --verbose                 Show the wkhtmltopdf command and timing")
	fmt.Fprintln(w, "      --log-level <s>           debug, info, warn, error")
	fmt.Fprintln(w, "      --log-format <s>          console, json")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  HTMLTOPDF_CONFIG, HTMLTOPDF_BINARY, HTMLTOPDF_TIMEOUT,")
	fmt.Fprintln(w, "  HTMLTOPDF_WORKERS, HTMLTOPDF_LOG_LEVEL")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: htmltopdf doctor [--json] [--binary <path>]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check that wkhtmltopdf is installed and can run here.")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: htmltopdf version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: htmltopdf help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
