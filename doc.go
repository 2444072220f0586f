// Package htmltopdf converts HTML to PDF by running the wkhtmltopdf
// executable.
//
// # Quick Start
//
// Configure a Builder, add pages, and convert:
//
//	pdf, err := htmltopdf.NewBuilder().
//	    AutoDetect(ctx).
//	    PageSize("A4").
//	    Title("Report").
//	    AddURL("https://example.com").
//	    AddHTML("<h1>Appendix</h1>").
//	    Convert(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("report.pdf", pdf, 0644)
//
// Setter methods record the first invalid value; Convert returns it without
// starting a process, so a chain only needs one error check.
//
// # Pages
//
// Pages appear in the PDF in the order they were added:
//
//   - AddURL: fetched by wkhtmltopdf itself
//   - AddFiles: local paths passed through unchanged
//   - AddHTML: inline HTML written to a temporary .html file
//   - AddMarkdown: inline Markdown rendered to HTML (GFM, highlighted code)
//
// Temporary files get unique names and are removed after each conversion,
// whether it succeeds or fails.
//
// # Command Line
//
// The assembled command is:
//
//	wkhtmltopdf [global options] [toc [toc options]] page... -
//
// The trailing "-" makes wkhtmltopdf write the PDF to stdout, which Convert
// returns. Options not covered by a method can be passed with CustomOption
// and TOCOption.
//
// # Process Handling
//
// wkhtmltopdf runs without a shell, in its own process group. Its stdout and
// stderr are drained concurrently. The timeout (WithTimeout, default 10s)
// bounds the whole run: when it expires the process group is killed and
// Convert returns ErrTimeout. An exit code outside the accepted set
// (WithAcceptedExitCodes, default 0) returns an *ExitError holding the code
// and the tool's stderr.
//
// # Errors
//
// All errors can be matched with errors.Is:
//
//   - ErrInvalidConfiguration: any invalid builder input (ErrNoPages, ErrEmptyURL, ...)
//   - ErrInstallationNotFound: AutoDetect found no wkhtmltopdf
//   - ErrProcessLaunch: the executable could not be started
//   - ErrProcessRejected: unaccepted exit code (use errors.As with *ExitError)
//   - ErrTimeout: the conversion ran out of time
//   - ErrTempFile: a temporary file could not be written or removed
//   - ErrWriteOutput: ConvertToFile could not write the PDF
package htmltopdf
