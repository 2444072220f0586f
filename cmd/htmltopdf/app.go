package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	htmltopdf "github.com/alnah/go-htmltopdf"
	"github.com/alnah/go-htmltopdf/internal/fileutil"
	"github.com/alnah/go-htmltopdf/internal/hints"
)

// commands lists the subcommands understood by runMain.
var commands = map[string]bool{
	"convert": true,
	"doctor":  true,
	"version": true,
	"help":    true,
}

// isCommand reports whether name is a subcommand.
func isCommand(name string) bool {
	return commands[name]
}

// looksLikeInput reports whether arg can start an implicit convert:
// a flag, stdin, a URL, or an existing file.
func looksLikeInput(arg string) bool {
	return strings.HasPrefix(arg, "-") ||
		fileutil.IsURL(arg) ||
		fileutil.FileExists(arg)
}

// runMain dispatches args (including the program name) and returns the
// process exit code.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	name, rest := args[1], args[2:]
	switch {
	case name == "version":
		fmt.Fprintf(env.Stdout, "htmltopdf %s\n", Version)
		return ExitSuccess
	case name == "help":
		return runHelp(rest, env)
	case name == "doctor":
		return runDoctorCmd(ctx, rest, env)
	case name == "convert":
		return reportError(runConvert(ctx, rest, env), env)
	case looksLikeInput(name):
		return reportError(runConvert(ctx, args[1:], env), env)
	default:
		fmt.Fprintf(env.Stderr, "unknown command: %s\n\n", name)
		printUsage(env.Stderr)
		return ExitUsage
	}
}

// reportError prints err with an actionable hint and maps it to an exit code.
func reportError(err error, env *Environment) int {
	if err == nil {
		return ExitSuccess
	}
	if errors.Is(err, errHelp) {
		return ExitSuccess
	}
	fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
	return exitCodeFor(err)
}

// hintFor returns a hint for errors whose message does not already carry one.
func hintFor(err error) string {
	if strings.Contains(err.Error(), "hint:") {
		return ""
	}

	var exitErr *htmltopdf.ExitError
	switch {
	case errors.As(err, &exitErr):
		return hints.ForProcessRejected(string(exitErr.Stderr))
	case errors.Is(err, htmltopdf.ErrTimeout):
		return hints.ForTimeout()
	case errors.Is(err, htmltopdf.ErrProcessLaunch),
		errors.Is(err, htmltopdf.ErrInstallationNotFound):
		return hints.ForInstallationNotFound()
	case errors.Is(err, htmltopdf.ErrWriteOutput):
		return hints.ForOutputDirectory()
	}
	return ""
}
