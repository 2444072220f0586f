//go:build !windows

package main

import (
	"os"
	"syscall"
)

// shutdownSignals cancel a running conversion; the wkhtmltopdf process
// group is then killed by the runner.
var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM, syscall.SIGHUP}
