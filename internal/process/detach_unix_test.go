//go:build !windows

package process

import (
	"os/exec"
	"syscall"
)

// detach starts cmd in a new session, out of reach of KillProcessGroup.
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}
