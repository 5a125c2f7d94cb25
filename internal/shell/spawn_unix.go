//go:build !windows

package shell

import (
	"os/exec"
	"syscall"
)

// detach puts the child in a new session so closing the launcher does not
// take the terminal down with it.
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}

func configureWindowsCmd(*exec.Cmd, []string) {}
