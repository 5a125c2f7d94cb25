//go:build windows

package shell

import (
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"

	"golang.org/x/sys/windows"
)

// detach gives the child its own console window.
func detach(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.CreationFlags |= windows.CREATE_NEW_CONSOLE
}

// configureWindowsCmd passes the cmd.exe command line verbatim. The default
// argument escaping would quote the composed command and break cmd's own
// parsing of && and quotes.
func configureWindowsCmd(cmd *exec.Cmd, argv []string) {
	if len(argv) != 3 || argv[1] != "/K" {
		return
	}
	base := strings.ToLower(filepath.Base(argv[0]))
	if base != "cmd.exe" && base != "cmd" {
		return
	}
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CmdLine: syscall.EscapeArg(argv[0]) + " /K " + argv[2],
	}
}
