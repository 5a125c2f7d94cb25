package shell

import (
	"errors"
	"fmt"
	"strings"
)

// ShellType represents a supported shell
type ShellType string

const (
	// ShellBash represents the Bash shell
	ShellBash ShellType = "bash"
	// ShellZsh represents the Z shell
	ShellZsh ShellType = "zsh"
	// ShellFish represents the Fish shell
	ShellFish ShellType = "fish"
	// ShellSh represents a POSIX sh
	ShellSh ShellType = "sh"
	// ShellCmd represents the Windows command processor
	ShellCmd ShellType = "cmd"
	// ShellPowerShell represents Windows PowerShell or pwsh
	ShellPowerShell ShellType = "powershell"
	// ShellUnknown represents an unknown or unsupported shell
	ShellUnknown ShellType = "unknown"
)

// String returns the string representation of the shell type
func (s ShellType) String() string {
	return string(s)
}

// IsValid returns true if the shell type is supported
func (s ShellType) IsValid() bool {
	switch s {
	case ShellBash, ShellZsh, ShellFish, ShellSh, ShellCmd, ShellPowerShell:
		return true
	default:
		return false
	}
}

// IsPOSIX reports whether the shell accepts POSIX sh syntax.
func (s ShellType) IsPOSIX() bool {
	return s == ShellBash || s == ShellZsh || s == ShellSh
}

// DetectionResult contains the result of shell detection
type DetectionResult struct {
	// Shell is the detected shell type
	Shell ShellType
	// Method describes how the shell was detected
	Method string
	// ShellPath is the filesystem path to the shell binary
	ShellPath string
	// Confidence is the confidence level (high, medium, low)
	Confidence string
}

// ErrProcessSpawn marks failures to start an external process.
var ErrProcessSpawn = errors.New("failed to start process")

// SpawnError describes a process that could not be started.
type SpawnError struct {
	Program string
	Args    []string
	Cause   error
}

func (e *SpawnError) Error() string {
	msg := fmt.Sprintf("spawn %s", e.Program)
	if len(e.Args) > 0 {
		msg += " " + strings.Join(e.Args, " ")
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap exposes both ErrProcessSpawn and the underlying cause.
func (e *SpawnError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrProcessSpawn}
	}
	return []error{ErrProcessSpawn, e.Cause}
}

// UnsupportedShellError represents an unsupported shell error
type UnsupportedShellError struct {
	Shell string
}

func (e *UnsupportedShellError) Error() string {
	return fmt.Sprintf("unsupported shell: %s (supported: bash, zsh, fish, sh, cmd, powershell)", e.Shell)
}

// ValidateShell validates that a shell type is supported
func ValidateShell(shell ShellType) error {
	if !shell.IsValid() {
		return &UnsupportedShellError{Shell: shell.String()}
	}
	return nil
}
