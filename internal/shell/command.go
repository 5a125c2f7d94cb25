package shell

import (
	"fmt"
	"strings"
)

// pausePrompt is shown before the script runs so the user sees which file
// is about to execute.
const pausePrompt = "Press Enter to execute "

// ComposeCommand builds the command line that changes into dir, waits for
// Enter and runs file with interpreter, quoted for shell.
func ComposeCommand(shell ShellType, dir, file, interpreter string) (string, error) {
	if dir == "" || file == "" {
		return "", fmt.Errorf("directory and file are required")
	}
	if interpreter == "" {
		return "", fmt.Errorf("interpreter is required")
	}

	switch shell {
	case ShellBash, ShellZsh, ShellSh:
		return fmt.Sprintf("cd %s && echo %s && read -r _ && %s %s",
			posixQuote(dir), posixQuote(pausePrompt+file), interpreter, posixQuote(file)), nil

	case ShellFish:
		return fmt.Sprintf("cd %s; and echo %s; and read -l reply; and %s %s",
			fishQuote(dir), fishQuote(pausePrompt+file), interpreter, fishQuote(file)), nil

	case ShellCmd:
		if strings.ContainsRune(dir, '"') || strings.ContainsRune(file, '"') {
			return "", fmt.Errorf("path contains a double quote")
		}
		return fmt.Sprintf(`cd /d "%s" && echo %s && pause && %s "%s"`,
			dir, cmdEchoEscape(pausePrompt+file), interpreter, file), nil

	case ShellPowerShell:
		return fmt.Sprintf("Set-Location -LiteralPath %s; Read-Host %s; & %s %s",
			psQuote(dir), psQuote(pausePrompt+file), interpreter, psQuote(file)), nil

	default:
		return "", &UnsupportedShellError{Shell: shell.String()}
	}
}

// invocation returns argv that runs command in shell and leaves the session
// open afterwards.
func invocation(shell ShellType, shellPath, command string) []string {
	if shellPath == "" {
		shellPath = shell.String()
	}
	switch shell {
	case ShellFish:
		return []string{shellPath, "-c", command + "; exec " + fishQuote(shellPath)}
	case ShellCmd:
		return []string{shellPath, "/K", command}
	case ShellPowerShell:
		return []string{shellPath, "-NoExit", "-Command", command}
	default:
		return []string{shellPath, "-c", command + "; exec " + posixQuote(shellPath)}
	}
}

// posixQuote single-quotes s for sh-compatible shells.
func posixQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// fishQuote single-quotes s for fish, where backslash and quote are escaped.
func fishQuote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "'", `\'`)
	return "'" + s + "'"
}

// psQuote single-quotes s for PowerShell, doubling embedded quotes.
func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// cmdEchoEscape caret-escapes cmd.exe metacharacters in echo text.
func cmdEchoEscape(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '^', '&', '|', '<', '>', '(', ')':
			b.WriteRune('^')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// appleScriptQuote renders s as an AppleScript string literal.
func appleScriptQuote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
