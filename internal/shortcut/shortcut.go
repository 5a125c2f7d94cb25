// Package shortcut installs a desktop entry that starts the launcher.
//
// Linux gets an XDG .desktop file under ~/.local/share/applications, macOS a
// double-clickable .command script on the Desktop and Windows a .cmd script on
// the Desktop. An existing shortcut is left alone unless Force is set.
package shortcut

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DisplayName is the label shown by the desktop environment.
const DisplayName = "Python Utilities"

// Options controls Create.
type Options struct {
	GOOS       string
	Home       string
	Executable string
	// Icon is optional and only used by .desktop entries.
	Icon  string
	Force bool
}

// Result describes what Create did.
type Result struct {
	Path    string
	Created bool
}

// PathFor returns where the shortcut lives for goos.
func PathFor(goos, home string) (string, error) {
	if home == "" {
		return "", fmt.Errorf("home directory is required")
	}
	switch goos {
	case "linux", "freebsd", "openbsd", "netbsd":
		return filepath.Join(home, ".local", "share", "applications", "utilhub.desktop"), nil
	case "darwin":
		return filepath.Join(home, "Desktop", "utilhub.command"), nil
	case "windows":
		return filepath.Join(home, "Desktop", "utilhub.cmd"), nil
	default:
		return "", fmt.Errorf("shortcuts are not supported on %s", goos)
	}
}

// Render returns the shortcut file body for goos.
func Render(goos, executable, icon string) ([]byte, error) {
	if executable == "" {
		return nil, fmt.Errorf("executable path is required")
	}
	var b strings.Builder
	switch goos {
	case "darwin":
		b.WriteString("#!/bin/sh\n")
		fmt.Fprintf(&b, "exec %s launch\n", shQuote(executable))
	case "windows":
		b.WriteString("@echo off\r\n")
		fmt.Fprintf(&b, "start \"\" \"%s\" launch\r\n", executable)
	default:
		b.WriteString("[Desktop Entry]\n")
		b.WriteString("Type=Application\n")
		fmt.Fprintf(&b, "Name=%s\n", DisplayName)
		b.WriteString("Comment=Browse and run the Python Utilities scripts\n")
		fmt.Fprintf(&b, "Exec=%s launch\n", desktopQuote(executable))
		if icon != "" {
			fmt.Fprintf(&b, "Icon=%s\n", icon)
		}
		b.WriteString("Terminal=false\n")
		b.WriteString("Categories=Utility;\n")
	}
	return []byte(b.String()), nil
}

// Create writes the shortcut. It is a no-op when the file already exists and
// Force is false.
func Create(opts Options) (*Result, error) {
	path, err := PathFor(opts.GOOS, opts.Home)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); err == nil && !opts.Force {
		return &Result{Path: path}, nil
	} else if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("check shortcut: %w", err)
	}

	body, err := Render(opts.GOOS, opts.Executable, opts.Icon)
	if err != nil {
		return nil, err
	}

	mode := os.FileMode(0o644)
	if opts.GOOS != "windows" {
		mode = 0o755
	}
	if err := writeAtomic(path, body, mode); err != nil {
		return nil, err
	}
	return &Result{Path: path, Created: true}, nil
}

// writeAtomic uses write-then-rename so a reader never sees a partial file.
func writeAtomic(path string, data []byte, mode os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create shortcut directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".utilhub-shortcut-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write shortcut: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close shortcut: %w", err)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		return fmt.Errorf("chmod shortcut: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename shortcut: %w", err)
	}
	return nil
}

func shQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// desktopQuote follows the Exec quoting rules of the desktop entry format.
func desktopQuote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "`", "\\`", `$`, `\$`)
	return `"` + r.Replace(s) + `"`
}
