package shell

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/shirou/gopsutil/v4/process"
)

// DetectShell detects the user's shell for goos using multiple methods
func DetectShell(ctx context.Context, goos string) *DetectionResult {
	return detectShell(ctx, goos, os.Getenv, detectFromParentProcess)
}

type parentLookup func(ctx context.Context) (ShellType, string)

func detectShell(ctx context.Context, goos string, getenv func(string) string, parent parentLookup) *DetectionResult {
	// Method 1: the login shell variable
	if goos != "windows" {
		if shell := getenv("SHELL"); shell != "" {
			if shellType := parseShellFromPath(shell); shellType.IsValid() {
				return &DetectionResult{
					Shell:      shellType,
					Method:     "$SHELL environment variable",
					ShellPath:  shell,
					Confidence: "high",
				}
			}
		}
	}

	// Method 2: the process that started us
	if shellType, shellPath := parent(ctx); shellType.IsValid() {
		return &DetectionResult{
			Shell:      shellType,
			Method:     "parent process",
			ShellPath:  shellPath,
			Confidence: "medium",
		}
	}

	// Method 3: platform default
	if goos == "windows" {
		path := getenv("ComSpec")
		if path == "" {
			path = "cmd.exe"
		}
		return &DetectionResult{
			Shell:      ShellCmd,
			Method:     "%ComSpec%",
			ShellPath:  path,
			Confidence: "low",
		}
	}

	return &DetectionResult{
		Shell:      ShellSh,
		Method:     "default",
		ShellPath:  "/bin/sh",
		Confidence: "low",
	}
}

// parseShellFromPath extracts the shell type from a shell binary path
// Examples:
//   - /bin/bash -> bash
//   - /usr/local/bin/fish -> fish
//   - C:\Windows\System32\cmd.exe -> cmd
func parseShellFromPath(shellPath string) ShellType {
	baseName := strings.ToLower(filepath.Base(strings.ReplaceAll(shellPath, `\`, "/")))
	baseName = strings.TrimSuffix(baseName, ".exe")
	baseName = strings.TrimPrefix(baseName, "-") // login shells show up as -bash

	switch baseName {
	case "bash":
		return ShellBash
	case "zsh":
		return ShellZsh
	case "fish":
		return ShellFish
	case "sh", "dash", "ash":
		return ShellSh
	case "cmd":
		return ShellCmd
	case "powershell", "pwsh":
		return ShellPowerShell
	default:
		return ShellUnknown
	}
}

// detectFromParentProcess asks gopsutil for the parent process binary.
func detectFromParentProcess(ctx context.Context) (ShellType, string) {
	p, err := process.NewProcessWithContext(ctx, int32(os.Getppid()))
	if err != nil {
		return ShellUnknown, ""
	}
	if exe, err := p.ExeWithContext(ctx); err == nil && exe != "" {
		if shellType := parseShellFromPath(exe); shellType.IsValid() {
			return shellType, exe
		}
	}
	name, err := p.NameWithContext(ctx)
	if err != nil {
		return ShellUnknown, ""
	}
	return parseShellFromPath(name), name
}
