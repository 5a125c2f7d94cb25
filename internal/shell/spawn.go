package shell

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/ZebulonRouseFrantzich/utilhub/internal/platform"
)

// Launcher runs and reveals files outside the current process.
type Launcher interface {
	Execute(dir, name string) error
	Reveal(dir string) error
}

// linuxTerminals are tried in order after $TERMINAL and x-terminal-emulator.
var linuxTerminals = []string{"gnome-terminal", "konsole", "xfce4-terminal", "xterm"}

// SpawnerConfig configures a Spawner.
type SpawnerConfig struct {
	Platform    *platform.Info
	Shell       *DetectionResult
	Interpreter string
	Logger      *slog.Logger
}

// Spawner implements Launcher with detached OS processes.
type Spawner struct {
	info        *platform.Info
	shell       ShellType
	shellPath   string
	interpreter string
	logger      *slog.Logger

	lookPath func(string) (string, error)
	getenv   func(string) string
	start    func(*exec.Cmd) error
}

// NewSpawner creates a spawner.
func NewSpawner(cfg SpawnerConfig) (*Spawner, error) {
	if cfg.Platform == nil {
		return nil, fmt.Errorf("platform info is required")
	}
	if cfg.Interpreter == "" {
		return nil, fmt.Errorf("interpreter is required")
	}
	s := &Spawner{
		info:        cfg.Platform,
		shell:       ShellSh,
		interpreter: cfg.Interpreter,
		logger:      cfg.Logger,
		lookPath:    exec.LookPath,
		getenv:      os.Getenv,
		start:       startDetached,
	}
	if cfg.Shell != nil && cfg.Shell.Shell.IsValid() {
		s.shell = cfg.Shell.Shell
		s.shellPath = cfg.Shell.ShellPath
	} else if cfg.Platform.IsWindows() {
		s.shell = ShellCmd
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s, nil
}

// Execute opens a new terminal that changes into dir, pauses and runs name.
func (s *Spawner) Execute(dir, name string) error {
	argv, err := s.executeArgv(dir, name)
	if err != nil {
		return err
	}
	s.logger.Info("opening script in terminal", "dir", dir, "file", name, "program", argv[0])
	return s.spawn(argv)
}

// Reveal opens the platform file manager at dir.
func (s *Spawner) Reveal(dir string) error {
	var program string
	switch {
	case s.info.IsWindows():
		program = "explorer"
	case s.info.IsMacOS():
		program = "open"
	default:
		program = "xdg-open"
	}
	s.logger.Info("revealing directory", "dir", dir, "program", program)
	return s.spawn([]string{program, dir})
}

func (s *Spawner) executeArgv(dir, name string) ([]string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, &SpawnError{Program: "terminal", Cause: err}
	}

	command, err := ComposeCommand(s.shell, abs, name, s.interpreter)
	if err != nil {
		return nil, &SpawnError{Program: s.shell.String(), Cause: err}
	}

	switch {
	case s.info.IsWindows():
		return invocation(s.shell, s.windowsShellPath(), command), nil

	case s.info.IsMacOS():
		// Terminal.app runs the command in the user's login shell
		script := fmt.Sprintf("tell application \"Terminal\" to do script %s", appleScriptQuote(command))
		return []string{"osascript", "-e", script, "-e", `tell application "Terminal" to activate`}, nil

	default:
		return s.linuxTerminalArgv(abs, invocation(s.shell, s.shellPath, command))
	}
}

func (s *Spawner) windowsShellPath() string {
	if s.shell == ShellCmd {
		if comspec := s.getenv("ComSpec"); comspec != "" {
			return comspec
		}
		return "cmd.exe"
	}
	if s.shellPath != "" {
		return s.shellPath
	}
	return "powershell.exe"
}

// linuxTerminalArgv wraps inner in the first available terminal emulator.
func (s *Spawner) linuxTerminalArgv(dir string, inner []string) ([]string, error) {
	if term := s.getenv("TERMINAL"); term != "" {
		if path, err := s.lookPath(term); err == nil {
			return append([]string{path, "-e"}, inner...), nil
		}
		s.logger.Warn("$TERMINAL not found, trying defaults", "terminal", term)
	}

	candidates := linuxTerminals
	if s.info.IsDebianFamily() {
		candidates = append([]string{"x-terminal-emulator"}, candidates...)
	}

	for _, name := range candidates {
		path, err := s.lookPath(name)
		if err != nil {
			continue
		}
		switch name {
		case "gnome-terminal":
			return append([]string{path, "--working-directory=" + dir, "--"}, inner...), nil
		case "konsole":
			return append([]string{path, "--workdir", dir, "-e"}, inner...), nil
		case "xfce4-terminal":
			return append([]string{path, "--working-directory=" + dir, "-x"}, inner...), nil
		default:
			return append([]string{path, "-e"}, inner...), nil
		}
	}

	return nil, &SpawnError{
		Program: "terminal",
		Cause:   errors.New("no terminal emulator found; set $TERMINAL"),
	}
}

func (s *Spawner) spawn(argv []string) error {
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	configureWindowsCmd(cmd, argv)

	if err := s.start(cmd); err != nil {
		return &SpawnError{Program: argv[0], Args: argv[1:], Cause: err}
	}
	return nil
}

// startDetached starts cmd in its own session or console and reaps it in the
// background.
func startDetached(cmd *exec.Cmd) error {
	detach(cmd)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}
