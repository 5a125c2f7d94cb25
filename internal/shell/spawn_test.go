package shell

import (
	"errors"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ZebulonRouseFrantzich/utilhub/internal/platform"
)

type recorder struct {
	args []string
	err  error
}

func (r *recorder) start(cmd *exec.Cmd) error {
	r.args = cmd.Args
	return r.err
}

func newTestSpawner(t *testing.T, info *platform.Info, shell *DetectionResult, installed map[string]bool, env map[string]string) (*Spawner, *recorder) {
	t.Helper()
	s, err := NewSpawner(SpawnerConfig{Platform: info, Shell: shell, Interpreter: "python3"})
	if err != nil {
		t.Fatalf("NewSpawner() error = %v", err)
	}
	rec := &recorder{}
	s.start = rec.start
	s.getenv = func(k string) string { return env[k] }
	s.lookPath = func(name string) (string, error) {
		if installed[name] {
			return "/usr/bin/" + name, nil
		}
		return "", exec.ErrNotFound
	}
	return s, rec
}

var bash = &DetectionResult{Shell: ShellBash, ShellPath: "/bin/bash"}

func TestSpawner_Execute_LinuxTerminalOrder(t *testing.T) {
	ubuntu := &platform.Info{OS: "linux", Platform: "ubuntu", Family: platform.FamilyDebian}
	fedora := &platform.Info{OS: "linux", Platform: "fedora", Family: platform.FamilyFedora}

	tests := []struct {
		name      string
		info      *platform.Info
		installed map[string]bool
		env       map[string]string
		wantHead  []string
	}{
		{
			name:      "TERMINAL preferred",
			info:      ubuntu,
			installed: map[string]bool{"alacritty": true, "x-terminal-emulator": true},
			env:       map[string]string{"TERMINAL": "alacritty"},
			wantHead:  []string{"/usr/bin/alacritty", "-e", "/bin/bash", "-c"},
		},
		{
			name:      "debian alternative",
			info:      ubuntu,
			installed: map[string]bool{"x-terminal-emulator": true, "xterm": true},
			wantHead:  []string{"/usr/bin/x-terminal-emulator", "-e", "/bin/bash", "-c"},
		},
		{
			name:      "no alternative outside debian",
			info:      fedora,
			installed: map[string]bool{"x-terminal-emulator": true, "gnome-terminal": true},
			wantHead:  []string{"/usr/bin/gnome-terminal"},
		},
		{
			name:      "konsole",
			info:      fedora,
			installed: map[string]bool{"konsole": true, "xterm": true},
			wantHead:  []string{"/usr/bin/konsole", "--workdir"},
		},
		{
			name:      "xterm last",
			info:      fedora,
			installed: map[string]bool{"xterm": true},
			env:       map[string]string{"TERMINAL": "missing-term"},
			wantHead:  []string{"/usr/bin/xterm", "-e", "/bin/bash", "-c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, rec := newTestSpawner(t, tt.info, bash, tt.installed, tt.env)
			dir := t.TempDir()

			if err := s.Execute(dir, "tool.py"); err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if len(rec.args) < len(tt.wantHead) {
				t.Fatalf("args = %q", rec.args)
			}
			for i, want := range tt.wantHead {
				if rec.args[i] != want {
					t.Errorf("args[%d] = %q, want %q (args %q)", i, rec.args[i], want, rec.args)
				}
			}
			last := rec.args[len(rec.args)-1]
			if !strings.Contains(last, "python3 'tool.py'") || !strings.Contains(last, "cd '"+dir+"'") {
				t.Errorf("command = %q", last)
			}
		})
	}
}

func TestSpawner_Execute_NoTerminal(t *testing.T) {
	s, rec := newTestSpawner(t, &platform.Info{OS: "linux"}, bash, nil, nil)

	err := s.Execute(t.TempDir(), "tool.py")
	if !errors.Is(err, ErrProcessSpawn) {
		t.Fatalf("Execute() error = %v, want ErrProcessSpawn", err)
	}
	var spawnErr *SpawnError
	if !errors.As(err, &spawnErr) || spawnErr.Program != "terminal" {
		t.Errorf("error = %#v, want SpawnError for terminal", err)
	}
	if rec.args != nil {
		t.Error("nothing should have been started")
	}
}

func TestSpawner_Execute_Windows(t *testing.T) {
	s, rec := newTestSpawner(t, &platform.Info{OS: "windows"}, nil, nil, map[string]string{"ComSpec": `C:\Windows\system32\cmd.exe`})
	dir := t.TempDir()

	if err := s.Execute(dir, "tool.py"); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(rec.args) != 3 || rec.args[0] != `C:\Windows\system32\cmd.exe` || rec.args[1] != "/K" {
		t.Fatalf("args = %q", rec.args)
	}
	if !strings.HasPrefix(rec.args[2], `cd /d "`) || !strings.HasSuffix(rec.args[2], `&& pause && python3 "tool.py"`) {
		t.Errorf("command = %q", rec.args[2])
	}
}

func TestSpawner_Execute_MacOS(t *testing.T) {
	s, rec := newTestSpawner(t, &platform.Info{OS: "darwin"}, &DetectionResult{Shell: ShellZsh, ShellPath: "/bin/zsh"}, nil, nil)

	if err := s.Execute(t.TempDir(), "tool.py"); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if rec.args[0] != "osascript" || !strings.HasPrefix(rec.args[2], `tell application "Terminal" to do script "cd '`) {
		t.Errorf("args = %q", rec.args)
	}
}

func TestSpawner_Reveal(t *testing.T) {
	tests := []struct {
		os   string
		want string
	}{
		{"windows", "explorer"},
		{"darwin", "open"},
		{"linux", "xdg-open"},
	}

	for _, tt := range tests {
		t.Run(tt.os, func(t *testing.T) {
			s, rec := newTestSpawner(t, &platform.Info{OS: tt.os}, nil, nil, nil)
			dir := filepath.Join(t.TempDir(), "A")
			if err := s.Reveal(dir); err != nil {
				t.Fatalf("Reveal() error = %v", err)
			}
			if len(rec.args) != 2 || rec.args[0] != tt.want || rec.args[1] != dir {
				t.Errorf("args = %q, want [%s %s]", rec.args, tt.want, dir)
			}
		})
	}
}

func TestSpawner_StartFailure(t *testing.T) {
	s, rec := newTestSpawner(t, &platform.Info{OS: "linux"}, nil, nil, nil)
	rec.err = exec.ErrNotFound

	err := s.Reveal(t.TempDir())
	if !errors.Is(err, ErrProcessSpawn) || !errors.Is(err, exec.ErrNotFound) {
		t.Errorf("Reveal() error = %v, want ErrProcessSpawn wrapping ErrNotFound", err)
	}
}

func TestStartDetached(t *testing.T) {
	path, err := exec.LookPath("true")
	if err != nil {
		t.Skip("true not available")
	}
	if err := startDetached(exec.Command(path)); err != nil {
		t.Fatalf("startDetached() error = %v", err)
	}
	if err := startDetached(exec.Command(filepath.Join(t.TempDir(), "missing"))); err == nil {
		t.Error("expected error for missing binary")
	}
}
