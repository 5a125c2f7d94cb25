// Package testutil provides utilities for testing utilhub in isolation.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// Env holds the isolated directories created by SetupTestEnv.
type Env struct {
	Home        string
	DownloadDir string
	ExtractRoot string
}

// SetupTestEnv creates isolated test directories for each test and points
// HOME and the UTILHUB_* variables at them, so tests never touch the user's
// Downloads folder, desktop or temp root.
//
// The cleanup function is automatically handled by t.TempDir(),
// so callers don't need to manually clean up.
func SetupTestEnv(t *testing.T) Env {
	t.Helper()

	tmpDir := t.TempDir()
	env := Env{
		Home:        filepath.Join(tmpDir, "home"),
		DownloadDir: filepath.Join(tmpDir, "downloads"),
		ExtractRoot: filepath.Join(tmpDir, "extract"),
	}

	t.Setenv("HOME", env.Home)
	t.Setenv("USERPROFILE", env.Home)
	t.Setenv("UTILHUB_DOWNLOAD_DIR", env.DownloadDir)
	t.Setenv("UTILHUB_EXTRACT_ROOT", env.ExtractRoot)

	// Keep tests off the network and the real terminal
	t.Setenv("UTILHUB_API_URL", "http://127.0.0.1:0")
	t.Setenv("UTILHUB_GITHUB_TOKEN", "")
	t.Setenv("TERMINAL", "")

	for _, dir := range []string{env.Home, env.DownloadDir, env.ExtractRoot} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			t.Fatalf("failed to create test directory %s: %v", dir, err)
		}
	}

	return env
}
