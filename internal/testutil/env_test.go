package testutil_test

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/ZebulonRouseFrantzich/utilhub/internal/testutil"
)

func TestSetupTestEnv(t *testing.T) {
	env := testutil.SetupTestEnv(t)

	vars := map[string]string{
		"HOME":                 env.Home,
		"UTILHUB_DOWNLOAD_DIR": env.DownloadDir,
		"UTILHUB_EXTRACT_ROOT": env.ExtractRoot,
	}
	for name, want := range vars {
		if got := os.Getenv(name); got != want {
			t.Errorf("%s = %q, want %q", name, got, want)
		}
	}

	for _, dir := range []string{env.Home, env.DownloadDir, env.ExtractRoot} {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			t.Errorf("directory %s does not exist", dir)
		}
		if !filepath.IsAbs(dir) {
			t.Errorf("path %s is not absolute", dir)
		}
	}
}

func TestSetupTestEnv_Isolation(t *testing.T) {
	env1 := testutil.SetupTestEnv(t)

	t.Run("subtest", func(t *testing.T) {
		env2 := testutil.SetupTestEnv(t)
		if env1.Home == env2.Home {
			t.Error("expected different temp directories for different test contexts")
		}
	})
}

func TestWriteZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "b.zip")
	testutil.WriteZip(t, path, map[string]string{
		"A/a1.txt":     "one",
		"A/sub/a2.txt": "two",
		"B/":           "",
	})

	r, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("open zip: %v", err)
	}
	defer r.Close()

	if len(r.File) != 3 {
		t.Fatalf("entries = %d, want 3", len(r.File))
	}
	if !r.File[2].Mode().IsDir() {
		t.Errorf("entry %s should be a directory", r.File[2].Name)
	}
}

func TestWriteTree(t *testing.T) {
	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{
		"A/sub/a2.txt": "two",
		"empty/":       "",
	})

	if data, err := os.ReadFile(filepath.Join(root, "A", "sub", "a2.txt")); err != nil || string(data) != "two" {
		t.Errorf("a2.txt = %q, %v", data, err)
	}
	if info, err := os.Stat(filepath.Join(root, "empty")); err != nil || !info.IsDir() {
		t.Errorf("empty dir missing: %v", err)
	}
}
