package profile_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/ZebulonRouseFrantzich/utilhub/internal/platform"
	"github.com/ZebulonRouseFrantzich/utilhub/internal/profile"
)

type fakeDetector struct {
	info *platform.Info
	err  error
}

func (f fakeDetector) Detect(context.Context) (*platform.Info, error) {
	return f.info, f.err
}

var linux = fakeDetector{info: &platform.Info{OS: "linux", Arch: "amd64", Platform: "ubuntu", Family: platform.FamilyDebian}}

func writeProfile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	gt.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	gt.Value(t, profile.Default("linux")).Equal(profile.Options{Themeable: true, Interpreter: "python3"})
	gt.Value(t, profile.Default("windows").Interpreter).Equal("python")
}

func TestLoad_Empty(t *testing.T) {
	opts, err := profile.NewLoader(linux).Load(context.Background(), "")
	gt.NoError(t, err)
	gt.Value(t, opts).Equal(profile.Default("linux"))
}

func TestParseLua(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		want    profile.Options
		wantErr bool
	}{
		{
			name: "partial overrides keep defaults",
			code: `launcher = { extension_filter = "PY", allow_folder_delete = true }`,
			want: profile.Options{Themeable: true, ExtensionFilter: ".py", AllowFolderDelete: true, Interpreter: "python3"},
		},
		{
			name: "platform conditional",
			code: `launcher = { themeable = false, interpreter = platform.is_linux and "python3.12" or "py" }`,
			want: profile.Options{Themeable: false, Interpreter: "python3.12"},
		},
		{
			name: "when helper drops nil",
			code: `launcher = { extension_filter = platform.when(platform.is_windows, ".bat") }`,
			want: profile.Options{Themeable: true, Interpreter: "python3"},
		},
		{name: "missing table", code: `x = 1`, wantErr: true},
		{name: "wrong type", code: `launcher = { themeable = "yes" }`, wantErr: true},
		{name: "unknown key", code: `launcher = { colour = "red" }`, wantErr: true},
		{name: "array entry", code: `launcher = { ".py" }`, wantErr: true},
		{name: "empty interpreter", code: `launcher = { interpreter = "  " }`, wantErr: true},
		{name: "syntax error", code: `launcher = {`, wantErr: true},
		{name: "os removed", code: `os.execute("true")`, wantErr: true},
		{name: "io removed", code: `io.open("/etc/passwd")`, wantErr: true},
		{name: "require removed", code: `require("os")`, wantErr: true},
		{name: "package removed", code: `local f = package.loaders[2]("evil")`, wantErr: true},
		{name: "package path unreachable", code: `package.path = "/tmp/?.lua"`, wantErr: true},
		{name: "platform read-only", code: `platform.os = "windows"`, wantErr: true},
	}

	loader := profile.NewLoader(linux)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := loader.ParseLua(context.Background(), tt.code)
			if tt.wantErr {
				gt.Error(t, err)
				gt.True(t, errors.Is(err, profile.ErrProfile))
				var perr *profile.ParseError
				gt.True(t, errors.As(err, &perr))
				return
			}
			gt.NoError(t, err)
			gt.Value(t, got).Equal(tt.want)
		})
	}
}

func TestLoad_Lua(t *testing.T) {
	path := writeProfile(t, "launcher.lua", `launcher = { extension_filter = ".py" }`)

	opts, err := profile.NewLoader(linux).Load(context.Background(), path)
	gt.NoError(t, err)
	gt.Value(t, opts.ExtensionFilter).Equal(".py")
}

func TestLoad_LuaErrorCarriesPath(t *testing.T) {
	path := writeProfile(t, "broken.lua", `launcher = 42`)

	_, err := profile.NewLoader(linux).Load(context.Background(), path)
	var perr *profile.ParseError
	gt.True(t, errors.As(err, &perr))
	gt.Value(t, perr.Path).Equal(path)
	gt.String(t, err.Error()).Contains("broken.lua")
}

func TestLoad_TOML(t *testing.T) {
	path := writeProfile(t, "launcher.toml", `
[launcher]
themeable = false
extension_filter = "py"
allow_folder_delete = true
`)

	opts, err := profile.NewLoader(linux).Load(context.Background(), path)
	gt.NoError(t, err)
	gt.Value(t, opts).Equal(profile.Options{ExtensionFilter: ".py", AllowFolderDelete: true, Interpreter: "python3"})
}

func TestLoad_TOMLUnknownKey(t *testing.T) {
	path := writeProfile(t, "launcher.toml", "[launcher]\nfoo = 1\n")

	_, err := profile.NewLoader(linux).Load(context.Background(), path)
	gt.True(t, errors.Is(err, profile.ErrProfile))
}

func TestLoad_Errors(t *testing.T) {
	t.Run("unsupported extension", func(t *testing.T) {
		path := writeProfile(t, "launcher.yaml", "launcher: {}")
		_, err := profile.NewLoader(linux).Load(context.Background(), path)
		gt.True(t, errors.Is(err, profile.ErrProfile))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := profile.NewLoader(linux).Load(context.Background(), filepath.Join(t.TempDir(), "nope.lua"))
		gt.True(t, errors.Is(err, profile.ErrProfile))
	})

	t.Run("detector failure", func(t *testing.T) {
		_, err := profile.NewLoader(fakeDetector{err: context.Canceled}).Load(context.Background(), "")
		gt.True(t, errors.Is(err, context.Canceled))
	})
}

func TestOptions_Matches(t *testing.T) {
	all := profile.Options{}
	gt.True(t, all.Matches("anything.txt"))

	py := profile.Options{ExtensionFilter: ".py"}
	gt.True(t, py.Matches("tool.py"))
	gt.True(t, py.Matches("TOOL.PY"))
	gt.Value(t, py.Matches("notes.txt")).Equal(false)
	gt.Value(t, py.Matches("py")).Equal(false)
}
