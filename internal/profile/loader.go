package profile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	lua "github.com/yuin/gopher-lua"

	"github.com/ZebulonRouseFrantzich/utilhub/internal/platform"
)

const (
	luaGlobalLauncher = "launcher"

	maxProfileSize = 1 << 20
	parseTimeout   = 5 * time.Second
)

// Loader reads profile files.
type Loader struct {
	detector platform.Detector
}

// NewLoader creates a loader. detector feeds the Lua platform table and the
// OS-dependent defaults.
func NewLoader(detector platform.Detector) *Loader {
	return &Loader{detector: detector}
}

// Load reads the profile at path. An empty path yields the defaults.
func (l *Loader) Load(ctx context.Context, path string) (Options, error) {
	info, err := l.detect(ctx)
	if err != nil {
		return Options{}, err
	}
	defaults := Default(info.OS)
	if path == "" {
		return defaults, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, goerr.Wrap(ErrProfile, "read profile", goerr.V("path", path), goerr.V("cause", err.Error()))
	}
	if len(data) > maxProfileSize {
		return Options{}, goerr.Wrap(ErrProfile, "profile too large", goerr.V("path", path), goerr.V("size", len(data)))
	}

	var opts Options
	switch strings.ToLower(filepath.Ext(path)) {
	case ".lua":
		opts, err = l.parseLua(ctx, string(data), info, defaults)
	case ".toml":
		opts, err = ParseTOML(data, defaults)
	default:
		return Options{}, goerr.Wrap(ErrProfile, "unsupported profile format", goerr.V("path", path))
	}

	var perr *ParseError
	if errors.As(err, &perr) {
		perr.Path = path
	}
	return opts, err
}

// ParseLua evaluates a Lua profile.
func (l *Loader) ParseLua(ctx context.Context, code string) (Options, error) {
	info, err := l.detect(ctx)
	if err != nil {
		return Options{}, err
	}
	return l.parseLua(ctx, code, info, Default(info.OS))
}

func (l *Loader) detect(ctx context.Context) (*platform.Info, error) {
	if l.detector == nil {
		return &platform.Info{}, nil
	}
	info, err := l.detector.Detect(ctx)
	if err != nil {
		return nil, fmt.Errorf("platform detection failed: %w", err)
	}
	return info, nil
}

func (l *Loader) parseLua(ctx context.Context, code string, info *platform.Info, defaults Options) (Options, error) {
	L := newSandboxedVM()
	defer L.Close()

	ctx, cancel := context.WithTimeout(ctx, parseTimeout)
	defer cancel()
	L.SetContext(ctx)

	if err := platform.InjectPlatformTable(L, info); err != nil {
		return Options{}, fmt.Errorf("inject platform table: %w", err)
	}

	if err := L.DoString(code); err != nil {
		return Options{}, &ParseError{Message: "Lua error", Detail: err.Error()}
	}

	return extractOptions(L, defaults)
}

// extractOptions reads the global launcher table over defaults.
func extractOptions(L *lua.LState, opts Options) (Options, error) {
	val := L.GetGlobal(luaGlobalLauncher)
	table, ok := val.(*lua.LTable)
	if !ok {
		return Options{}, &ParseError{
			Message: "missing or invalid 'launcher' table",
			Detail:  fmt.Sprintf("expected table, got %s", val.Type()),
		}
	}

	var err error
	table.ForEach(func(k, v lua.LValue) {
		if err != nil {
			return
		}
		key, isString := k.(lua.LString)
		if !isString {
			err = &ParseError{Message: "invalid key in 'launcher'", Detail: fmt.Sprintf("expected string key, got %s", k.Type())}
			return
		}
		switch string(key) {
		case "themeable":
			opts.Themeable, err = luaBool(key, v)
		case "allow_folder_delete":
			opts.AllowFolderDelete, err = luaBool(key, v)
		case "extension_filter":
			opts.ExtensionFilter, err = luaString(key, v)
		case "interpreter":
			opts.Interpreter, err = luaString(key, v)
		default:
			err = &ParseError{Message: "unknown option", Detail: string(key)}
		}
	})
	if err != nil {
		return Options{}, err
	}

	if err := opts.normalize(); err != nil {
		return Options{}, &ParseError{Message: "invalid option", Detail: err.Error()}
	}
	return opts, nil
}

func luaBool(key lua.LString, v lua.LValue) (bool, error) {
	b, ok := v.(lua.LBool)
	if !ok {
		return false, &ParseError{Message: "invalid option", Detail: fmt.Sprintf("%s: expected boolean, got %s", key, v.Type())}
	}
	return bool(b), nil
}

func luaString(key lua.LString, v lua.LValue) (string, error) {
	s, ok := v.(lua.LString)
	if !ok {
		return "", &ParseError{Message: "invalid option", Detail: fmt.Sprintf("%s: expected string, got %s", key, v.Type())}
	}
	return string(s), nil
}

// ParseTOML decodes a TOML profile over defaults. Unknown keys are rejected.
func ParseTOML(data []byte, defaults Options) (Options, error) {
	var doc struct {
		Launcher Options `toml:"launcher"`
	}
	doc.Launcher = defaults

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return Options{}, &ParseError{Message: "TOML error", Detail: err.Error()}
	}

	opts := doc.Launcher

	if err := opts.normalize(); err != nil {
		return Options{}, &ParseError{Message: "invalid option", Detail: err.Error()}
	}
	return opts, nil
}
