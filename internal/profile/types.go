package profile

import (
	"errors"
	"fmt"
	"strings"
)

// ErrProfile marks every profile loading failure.
var ErrProfile = errors.New("invalid deployment profile")

// Options are the launcher variant switches.
type Options struct {
	Themeable         bool   `toml:"themeable"`
	ExtensionFilter   string `toml:"extension_filter"`
	AllowFolderDelete bool   `toml:"allow_folder_delete"`
	Interpreter       string `toml:"interpreter"`
}

// Default returns the options used when no profile is given.
func Default(goos string) Options {
	interpreter := "python3"
	if goos == "windows" {
		interpreter = "python"
	}
	return Options{
		Themeable:   true,
		Interpreter: interpreter,
	}
}

// Matches reports whether a file name passes the extension filter.
func (o Options) Matches(name string) bool {
	if o.ExtensionFilter == "" {
		return true
	}
	return strings.HasSuffix(strings.ToLower(name), o.ExtensionFilter)
}

// normalize canonicalizes the filter and validates the interpreter.
func (o *Options) normalize() error {
	f := strings.ToLower(strings.TrimSpace(o.ExtensionFilter))
	if f != "" && !strings.HasPrefix(f, ".") {
		f = "." + f
	}
	if strings.ContainsAny(f, `/\`) {
		return fmt.Errorf("extension_filter %q must be a file extension", o.ExtensionFilter)
	}
	o.ExtensionFilter = f

	o.Interpreter = strings.TrimSpace(o.Interpreter)
	if o.Interpreter == "" {
		return fmt.Errorf("interpreter must not be empty")
	}
	return nil
}

// ParseError represents a profile parsing error with friendly message.
type ParseError struct {
	Path    string
	Message string // User-friendly message
	Detail  string // Technical details
}

func (e *ParseError) Error() string {
	prefix := "profile"
	if e.Path != "" {
		prefix = e.Path
	}
	return fmt.Sprintf("%s: %s: %s", prefix, e.Message, firstLine(e.Detail))
}

// Unwrap makes errors.Is(err, ErrProfile) hold.
func (e *ParseError) Unwrap() error {
	return ErrProfile
}

// firstLine drops Lua stack tracebacks from details.
func firstLine(detail string) string {
	if idx := strings.Index(detail, "stack traceback"); idx > 0 {
		detail = detail[:idx]
	}
	return strings.TrimSpace(detail)
}
