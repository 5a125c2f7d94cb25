package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Recognized keys.
const (
	KeyColorScheme          = "color_scheme"
	KeyDefaultDownloadPath  = "default_download_path"
	KeyDefaultExtractedPath = "default_extracted_path"
	KeyWindowGeometry       = "window_geometry"
	KeyTheme                = "theme"
	KeyWindowState          = "window_state"
)

// Enum values.
const (
	ColorSchemeDark  = "dark"
	ColorSchemeLight = "light"

	WindowStateNormal = "normal"
	WindowStateZoomed = "zoomed"
	WindowStateIconic = "iconic"

	DefaultGeometry = "800x600"
)

// ColorSchemes returns the selectable color schemes.
func ColorSchemes() []string {
	return []string{ColorSchemeDark, ColorSchemeLight}
}

// Themes returns the selectable UI theme names.
func Themes() []string {
	return []string{ColorSchemeDark, ColorSchemeLight}
}

// WindowStates returns the selectable window states.
func WindowStates() []string {
	return []string{WindowStateNormal, WindowStateZoomed, WindowStateIconic}
}

// KnownKeys lists recognized keys in display order.
func KnownKeys() []string {
	return []string{
		KeyColorScheme,
		KeyDefaultDownloadPath,
		KeyDefaultExtractedPath,
		KeyWindowGeometry,
		KeyTheme,
		KeyWindowState,
	}
}

// IsKnownKey reports whether key is one of KnownKeys.
func IsKnownKey(key string) bool {
	for _, k := range KnownKeys() {
		if k == key {
			return true
		}
	}
	return false
}

// Settings is the typed view of the recognized keys. Theme and WindowState
// are empty when absent from the document.
type Settings struct {
	ColorScheme          string
	DefaultDownloadPath  string
	DefaultExtractedPath string
	WindowGeometry       string
	Theme                string
	WindowState          string
}

// Defaults returns the values written on first run.
func Defaults() map[string]string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return map[string]string{
		KeyColorScheme:          ColorSchemeDark,
		KeyDefaultDownloadPath:  filepath.Join(home, "Downloads"),
		KeyDefaultExtractedPath: os.TempDir(),
		KeyWindowGeometry:       DefaultGeometry,
	}
}

// ParseGeometry parses "<width>x<height>" into positive integers.
func ParseGeometry(s string) (width, height int, err error) {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return 0, 0, fmt.Errorf("invalid geometry %q: expected WIDTHxHEIGHT", s)
	}
	width, err = strconv.Atoi(strings.TrimSpace(w))
	if err != nil || width <= 0 {
		return 0, 0, fmt.Errorf("invalid geometry %q: bad width", s)
	}
	height, err = strconv.Atoi(strings.TrimSpace(h))
	if err != nil || height <= 0 {
		return 0, 0, fmt.Errorf("invalid geometry %q: bad height", s)
	}
	return width, height, nil
}
