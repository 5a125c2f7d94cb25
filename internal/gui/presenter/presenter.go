// Package presenter applies the persisted presentation settings (color
// scheme, window geometry and window state) to a fyne window.
package presenter

import (
	"log/slog"

	"fyne.io/fyne"
	"fyne.io/fyne/theme"

	"github.com/ZebulonRouseFrantzich/utilhub/internal/config"
)

// Window is the part of fyne.Window the presenter drives.
type Window interface {
	Resize(size fyne.Size)
	SetFullScreen(full bool)
}

// ThemeSetter is the part of fyne.Settings the presenter drives.
type ThemeSetter interface {
	SetTheme(t fyne.Theme)
}

// Presenter re-applies presentation on demand. It is called from the UI
// goroutine only.
type Presenter struct {
	window    Window
	themes    ThemeSetter
	themeable bool
	logger    *slog.Logger
}

// New creates a presenter. When themeable is false the fyne default theme is
// left alone.
func New(window Window, themes ThemeSetter, themeable bool, logger *slog.Logger) *Presenter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Presenter{window: window, themes: themes, themeable: themeable, logger: logger}
}

// ApplyPresentation applies s to the window.
func (p *Presenter) ApplyPresentation(s config.Settings) {
	p.applyTheme(s)
	p.window.Resize(p.size(s.WindowGeometry))
	p.applyState(s.WindowState)
}

func (p *Presenter) applyTheme(s config.Settings) {
	if !p.themeable || p.themes == nil {
		return
	}
	name := s.Theme
	if name == "" {
		name = s.ColorScheme
	}
	p.themes.SetTheme(ThemeFor(name))
}

// ThemeFor maps a scheme name to a fyne theme. Anything but "light" is dark.
func ThemeFor(name string) fyne.Theme {
	if name == config.ColorSchemeLight {
		return theme.LightTheme()
	}
	return theme.DarkTheme()
}

func (p *Presenter) size(geometry string) fyne.Size {
	w, h, err := config.ParseGeometry(geometry)
	if err != nil {
		p.logger.Warn("invalid window geometry, using default",
			"geometry", geometry, "default", config.DefaultGeometry, "error", err)
		w, h, _ = config.ParseGeometry(config.DefaultGeometry)
	}
	return fyne.NewSize(w, h)
}

func (p *Presenter) applyState(state string) {
	switch state {
	case "", config.WindowStateNormal:
		p.window.SetFullScreen(false)
	case config.WindowStateZoomed:
		p.window.SetFullScreen(true)
	case config.WindowStateIconic:
		p.logger.Info("window state not supported by this toolkit", "window_state", state)
	default:
		p.logger.Warn("unknown window state ignored", "window_state", state)
	}
}
