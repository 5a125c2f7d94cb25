package presenter_test

import (
	"testing"

	"fyne.io/fyne"
	"fyne.io/fyne/theme"
	"github.com/m-mizutani/gt"

	"github.com/ZebulonRouseFrantzich/utilhub/internal/config"
	"github.com/ZebulonRouseFrantzich/utilhub/internal/gui/presenter"
)

type fakeWindow struct {
	sizes      []fyne.Size
	fullScreen []bool
}

func (w *fakeWindow) Resize(size fyne.Size) { w.sizes = append(w.sizes, size) }
func (w *fakeWindow) SetFullScreen(full bool) { w.fullScreen = append(w.fullScreen, full) }

type fakeThemes struct {
	set []fyne.Theme
}

func (f *fakeThemes) SetTheme(t fyne.Theme) { f.set = append(f.set, t) }

func TestApplyPresentation_Geometry(t *testing.T) {
	tests := []struct {
		name     string
		geometry string
		want     fyne.Size
	}{
		{name: "exact size", geometry: "1024x768", want: fyne.NewSize(1024, 768)},
		{name: "default", geometry: "800x600", want: fyne.NewSize(800, 600)},
		{name: "malformed falls back", geometry: "huge", want: fyne.NewSize(800, 600)},
		{name: "zero falls back", geometry: "0x600", want: fyne.NewSize(800, 600)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &fakeWindow{}
			p := presenter.New(w, nil, false, nil)
			p.ApplyPresentation(config.Settings{WindowGeometry: tt.geometry})

			gt.Number(t, len(w.sizes)).Equal(1)
			gt.Value(t, w.sizes[0]).Equal(tt.want)
		})
	}
}

func TestApplyPresentation_WindowState(t *testing.T) {
	tests := []struct {
		state string
		want  []bool
	}{
		{state: "", want: []bool{false}},
		{state: config.WindowStateNormal, want: []bool{false}},
		{state: config.WindowStateZoomed, want: []bool{true}},
		{state: config.WindowStateIconic, want: nil},
		{state: "maximized", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.state, func(t *testing.T) {
			w := &fakeWindow{}
			presenter.New(w, nil, false, nil).ApplyPresentation(config.Settings{
				WindowGeometry: "800x600",
				WindowState:    tt.state,
			})
			gt.Value(t, w.fullScreen).Equal(tt.want)
		})
	}
}

func TestApplyPresentation_Theme(t *testing.T) {
	t.Run("themeable uses color scheme", func(t *testing.T) {
		th := &fakeThemes{}
		presenter.New(&fakeWindow{}, th, true, nil).ApplyPresentation(config.Settings{
			ColorScheme:    "light",
			WindowGeometry: "800x600",
		})
		gt.Number(t, len(th.set)).Equal(1)
		gt.Value(t, th.set[0].BackgroundColor()).Equal(theme.LightTheme().BackgroundColor())
	})

	t.Run("theme overrides color scheme", func(t *testing.T) {
		th := &fakeThemes{}
		presenter.New(&fakeWindow{}, th, true, nil).ApplyPresentation(config.Settings{
			ColorScheme:    "light",
			Theme:          "dark",
			WindowGeometry: "800x600",
		})
		gt.Value(t, th.set[0].BackgroundColor()).Equal(theme.DarkTheme().BackgroundColor())
	})

	t.Run("not themeable leaves theme alone", func(t *testing.T) {
		th := &fakeThemes{}
		presenter.New(&fakeWindow{}, th, false, nil).ApplyPresentation(config.Settings{
			ColorScheme:    "light",
			WindowGeometry: "800x600",
		})
		gt.Number(t, len(th.set)).Equal(0)
	})
}
