// Package settings implements the modal settings editor shared by the
// window and the settings command.
//
// An editor session opens a Form holding every key of the Config. Save writes
// every field back, persists the document and asks the presenter to re-apply
// color scheme and geometry. Cancel leaves the Config untouched.
package settings

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/m-mizutani/goerr/v2"

	"github.com/ZebulonRouseFrantzich/utilhub/internal/config"
)

// Presenter re-applies presentation settings to the live UI.
type Presenter interface {
	ApplyPresentation(s config.Settings)
}

// Saver persists a Config.
type Saver interface {
	Save(cfg *config.Config) error
}

// Field is one editable value.
type Field struct {
	Key   string
	Label string
	Value string
	// Choices is non-empty for enumerated keys.
	Choices []string
	// Optional fields may be left empty.
	Optional bool
	// Extra marks keys this version does not recognize.
	Extra bool
}

// Form is the editable copy of a Config.
type Form struct {
	Fields []Field
}

// Get returns the value of key.
func (f Form) Get(key string) (string, bool) {
	for _, field := range f.Fields {
		if field.Key == key {
			return field.Value, true
		}
	}
	return "", false
}

// Set changes the value of key. Enumerated fields only accept one of their
// choices, or empty when optional.
func (f *Form) Set(key, value string) error {
	for i := range f.Fields {
		field := &f.Fields[i]
		if field.Key != key {
			continue
		}
		if len(field.Choices) > 0 && !slices.Contains(field.Choices, value) && !(field.Optional && value == "") {
			return fmt.Errorf("invalid value %q for %s (choices: %v)", value, key, field.Choices)
		}
		field.Value = value
		return nil
	}
	return fmt.Errorf("unknown setting %q", key)
}

var labels = map[string]string{
	config.KeyColorScheme:          "Color Scheme",
	config.KeyDefaultDownloadPath:  "Default Download Path",
	config.KeyDefaultExtractedPath: "Default Extracted Path",
	config.KeyWindowGeometry:       "Window Geometry",
	config.KeyTheme:                "Theme",
	config.KeyWindowState:          "Window State",
}

// Editor edits a shared Config.
type Editor struct {
	cfg       *config.Config
	store     Saver
	presenter Presenter
	logger    *slog.Logger
}

// NewEditor creates an editor. presenter may be nil for headless use.
func NewEditor(cfg *config.Config, store Saver, presenter Presenter, logger *slog.Logger) *Editor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Editor{cfg: cfg, store: store, presenter: presenter, logger: logger}
}

// SetPresenter replaces the presenter notified after Save.
func (e *Editor) SetPresenter(p Presenter) {
	e.presenter = p
}

// Open returns a form with the current values.
func (e *Editor) Open() Form {
	s := e.cfg.Settings()
	values := map[string]string{
		config.KeyColorScheme:          s.ColorScheme,
		config.KeyDefaultDownloadPath:  s.DefaultDownloadPath,
		config.KeyDefaultExtractedPath: s.DefaultExtractedPath,
		config.KeyWindowGeometry:       s.WindowGeometry,
		config.KeyTheme:                s.Theme,
		config.KeyWindowState:          s.WindowState,
	}

	var form Form
	for _, key := range config.KnownKeys() {
		field := Field{Key: key, Label: labels[key], Value: values[key]}
		switch key {
		case config.KeyColorScheme:
			field.Choices = config.ColorSchemes()
		case config.KeyTheme:
			field.Choices = config.Themes()
			field.Optional = true
		case config.KeyWindowState:
			field.Choices = config.WindowStates()
			field.Optional = true
		}
		form.Fields = append(form.Fields, field)
	}

	for _, key := range e.cfg.ExtraKeys() {
		v, _ := e.cfg.Get(key)
		form.Fields = append(form.Fields, Field{Key: key, Label: key, Value: v, Extra: true})
	}
	return form
}

// Save writes every field of form into the Config, persists it and
// re-applies presentation. Geometry is not validated here.
func (e *Editor) Save(form Form) (config.Settings, error) {
	get := func(key string) string {
		v, _ := form.Get(key)
		return v
	}
	s := config.Settings{
		ColorScheme:          get(config.KeyColorScheme),
		DefaultDownloadPath:  get(config.KeyDefaultDownloadPath),
		DefaultExtractedPath: get(config.KeyDefaultExtractedPath),
		WindowGeometry:       get(config.KeyWindowGeometry),
		Theme:                get(config.KeyTheme),
		WindowState:          get(config.KeyWindowState),
	}
	e.cfg.Apply(s)

	for _, field := range form.Fields {
		if !field.Extra {
			continue
		}
		// Untouched extras keep their original JSON type.
		if current, ok := e.cfg.Get(field.Key); ok && current == field.Value {
			continue
		}
		e.cfg.Set(field.Key, field.Value)
	}

	if err := e.store.Save(e.cfg); err != nil {
		return config.Settings{}, goerr.Wrap(err, "save settings")
	}
	e.logger.Info("settings saved", "geometry", s.WindowGeometry, "color_scheme", s.ColorScheme)

	if e.presenter != nil {
		e.presenter.ApplyPresentation(e.cfg.Settings())
	}
	return e.cfg.Settings(), nil
}

// Cancel ends the session without changes.
func (e *Editor) Cancel() {
	e.logger.Debug("settings edit cancelled")
}
