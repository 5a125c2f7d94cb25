package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
)

// FileName is the settings document name inside the working directory.
const FileName = "config.json"

// ErrConfigIO covers read, parse and write failures of the settings file.
var ErrConfigIO = errors.New("config file error")

// Store reads and writes a Config at a fixed path.
type Store struct {
	path     string
	defaults map[string]string
	logger   *slog.Logger
}

// NewStore creates a store for path. A nil defaults map uses Defaults().
func NewStore(path string, defaults map[string]string, logger *slog.Logger) *Store {
	if defaults == nil {
		defaults = Defaults()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{path: path, defaults: defaults, logger: logger}
}

// StoreIn returns a store for config.json inside dir.
func StoreIn(dir string, logger *slog.Logger) *Store {
	return NewStore(filepath.Join(dir, FileName), nil, logger)
}

// Path returns the document path.
func (s *Store) Path() string {
	return s.path
}

// LoadOrInit returns the persisted document merged with the defaults,
// creating the file when it does not exist. The merged result is always
// written back.
func (s *Store) LoadOrInit() (*Config, error) {
	cfg := newConfig()

	data, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		s.logger.Info("creating default config", "path", s.path)
	case err != nil:
		return nil, goerr.Wrap(ErrConfigIO, "read config", goerr.V("path", s.path), goerr.V("cause", err.Error()))
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, goerr.Wrap(ErrConfigIO, "parse config", goerr.V("path", s.path), goerr.V("cause", err.Error()))
		}
	}

	if cfg.merge(s.defaults) {
		s.logger.Debug("backfilled missing config keys", "path", s.path)
	}

	if err := s.Save(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save replaces the whole document. Uses write-then-rename pattern for
// atomicity.
func (s *Store) Save(cfg *Config) error {
	if err := s.write(cfg); err != nil {
		return goerr.Wrap(ErrConfigIO, err.Error(), goerr.V("path", s.path))
	}
	return nil
}

func (s *Store) write(cfg *Config) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "    "); err != nil {
		return fmt.Errorf("indent config: %w", err)
	}
	buf.WriteByte('\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+FileName+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temporary config file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temporary config file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temporary config file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("chmod temporary config file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename config file: %w", err)
	}
	return nil
}
