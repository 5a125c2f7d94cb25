package config

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// Config is the in-memory settings document.
type Config struct {
	mu     sync.RWMutex
	values map[string]json.RawMessage
}

func newConfig() *Config {
	return &Config{values: make(map[string]json.RawMessage)}
}

// FromMap builds a Config holding string values.
func FromMap(m map[string]string) *Config {
	c := newConfig()
	for k, v := range m {
		c.values[k] = encodeString(v)
	}
	return c
}

// Get returns the value of key. Non-string JSON values are returned as their
// JSON text.
func (c *Config) Get(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	raw, ok := c.values[key]
	if !ok {
		return "", false
	}
	return decodeString(raw), true
}

// Has reports whether key is present.
func (c *Config) Has(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.values[key]
	return ok
}

// Set stores value as a JSON string.
func (c *Config) Set(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = encodeString(value)
}

// Keys returns every key, sorted.
func (c *Config) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0, len(c.values))
	for k := range c.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ExtraKeys returns the keys that are not recognized settings, sorted.
func (c *Config) ExtraKeys() []string {
	var extra []string
	for _, k := range c.Keys() {
		if !IsKnownKey(k) {
			extra = append(extra, k)
		}
	}
	return extra
}

// Settings returns the typed view of the recognized keys.
func (c *Config) Settings() Settings {
	get := func(k string) string {
		v, _ := c.Get(k)
		return v
	}
	return Settings{
		ColorScheme:          get(KeyColorScheme),
		DefaultDownloadPath:  get(KeyDefaultDownloadPath),
		DefaultExtractedPath: get(KeyDefaultExtractedPath),
		WindowGeometry:       get(KeyWindowGeometry),
		Theme:                get(KeyTheme),
		WindowState:          get(KeyWindowState),
	}
}

// Apply overwrites the recognized keys with s. Optional keys are written
// when non-empty or already present.
func (c *Config) Apply(s Settings) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.values[KeyColorScheme] = encodeString(s.ColorScheme)
	c.values[KeyDefaultDownloadPath] = encodeString(s.DefaultDownloadPath)
	c.values[KeyDefaultExtractedPath] = encodeString(s.DefaultExtractedPath)
	c.values[KeyWindowGeometry] = encodeString(s.WindowGeometry)

	for key, v := range map[string]string{KeyTheme: s.Theme, KeyWindowState: s.WindowState} {
		if _, ok := c.values[key]; ok || v != "" {
			c.values[key] = encodeString(v)
		}
	}
}

// merge backfills defaults and reports whether anything was added.
func (c *Config) merge(defaults map[string]string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	changed := false
	for k, v := range defaults {
		if _, ok := c.values[k]; !ok {
			c.values[k] = encodeString(v)
			changed = true
		}
	}
	return changed
}

// MarshalJSON encodes the document with sorted keys.
func (c *Config) MarshalJSON() ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return json.Marshal(c.values)
}

// UnmarshalJSON replaces the document. The input must be a JSON object.
func (c *Config) UnmarshalJSON(data []byte) error {
	values := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	if values == nil {
		return fmt.Errorf("config document must be a JSON object")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.values = values
	return nil
}

func encodeString(s string) json.RawMessage {
	b, _ := json.Marshal(s)
	return b
}

func decodeString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
