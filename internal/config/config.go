// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads and validates the csplens configuration file.
//
// The file lives under ~/.csplens and may be TOML (config.toml), YAML
// (config.yaml), or JSON (config.json), tried in that order. Environment
// variables prefixed CSPLENS_ override file values, and CLI flags override
// both; the resolution happens in the cli package so the core never sees any
// of this machinery.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/jeranaias/csplens/internal/render"
)

// =============================================================================
// CONSTANTS
// =============================================================================

// ConfigDirName is the directory under the user home that holds the config
// file and the REPL history.
const ConfigDirName = ".csplens"

// Base names tried by Load, in order.
var configFileNames = []string{"config.toml", "config.yaml", "config.json"}

// Color mode values accepted by the "color" setting and the --color flag.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// =============================================================================
// CONFIG STRUCTURE
// =============================================================================

// Config holds every user-tunable setting. All fields have working defaults;
// an absent config file is not an error.
type Config struct {
	// Multiline places each directive value on its own indented line.
	Multiline bool `toml:"multiline" yaml:"multiline" json:"multiline"`

	// Color controls escape-code emission: auto, always, or never.
	Color string `toml:"color" yaml:"color" json:"color"`

	// Theme names the color palette: default or bright.
	Theme string `toml:"theme" yaml:"theme" json:"theme"`

	// Scrub strips control bytes from input lines before rendering.
	Scrub bool `toml:"scrub" yaml:"scrub" json:"scrub"`

	// Colors overrides individual palette entries on top of the theme.
	Colors ColorOverrides `toml:"colors" yaml:"colors" json:"colors"`
}

// ColorOverrides customizes single palette slots. Values are ANSI indexes
// ("0".."255") or hex ("#ff5f87"); empty means "keep the theme value".
type ColorOverrides struct {
	Name        string `toml:"name" yaml:"name" json:"name"`
	Safe        string `toml:"safe" yaml:"safe" json:"safe"`
	Unsafe      string `toml:"unsafe" yaml:"unsafe" json:"unsafe"`
	MalformedFg string `toml:"malformed_fg" yaml:"malformed_fg" json:"malformed_fg"`
	MalformedBg string `toml:"malformed_bg" yaml:"malformed_bg" json:"malformed_bg"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Multiline: false,
		Color:     ColorAuto,
		Theme:     "default",
		Scrub:     false,
	}
}

// RenderColors folds the theme preset and the per-slot overrides into the
// palette handed to render.NewTheme.
func (c *Config) RenderColors() render.Colors {
	return c.RenderColorsFor(c.Theme)
}

// RenderColorsFor is RenderColors with a different theme preset, used when
// --theme overrides the configured one. Per-slot overrides still apply.
func (c *Config) RenderColorsFor(theme string) render.Colors {
	return render.PresetColors(theme).Merge(render.Colors{
		Name:        c.Colors.Name,
		Safe:        c.Colors.Safe,
		Unsafe:      c.Colors.Unsafe,
		MalformedFg: c.Colors.MalformedFg,
		MalformedBg: c.Colors.MalformedBg,
	})
}

// =============================================================================
// FILE LOCATIONS
// =============================================================================

// ConfigDir returns the csplens config directory, typically ~/.csplens.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locating home directory: %w", err)
	}
	return filepath.Join(home, ConfigDirName), nil
}

// EnsureConfigDir creates the config directory if missing.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0700)
}

// Path returns the config file csplens would load: the first existing
// candidate, or the default TOML path when none exists yet.
func Path() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	for _, name := range configFileNames {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return filepath.Join(dir, configFileNames[0]), nil
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the config from the default location. A missing file yields the
// defaults without error; a present-but-broken file is an error. Environment
// overrides are applied either way.
func Load() (*Config, error) {
	dir, err := ConfigDir()
	if err != nil {
		cfg := Default()
		cfg.ApplyEnvOverrides()
		return cfg, nil
	}
	for _, name := range configFileNames {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err != nil {
			continue
		}
		return LoadFrom(p)
	}
	cfg := Default()
	cfg.ApplyEnvOverrides()
	return cfg, nil
}

// LoadFrom reads the config from an explicit path, picking the decoder by
// file extension (.toml, .yaml/.yml, .json).
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q (want .toml, .yaml, or .json)", filepath.Ext(path))
	}

	cfg.fillDefaults()
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// fillDefaults replaces zero values that have non-zero defaults. Decoders
// leave absent keys at their Go zero value, which for the string fields would
// otherwise fail validation.
func (c *Config) fillDefaults() {
	if c.Color == "" {
		c.Color = ColorAuto
	}
	if c.Theme == "" {
		c.Theme = "default"
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides lets CSPLENS_* variables override file values. Invalid
// values are ignored; the CLI flag layer is the place for loud errors.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("CSPLENS_MULTILINE"); v != "" {
		if b, err := parseBool(v); err == nil {
			c.Multiline = b
		}
	}
	if v := os.Getenv("CSPLENS_COLOR"); v != "" {
		c.Color = strings.ToLower(v)
	}
	if v := os.Getenv("CSPLENS_THEME"); v != "" {
		c.Theme = strings.ToLower(v)
	}
	if v := os.Getenv("CSPLENS_SCRUB"); v != "" {
		if b, err := parseBool(v); err == nil {
			c.Scrub = b
		}
	}
}

// parseBool accepts the flag spellings users actually type.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "y", "1", "on":
		return true, nil
	case "false", "no", "n", "0", "off":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean value %q", s)
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError describes one invalid config field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors aggregates every problem found in one pass so users fix
// the file once, not field by field.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, v := range e {
		msgs[i] = v.Error()
	}
	return "invalid config: " + strings.Join(msgs, "; ")
}

// Validate checks every field and returns nil or a ValidationErrors value.
func (c *Config) Validate() error {
	var errs ValidationErrors

	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		errs = append(errs, ValidationError{
			Field:   "color",
			Message: fmt.Sprintf("%q is not one of auto, always, never", c.Color),
		})
	}

	if !render.IsPreset(c.Theme) {
		errs = append(errs, ValidationError{
			Field:   "theme",
			Message: fmt.Sprintf("%q is not one of %s", c.Theme, strings.Join(render.PresetNames(), ", ")),
		})
	}

	colorFields := []struct {
		field string
		value string
	}{
		{"colors.name", c.Colors.Name},
		{"colors.safe", c.Colors.Safe},
		{"colors.unsafe", c.Colors.Unsafe},
		{"colors.malformed_fg", c.Colors.MalformedFg},
		{"colors.malformed_bg", c.Colors.MalformedBg},
	}
	for _, cf := range colorFields {
		if !validColor(cf.value) {
			errs = append(errs, ValidationError{
				Field:   cf.field,
				Message: fmt.Sprintf("%q is not an ANSI index (0-255) or hex color", cf.value),
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// validColor accepts empty (keep theme value), ANSI indexes 0-255, and
// #rgb / #rrggbb hex colors.
func validColor(s string) bool {
	if s == "" {
		return true
	}
	if s[0] == '#' {
		hex := s[1:]
		if len(hex) != 3 && len(hex) != 6 {
			return false
		}
		for _, r := range hex {
			if !isHexDigit(r) {
				return false
			}
		}
		return true
	}
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
		n = n*10 + int(r-'0')
		if n > 255 {
			return false
		}
	}
	return len(s) > 0 && len(s) <= 3
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

// =============================================================================
// STARTER FILE
// =============================================================================

// DefaultTemplate is the commented starter file written by
// `csplens config init`.
const DefaultTemplate = `# csplens configuration
# CLI flags override these values; CSPLENS_* environment variables sit in
# between.

# Place each directive value on its own indented line.
multiline = false

# Color output: "auto" (only on a terminal), "always", or "never".
color = "auto"

# Color palette: "default" or "bright".
theme = "default"

# Strip control bytes from input lines before rendering.
scrub = false

# Override individual palette slots. Values are ANSI color indexes ("0".."255")
# or hex colors ("#ff5f87"). Empty keeps the theme value.
[colors]
# name = "4"
# safe = "2"
# unsafe = "1"
# malformed_fg = "0"
# malformed_bg = "1"
`

// WriteDefault writes the starter config to path, refusing to clobber an
// existing file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(DefaultTemplate), 0600)
}

// =============================================================================
// GLOBAL CONFIG
// =============================================================================

var (
	globalConfig *Config
	globalMu     sync.RWMutex
	globalOnce   sync.Once
)

// Global returns the process-wide configuration, loading it on first use.
// Load errors degrade to defaults here; `csplens config show` surfaces them.
func Global() *Config {
	globalOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			cfg = Default()
			cfg.ApplyEnvOverrides()
		}
		globalMu.Lock()
		globalConfig = cfg
		globalMu.Unlock()
	})

	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalConfig
}

// SetGlobal replaces the global config (used when --config points at an
// alternate file).
func SetGlobal(cfg *Config) {
	globalOnce.Do(func() {})
	globalMu.Lock()
	globalConfig = cfg
	globalMu.Unlock()
}

// ResetGlobalForTesting clears the global so each test starts cold.
func ResetGlobalForTesting() {
	globalMu.Lock()
	globalConfig = nil
	globalMu.Unlock()
	globalOnce = sync.Once{}
}
