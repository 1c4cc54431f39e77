// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/jeranaias/csplens/internal/render"
)

// =============================================================================
// DEFAULTS
// =============================================================================

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Multiline {
		t.Error("Multiline should default to false")
	}
	if cfg.Color != ColorAuto {
		t.Errorf("Color = %q, want %q", cfg.Color, ColorAuto)
	}
	if cfg.Theme != "default" {
		t.Errorf("Theme = %q, want default", cfg.Theme)
	}
	if cfg.Scrub {
		t.Error("Scrub should default to false")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate, got %v", err)
	}
}

func TestRenderColors(t *testing.T) {
	cfg := Default()
	cfg.Colors.Safe = "42"

	colors := cfg.RenderColors()
	if colors.Safe != "42" {
		t.Errorf("Safe = %q, want override 42", colors.Safe)
	}
	if colors.Name != render.DefaultColors().Name {
		t.Errorf("Name = %q, want preset value", colors.Name)
	}
}

// =============================================================================
// FILE LOADING
// =============================================================================

func TestLoadFrom_TOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `multiline = true
color = "never"
theme = "bright"

[colors]
safe = "#00ff00"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if !cfg.Multiline {
		t.Error("Multiline should be true")
	}
	if cfg.Color != ColorNever {
		t.Errorf("Color = %q, want never", cfg.Color)
	}
	if cfg.Theme != "bright" {
		t.Errorf("Theme = %q, want bright", cfg.Theme)
	}
	if cfg.Colors.Safe != "#00ff00" {
		t.Errorf("Colors.Safe = %q, want #00ff00", cfg.Colors.Safe)
	}
}

func TestLoadFrom_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `multiline: true
color: always
colors:
  unsafe: "196"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if !cfg.Multiline || cfg.Color != ColorAlways {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.Colors.Unsafe != "196" {
		t.Errorf("Colors.Unsafe = %q, want 196", cfg.Colors.Unsafe)
	}
	// Absent keys keep their defaults.
	if cfg.Theme != "default" {
		t.Errorf("Theme = %q, want default", cfg.Theme)
	}
}

func TestLoadFrom_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"multiline": true, "theme": "bright"}`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if !cfg.Multiline || cfg.Theme != "bright" {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestLoadFrom_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"broken toml", "config.toml", "multiline = {{"},
		{"broken yaml", "config.yaml", "multiline: [unclosed"},
		{"broken json", "config.json", "{"},
		{"unsupported extension", "config.ini", "multiline=true"},
		{"invalid color mode", "bad.toml", `color = "sometimes"`},
		{"invalid theme", "theme.toml", `theme = "neon"`},
		{"invalid palette value", "palette.toml", "[colors]\nsafe = \"notacolor\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadFrom(path); err == nil {
				t.Errorf("LoadFrom(%s) should fail", tt.file)
			}
		})
	}
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Color != ColorAuto || cfg.Theme != "default" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoad_FindsFileUnderHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ConfigDirName)
	if err := os.MkdirAll(dir, 0700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte("multiline = true\n"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.Multiline {
		t.Error("Multiline should come from the file")
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("CSPLENS_MULTILINE", "yes")
	t.Setenv("CSPLENS_COLOR", "NEVER")
	t.Setenv("CSPLENS_THEME", "bright")
	t.Setenv("CSPLENS_SCRUB", "on")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if !cfg.Multiline {
		t.Error("CSPLENS_MULTILINE=yes should enable multiline")
	}
	if cfg.Color != ColorNever {
		t.Errorf("Color = %q, want never", cfg.Color)
	}
	if cfg.Theme != "bright" {
		t.Errorf("Theme = %q, want bright", cfg.Theme)
	}
	if !cfg.Scrub {
		t.Error("CSPLENS_SCRUB=on should enable scrubbing")
	}
}

func TestApplyEnvOverrides_InvalidBoolIgnored(t *testing.T) {
	t.Setenv("CSPLENS_MULTILINE", "maybe")

	cfg := Default()
	cfg.ApplyEnvOverrides()
	if cfg.Multiline {
		t.Error("invalid boolean must leave the field untouched")
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

func TestValidate_ColorValues(t *testing.T) {
	tests := []struct {
		value string
		valid bool
	}{
		{"", true},
		{"0", true},
		{"42", true},
		{"255", true},
		{"256", false},
		{"999", false},
		{"-1", false},
		{"#fff", true},
		{"#00ff00", true},
		{"#00ff0", false},
		{"#gggggg", false},
		{"red", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			cfg := Default()
			cfg.Colors.Name = tt.value
			err := cfg.Validate()
			if tt.valid && err != nil {
				t.Errorf("Validate() with colors.name=%q failed: %v", tt.value, err)
			}
			if !tt.valid && err == nil {
				t.Errorf("Validate() with colors.name=%q should fail", tt.value)
			}
		})
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Color = "sometimes"
	cfg.Theme = "neon"
	cfg.Colors.Safe = "bogus"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() should fail")
	}
	verrs, ok := err.(ValidationErrors)
	if !ok {
		t.Fatalf("error type = %T, want ValidationErrors", err)
	}
	if len(verrs) != 3 {
		t.Errorf("got %d errors, want 3: %v", len(verrs), verrs)
	}
	if !strings.Contains(err.Error(), "color") || !strings.Contains(err.Error(), "theme") {
		t.Errorf("error message should name the fields: %v", err)
	}
}

// =============================================================================
// STARTER FILE
// =============================================================================

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault() error = %v", err)
	}

	// The starter file must itself parse and validate.
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("starter config does not load: %v", err)
	}
	if cfg.Multiline || cfg.Color != ColorAuto {
		t.Errorf("starter config changed defaults: %+v", cfg)
	}

	// Refuses to clobber.
	if err := WriteDefault(path); err == nil {
		t.Error("WriteDefault() should refuse to overwrite")
	}
}

// =============================================================================
// GLOBAL CONFIG
// =============================================================================

func TestGlobal_Concurrent(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	ResetGlobalForTesting()
	defer ResetGlobalForTesting()

	var wg sync.WaitGroup
	configs := make([]*Config, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			configs[n] = Global()
		}(i)
	}
	wg.Wait()

	for i, cfg := range configs {
		if cfg == nil {
			t.Fatalf("goroutine %d got nil config", i)
		}
		if cfg != configs[0] {
			t.Error("Global() must hand every caller the same instance")
		}
	}
}

func TestSetGlobal(t *testing.T) {
	ResetGlobalForTesting()
	defer ResetGlobalForTesting()

	custom := Default()
	custom.Multiline = true
	SetGlobal(custom)

	if got := Global(); got != custom {
		t.Error("Global() should return the injected config")
	}
}
