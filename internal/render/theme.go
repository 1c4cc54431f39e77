// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package render turns parsed policies back into display text.
//
// Styling is a pure decoration layer: a Theme is built against an explicit
// termenv color profile, and under termenv.Ascii every style renders its
// input byte for byte. Callers resolve a profile once (flags, NO_COLOR, TTY
// detection) and thread it in; nothing in this package touches process
// globals, so two renderers with different profiles can coexist in one
// program and in one test.
package render

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// =============================================================================
// COLOR CONFIGURATION
// =============================================================================

// Colors holds the color values a theme is built from. Values are lipgloss
// color strings: ANSI indexes ("0".."255") or hex ("#ff5f87"). Empty fields
// fall back to the defaults.
type Colors struct {
	Name        string
	Safe        string
	Unsafe      string
	MalformedFg string
	MalformedBg string
}

// DefaultColors returns the stock palette: blue directive names, green safe
// keywords, red unsafe keywords, and black-on-red malformed tokens. Plain
// tokens never get a color.
func DefaultColors() Colors {
	return Colors{
		Name:        "4",
		Safe:        "2",
		Unsafe:      "1",
		MalformedFg: "0",
		MalformedBg: "1",
	}
}

// presets are the named palettes selectable via --theme or the config file.
var presets = map[string]Colors{
	"default": DefaultColors(),
	"bright": {
		Name:        "12",
		Safe:        "10",
		Unsafe:      "9",
		MalformedFg: "0",
		MalformedBg: "9",
	},
}

// PresetColors returns the named palette. Unknown names fall back to the
// default palette so a stale config value degrades instead of failing.
func PresetColors(name string) Colors {
	if c, ok := presets[name]; ok {
		return c
	}
	return DefaultColors()
}

// PresetNames lists the available palette names for help and validation.
func PresetNames() []string {
	return []string{"default", "bright"}
}

// IsPreset reports whether name is a known palette.
func IsPreset(name string) bool {
	_, ok := presets[name]
	return ok
}

// Merge overlays non-empty fields of over onto c and returns the result.
// Used to apply per-field config overrides on top of a preset.
func (c Colors) Merge(over Colors) Colors {
	if over.Name != "" {
		c.Name = over.Name
	}
	if over.Safe != "" {
		c.Safe = over.Safe
	}
	if over.Unsafe != "" {
		c.Unsafe = over.Unsafe
	}
	if over.MalformedFg != "" {
		c.MalformedFg = over.MalformedFg
	}
	if over.MalformedBg != "" {
		c.MalformedBg = over.MalformedBg
	}
	return c
}

// =============================================================================
// THEME
// =============================================================================

// Theme maps each token classification, plus the directive name, to a
// lipgloss style bound to one color profile.
type Theme struct {
	Name      lipgloss.Style
	Safe      lipgloss.Style
	Unsafe    lipgloss.Style
	Malformed lipgloss.Style
	Plain     lipgloss.Style

	profile termenv.Profile
}

// NewTheme builds a theme against the given profile. Empty Colors fields are
// filled from DefaultColors. Under termenv.Ascii the returned styles are
// pass-throughs, which is the "styling disabled" contract the renderer and
// its tests rely on.
func NewTheme(profile termenv.Profile, colors Colors) Theme {
	colors = DefaultColors().Merge(colors)

	// A local renderer keeps the profile off lipgloss's global default.
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(profile)

	return Theme{
		Name:      r.NewStyle().Foreground(lipgloss.Color(colors.Name)),
		Safe:      r.NewStyle().Foreground(lipgloss.Color(colors.Safe)),
		Unsafe:    r.NewStyle().Foreground(lipgloss.Color(colors.Unsafe)),
		Malformed: r.NewStyle().Foreground(lipgloss.Color(colors.MalformedFg)).Background(lipgloss.Color(colors.MalformedBg)),
		Plain:     r.NewStyle(),
		profile:   profile,
	}
}

// Profile reports the color profile the theme was built against.
func (t Theme) Profile() termenv.Profile {
	return t.profile
}

// Styled reports whether the theme emits escape sequences at all.
func (t Theme) Styled() bool {
	return t.profile != termenv.Ascii
}
