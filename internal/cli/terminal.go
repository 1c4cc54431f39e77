// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// terminal.go - Terminal detection and color profile resolution for csplens.
//
// This file provides utilities for detecting terminal capabilities:
// - TTY detection for stdin/stdout/stderr
// - Terminal width detection for wrapped reference pages
// - Color profile resolution from --color, NO_COLOR and FORCE_COLOR
//
// The resolved termenv.Profile is threaded explicitly into the renderer;
// nothing in this file mutates process-global color state. Piped output
// therefore stays byte-identical to the unstyled rendering.

package cli

import (
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/jeranaias/csplens/internal/config"
)

// =============================================================================
// TTY DETECTION
// =============================================================================

// IsStdinTTY returns true if stdin is a terminal.
// Use this to decide between interactive and pipe behavior.
func IsStdinTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// IsStdoutTTY returns true if stdout is a terminal.
// Use this to decide whether colored output should be used.
func IsStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// IsStderrTTY returns true if stderr is a terminal.
func IsStderrTTY() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// RequiresTTY returns an error if stdin is not a terminal.
// Use this at the start of commands that require interactive input.
func RequiresTTY(operation string) error {
	if !IsStdinTTY() {
		return &TTYRequiredError{Operation: operation}
	}
	return nil
}

// TTYRequiredError is returned when an operation requires a TTY but none is available.
type TTYRequiredError struct {
	Operation string
}

func (e *TTYRequiredError) Error() string {
	if e.Operation != "" {
		return "stdin is not a terminal; cannot " + e.Operation + " interactively"
	}
	return "stdin is not a terminal; interactive input not available"
}

// =============================================================================
// TERMINAL WIDTH DETECTION
// =============================================================================

const (
	// DefaultTerminalWidth is the fallback width when detection fails
	DefaultTerminalWidth = 80

	// MinTerminalWidth is the minimum width we'll use for wrapping
	MinTerminalWidth = 40
)

// GetTerminalWidth returns the current terminal width.
// Returns DefaultTerminalWidth (80) if width cannot be determined.
func GetTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return DefaultTerminalWidth
	}
	if width < MinTerminalWidth {
		return MinTerminalWidth
	}
	return width
}

// =============================================================================
// COLOR PROFILE RESOLUTION
// =============================================================================

// ResolveColorProfile maps a color mode onto the termenv profile the
// renderer should use. mode is one of "auto", "always", "never".
//
// Resolution order:
//   - --color never          -> Ascii, unconditionally
//   - --color always         -> best detected profile, at least ANSI
//   - auto + NO_COLOR set    -> Ascii (https://no-color.org/)
//   - auto + FORCE_COLOR set -> best detected profile, at least ANSI
//   - auto + not a TTY       -> Ascii
//   - auto + TTY             -> detected profile
//
// An explicit mode beats the environment, so --color always works even
// under NO_COLOR.
func ResolveColorProfile(mode string, stdoutTTY bool) termenv.Profile {
	switch mode {
	case config.ColorNever:
		return termenv.Ascii
	case config.ColorAlways:
		return forcedProfile()
	}

	// auto
	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	if os.Getenv("FORCE_COLOR") != "" {
		return forcedProfile()
	}
	if !stdoutTTY {
		return termenv.Ascii
	}
	return termenv.ColorProfile()
}

// forcedProfile returns the detected profile, upgraded to ANSI when
// detection lands on Ascii (e.g. output is piped but color was demanded).
func forcedProfile() termenv.Profile {
	profile := termenv.ColorProfile()
	if profile == termenv.Ascii {
		profile = termenv.ANSI
	}
	return profile
}

// =============================================================================
// TERMINAL CAPABILITY DETECTION
// =============================================================================

// TerminalCapabilities describes what the current terminal supports.
type TerminalCapabilities struct {
	IsStdinTTY        bool
	IsStdoutTTY       bool
	IsStderrTTY       bool
	Width             int
	ColorProfile      termenv.Profile
	Supports256Color  bool
	SupportsTrueColor bool
}

// GetTerminalCapabilities returns information about the current terminal,
// with the profile resolved in auto mode.
func GetTerminalCapabilities() TerminalCapabilities {
	profile := ResolveColorProfile(config.ColorAuto, IsStdoutTTY())

	return TerminalCapabilities{
		IsStdinTTY:        IsStdinTTY(),
		IsStdoutTTY:       IsStdoutTTY(),
		IsStderrTTY:       IsStderrTTY(),
		Width:             GetTerminalWidth(),
		ColorProfile:      profile,
		Supports256Color:  profile == termenv.ANSI256 || profile == termenv.TrueColor,
		SupportsTrueColor: profile == termenv.TrueColor,
	}
}

// ProfileName returns a human-readable name for a termenv profile.
func ProfileName(profile termenv.Profile) string {
	switch profile {
	case termenv.Ascii:
		return "none"
	case termenv.ANSI:
		return "ansi (16 colors)"
	case termenv.ANSI256:
		return "ansi256 (256 colors)"
	case termenv.TrueColor:
		return "truecolor (24-bit)"
	default:
		return "unknown"
	}
}
