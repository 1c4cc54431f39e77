// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// styles.go - Chrome styling for csplens stderr output.
//
// Payload styling (the annotated policies on stdout) lives in
// internal/render and is driven by an explicitly resolved profile. The
// styles here cover everything else: hints, warnings, scan summaries and
// errors, all of which go to stderr. They hang off a renderer bound to
// os.Stderr, so they disable themselves when stderr is piped and under
// NO_COLOR without touching global lipgloss state.

package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// chrome renders stderr decorations; profile detection follows stderr,
// not stdout.
var chrome = lipgloss.NewRenderer(os.Stderr)

// =============================================================================
// SHARED CHROME STYLES
// =============================================================================

var (
	// TitleStyle is used for section titles on stderr
	TitleStyle = chrome.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")) // Cyan

	// SuccessStyle is used for success messages and OK statuses
	SuccessStyle = chrome.NewStyle().
			Foreground(lipgloss.Color("42")). // Green
			Bold(true)

	// ErrorStyle is used for error messages and failures
	ErrorStyle = chrome.NewStyle().
			Foreground(lipgloss.Color("196")). // Red
			Bold(true)

	// WarningStyle is used for warnings and cautions
	WarningStyle = chrome.NewStyle().
			Foreground(lipgloss.Color("214")) // Yellow/Orange

	// DimStyle is used for secondary information and hints
	DimStyle = chrome.NewStyle().
			Foreground(lipgloss.Color("242")) // Dim gray

	// SeparatorStyle is used for visual separators
	SeparatorStyle = chrome.NewStyle().
			Foreground(lipgloss.Color("240")) // Dark gray
)

// =============================================================================
// HELPER FUNCTIONS FOR COMMON PATTERNS
// =============================================================================

// RenderSeparator renders a horizontal separator line of the specified width.
// Default width is 70 characters if not specified.
func RenderSeparator(width ...int) string {
	w := 70
	if len(width) > 0 && width[0] > 0 {
		w = width[0]
	}
	return SeparatorStyle.Render(strings.Repeat("=", w))
}

// RenderStatus renders a status indicator with appropriate color.
// status should be one of: "ok", "clean", "error", "fail", "warning"
func RenderStatus(status string) string {
	switch strings.ToLower(status) {
	case "ok", "clean", "pass":
		return SuccessStyle.Render("[OK]")
	case "error", "fail", "failed":
		return ErrorStyle.Render("[FAIL]")
	case "warning", "warn":
		return WarningStyle.Render("[WARN]")
	default:
		return DimStyle.Render("[" + strings.ToUpper(status) + "]")
	}
}

// Hint prints a dim informational message to stderr.
// Suppressed entirely in quiet mode by the callers.
func Hint(format string, a ...interface{}) {
	fmt.Fprintln(os.Stderr, DimStyle.Render(fmt.Sprintf(format, a...)))
}

// Warn prints a warning message to stderr.
func Warn(format string, a ...interface{}) {
	fmt.Fprintf(os.Stderr, "%s %s\n",
		WarningStyle.Render("Warning:"),
		fmt.Sprintf(format, a...))
}
