// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/csplens/internal/csp"
)

// Separators. The row separator is fixed; only the in-row separator follows
// the multiline flag.
const (
	compactSep   = " "
	multilineSep = "\n\t"
	rowSep       = ";\n"
)

// Renderer produces the display form of parsed policies using one Theme.
// It is stateless apart from the theme and safe to reuse across lines.
type Renderer struct {
	theme Theme
}

// New returns a Renderer that styles output with the given theme.
func New(theme Theme) *Renderer {
	return &Renderer{theme: theme}
}

// Theme returns the theme the renderer was built with.
func (r *Renderer) Theme() Theme {
	return r.theme
}

// Render produces the display form of a policy.
//
// Each row renders as the directive name followed by its values, joined by a
// single space, or by a newline plus one tab when multiline is set. Rows join
// with ";\n" in both modes. An empty policy renders as the empty string.
// Under a Theme built on termenv.Ascii the result is exactly the literal
// token text.
func (r *Renderer) Render(policy csp.Policy, multiline bool) string {
	if len(policy) == 0 {
		return ""
	}

	sep := compactSep
	if multiline {
		sep = multilineSep
	}

	var b strings.Builder
	for i, row := range policy {
		if i > 0 {
			b.WriteString(rowSep)
		}
		b.WriteString(r.theme.Name.Render(row.Name))
		for _, tok := range row.Tokens {
			b.WriteString(sep)
			b.WriteString(r.styleFor(tok.Class).Render(tok.Text))
		}
	}
	return b.String()
}

// RenderLine runs the whole pipeline for one raw input line and renders the
// result. Lines that parse to no rows render as the empty string.
func (r *Renderer) RenderLine(line string, multiline bool) string {
	return r.Render(csp.ParseLine(line), multiline)
}

func (r *Renderer) styleFor(c csp.Classification) lipgloss.Style {
	switch c {
	case csp.Safe:
		return r.theme.Safe
	case csp.Unsafe:
		return r.theme.Unsafe
	case csp.Plain:
		return r.theme.Plain
	default:
		return r.theme.Malformed
	}
}
