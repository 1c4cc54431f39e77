// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// sanitize.go - control-byte scrubbing for untrusted header input.
//
// Header values arrive from the network and are echoed to a terminal, so a
// hostile server can smuggle escape sequences into them. The scrubber strips
// control characters before the line enters the pipeline. Tab survives: the
// row parser treats it as ordinary word whitespace, and removing it would
// merge adjacent tokens.
package util

import (
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// Scrubber removes control characters (C0 and C1, minus tab) from input
// lines. One Scrubber is reusable across lines.
type Scrubber struct {
	t transform.Transformer
}

// NewScrubber builds the transform chain.
func NewScrubber() *Scrubber {
	return &Scrubber{
		t: runes.Remove(runes.Predicate(func(r rune) bool {
			return unicode.IsControl(r) && r != '\t'
		})),
	}
}

// Clean returns line with control characters removed. On a transform error
// the line passes through unmodified; scrubbing is best-effort and must
// never eat input.
func (s *Scrubber) Clean(line string) string {
	out, _, err := transform.String(s.t, line)
	if err != nil {
		return line
	}
	return out
}
