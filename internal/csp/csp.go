// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package csp parses Content-Security-Policy header values into classified
// directive rows.
//
// This is the pure core of csplens: every function here is total, performs no
// I/O, and keeps no state between calls. One input line flows through
// ExtractPolicy -> ParsePolicy -> ParseRow -> Classify; turning the result
// back into display text is the job of internal/render.
package csp

// =============================================================================
// CONSTANTS
// =============================================================================

// HeaderPrefix is the lower-cased literal searched for when stripping an
// optional header name from an input line. The search is case-insensitive;
// the prefix itself is ASCII, so byte offsets into a lower-cased copy remain
// valid in the original line.
const HeaderPrefix = "content-security-policy:"

// Keyword source values recognized by the classifier. CSP keyword sources
// carry their single quotes as part of the literal value; `data:` is a scheme
// source and has none.
const (
	SourceSelf         = "'self'"
	SourceNone         = "'none'"
	SourceUnsafeInline = "'unsafe-inline'"
	SourceUnsafeEval   = "'unsafe-eval'"

	// SchemeData can embed arbitrary payloads in a page, so it is flagged
	// rather than trusted even though it commonly carries inline images.
	SchemeData = "data:"
)

// =============================================================================
// DATA MODEL
// =============================================================================

// Classification is the safety category assigned to a single source token.
type Classification int

const (
	// Safe covers the trusted keyword sources 'self' and 'none'.
	Safe Classification = iota
	// Unsafe covers keyword sources that weaken the policy.
	Unsafe
	// Plain covers tokens that look like a host or URL; they are rendered
	// without decoration.
	Plain
	// Malformed covers everything else and is rendered as an alarm.
	Malformed
)

// String returns the lower-case name used in reports and test output.
func (c Classification) String() string {
	switch c {
	case Safe:
		return "safe"
	case Unsafe:
		return "unsafe"
	case Plain:
		return "plain"
	case Malformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Token is a single whitespace-delimited source value paired with its
// classification. Tokens are never mutated after creation and do not outlive
// the Row that owns them.
type Token struct {
	Text  string
	Class Classification
}

// Row is one parsed directive: its name plus the classified source tokens in
// written order. The name is rendered, never classified.
type Row struct {
	Name   string
	Tokens []Token
}

// Policy is the ordered sequence of directive rows parsed from one header
// value. Segments that fail the two-word minimum leave no trace here.
type Policy []Row

// Count returns how many tokens across the policy carry the given
// classification.
func (p Policy) Count(c Classification) int {
	n := 0
	for _, row := range p {
		for _, tok := range row.Tokens {
			if tok.Class == c {
				n++
			}
		}
	}
	return n
}

// Tokens returns the total number of classified tokens in the policy.
func (p Policy) Tokens() int {
	n := 0
	for _, row := range p {
		n += len(row.Tokens)
	}
	return n
}
