// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package csp

import "strings"

// ExtractPolicy strips an optional case-insensitive
// "content-security-policy:" prefix from line and returns the remainder in
// its original case.
//
// The search runs over a lower-cased copy and only the first occurrence
// matters; the returned text is sliced out of the original line at the byte
// offset where the match ends, so directive names and values keep the case
// they were written in. A line without the prefix is returned whole.
func ExtractPolicy(line string) string {
	idx := strings.Index(strings.ToLower(line), HeaderPrefix)
	if idx < 0 {
		return line
	}
	end := idx + len(HeaderPrefix)
	if end > len(line) {
		// Exotic case folding can grow the lower-cased copy; never slice
		// past the original.
		end = len(line)
	}
	return line[end:]
}

// ParseRow parses one semicolon-delimited segment into a directive row.
//
// The segment is split on runs of whitespace. The first word becomes the
// directive name; each remaining word is classified into a Token, order
// preserved. Segments with fewer than two words report ok=false and produce
// no row; empty and stray segments vanish silently rather than as errors.
func ParseRow(segment string) (Row, bool) {
	words := strings.Fields(segment)
	if len(words) < 2 {
		return Row{}, false
	}
	tokens := make([]Token, 0, len(words)-1)
	for _, w := range words[1:] {
		tokens = append(tokens, Token{Text: w, Class: Classify(w)})
	}
	return Row{Name: words[0], Tokens: tokens}, true
}

// ParsePolicy splits a policy string on the literal ';' and parses each
// segment in order. No trimming happens here beyond the whitespace split
// inside ParseRow; segments that fail the two-word minimum are dropped.
func ParsePolicy(text string) Policy {
	segments := strings.Split(text, ";")
	policy := make(Policy, 0, len(segments))
	for _, seg := range segments {
		if row, ok := ParseRow(seg); ok {
			policy = append(policy, row)
		}
	}
	return policy
}

// ParseLine runs the whole parsing pipeline for one raw input line:
// header extraction, policy splitting, row parsing, token classification.
func ParseLine(line string) Policy {
	return ParsePolicy(ExtractPolicy(line))
}
