// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package csp

import "regexp"

// hostPattern matches a dotted hostname with an optional http or https
// scheme. The match is an unanchored substring search: a token is Plain when
// any part of it looks like a host. Anchoring this would reclassify inputs
// such as *.trusted.com, so the permissive semantics are load-bearing.
var hostPattern = regexp.MustCompile(`(https?://)?(\w+\.)+(\w)+`)

// Classify assigns a Classification to one source token.
//
// Precedence: exact safe keyword, exact unsafe keyword, host-looking
// substring, then Malformed. The keyword matches are case-sensitive, quotes
// included. Total over all strings and free of side effects.
func Classify(text string) Classification {
	switch text {
	case SourceSelf, SourceNone:
		return Safe
	case SourceUnsafeInline, SourceUnsafeEval, SchemeData:
		return Unsafe
	}
	if hostPattern.MatchString(text) {
		return Plain
	}
	return Malformed
}
