// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// explain.go - Built-in reference pages for CSP directives and keywords.

package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
)

// explainTopics lists every reference page in display order.
var explainTopics = []struct {
	name    string
	summary string
}{
	{"default-src", "fallback for all fetch directives"},
	{"script-src", "valid sources for JavaScript"},
	{"style-src", "valid sources for stylesheets"},
	{"img-src", "valid sources for images"},
	{"connect-src", "valid targets for fetch, XHR, WebSocket"},
	{"font-src", "valid sources for web fonts"},
	{"media-src", "valid sources for audio and video"},
	{"object-src", "valid sources for plugins"},
	{"child-src", "valid sources for workers and frames"},
	{"frame-src", "valid sources for nested frames"},
	{"frame-ancestors", "who may embed this page"},
	{"base-uri", "allowed values for the <base> element"},
	{"form-action", "allowed form submission targets"},
	{"report-uri", "legacy violation report endpoint"},
	{"report-to", "violation reporting group"},
	{"sandbox", "apply iframe-style sandboxing to the page"},
	{"upgrade-insecure-requests", "rewrite http: subresources to https:"},
	{"self", "keyword: the page's own origin"},
	{"none", "keyword: match nothing"},
	{"unsafe-inline", "keyword: allow inline script and style"},
	{"unsafe-eval", "keyword: allow eval() and friends"},
	{"data", "scheme: allow data: URLs"},
}

// topicDocs holds the Markdown reference pages, keyed by canonical topic.
var topicDocs = map[string]string{
	"default-src": `# default-src

The fallback directive. Any fetch directive that is absent from the
policy (script-src, img-src, connect-src, font-src, media-src and the
rest) falls back to the sources listed here.

A policy without default-src leaves unlisted resource types
unrestricted, which is almost never intended. Auditors usually start by
checking that default-src exists and is tight.

## Example

    Content-Security-Policy: default-src 'self'; img-src cdn.example.com

Images may load from cdn.example.com; every other resource type is
restricted to the page's own origin.

## Recommendation

Start from ` + "`default-src 'none'`" + ` and open up individual
directives as the application actually needs them.`,

	"script-src": `# script-src

Controls the sources from which JavaScript may execute: external
scripts, inline blocks, event handlers and eval-like APIs.

This is the directive that makes or breaks a policy against XSS.
'unsafe-inline' or 'unsafe-eval' here neutralizes most of the
protection, which is why csplens paints both red.

## Example

    Content-Security-Policy: script-src 'self' https://js.example.com

## Recommendation

Avoid 'unsafe-inline'; move inline code into files or adopt nonces.
Avoid 'unsafe-eval'; most frameworks offer build-time alternatives.`,

	"style-src": `# style-src

Controls stylesheet sources: external files, <style> blocks and style
attributes.

'unsafe-inline' here is less catastrophic than on script-src but still
enables CSS-based data exfiltration in some setups.

## Example

    Content-Security-Policy: style-src 'self' fonts.googleapis.com`,

	"img-src": `# img-src

Controls image sources, including favicons.

A broad img-src is a common and comparatively low-risk relaxation, but
remember that a wildcard host list also widens request-based tracking
and exfiltration channels.

## Example

    Content-Security-Policy: img-src 'self' data: cdn.example.com

Note that data: in img-src allows attacker-controlled inline image
payloads; csplens flags data: as unsafe wherever it appears.`,

	"connect-src": `# connect-src

Restricts the targets of script-initiated network access: fetch(),
XMLHttpRequest, WebSocket, EventSource and sendBeacon.

A tight connect-src is the main defense against scripted exfiltration
once something malicious is already running.

## Example

    Content-Security-Policy: connect-src 'self' wss://push.example.com`,

	"font-src": `# font-src

Controls web font sources loaded via @font-face.

## Example

    Content-Security-Policy: font-src 'self' fonts.gstatic.com`,

	"media-src": `# media-src

Controls the sources of <audio>, <video> and <track> elements.

## Example

    Content-Security-Policy: media-src 'self' media.example.com`,

	"object-src": `# object-src

Controls plugin content: <object> and <embed>. Legacy plugin containers
have a long exploit history, so the standing advice is a hard block.

## Example

    Content-Security-Policy: object-src 'none'`,

	"child-src": `# child-src

Controls the sources of web workers and nested browsing contexts. In
CSP level 3 the frame half is superseded by frame-src and the worker
half by worker-src, but child-src still acts as their fallback and
shows up in plenty of live policies.

## Example

    Content-Security-Policy: child-src 'none'

blocks both workers and embedded frames outright.`,

	"frame-src": `# frame-src

Controls the URLs that may load in nested frames: <iframe> and <frame>.
Falls back to child-src, then default-src.

Not to be confused with frame-ancestors, which governs who may embed
this page rather than what this page may embed.

## Example

    Content-Security-Policy: frame-src https://player.example.com`,

	"frame-ancestors": `# frame-ancestors

Lists the origins allowed to embed this page in <frame>, <iframe>,
<object> or <embed>. This is the CSP replacement for the
X-Frame-Options header and the primary clickjacking defense.

Unlike most directives it does not fall back to default-src.

## Example

    Content-Security-Policy: frame-ancestors 'none'`,

	"base-uri": `# base-uri

Restricts the URLs usable in the page's <base> element. Without it, an
injected <base> tag can silently redirect every relative URL on the
page, scripts included.

## Example

    Content-Security-Policy: base-uri 'self'`,

	"form-action": `# form-action

Restricts where forms may submit. Stops injected forms from posting
credentials to an attacker's origin. Does not fall back to default-src.

## Example

    Content-Security-Policy: form-action 'self' https://pay.example.com`,

	"report-uri": `# report-uri

The legacy endpoint for CSP violation reports. Deprecated in favor of
report-to, but still widely deployed because browser support for the
replacement lagged for years; many policies carry both.

## Example

    Content-Security-Policy: default-src 'self'; report-uri /csp-report`,

	"report-to": `# report-to

Names a reporting group (defined in the Reporting-Endpoints or legacy
Report-To header) that receives violation reports. The modern
replacement for report-uri.

## Example

    Content-Security-Policy: default-src 'self'; report-to csp-endpoint`,

	"sandbox": `# sandbox

Applies an <iframe sandbox>-style restriction set to the page itself:
no scripts, no forms, no popups, unique origin, unless individually
re-enabled with values like sandbox allow-scripts.

## Example

    Content-Security-Policy: sandbox allow-forms allow-same-origin`,

	"upgrade-insecure-requests": `# upgrade-insecure-requests

Tells the browser to rewrite http: subresource URLs to https: before
fetching. A migration aid for sites with legacy mixed content, not a
substitute for Strict-Transport-Security.

## Example

    Content-Security-Policy: upgrade-insecure-requests; default-src 'self'`,

	"self": `# 'self'

Matches the page's own origin: same scheme, host and port. The
workhorse of restrictive policies and one of the two values csplens
classifies as safe.

The quotes are part of the syntax. An unquoted self is a host name, and
a surprising number of production policies ship that typo; csplens
shows unquoted self as malformed because it matches no host pattern.

## Example

    Content-Security-Policy: default-src 'self'`,

	"none": `# 'none'

Matches nothing; the directive blocks that resource type entirely.
The strictest value a directive can carry, classified safe by csplens.

As with 'self', the quotes are mandatory syntax.

## Example

    Content-Security-Policy: object-src 'none'; default-src 'self'`,

	"unsafe-inline": `# 'unsafe-inline'

Re-enables inline <script> blocks, inline event handlers and inline
styles that CSP blocks by default.

On script-src this largely defeats the policy: injected markup runs
again, which is exactly what CSP exists to stop. csplens classifies it
unsafe and paints it red wherever it appears.

## Migration

Replace inline code with external files, or use nonces or hashes so
only the inline blocks you shipped can execute.`,

	"unsafe-eval": `# 'unsafe-eval'

Re-enables eval(), new Function(), and string arguments to setTimeout
and setInterval.

String-to-code APIs turn any injected text into executable script, so
csplens classifies this unsafe. Most template engines and frameworks
have precompiled modes that remove the need for it.`,

	"data": `# data:

Allows data: URLs as a source. The payload travels inside the URL
itself, so origin-based allow-listing stops meaning anything: whoever
controls the markup controls the content.

Particularly dangerous on script-src and object-src, and still a
phishing and exfiltration channel on img-src. csplens classifies data:
as unsafe in every position.

## Example

    Content-Security-Policy: img-src 'self' data:

allows inline base64 images, and also anything else that fits in a
data: URL.`,
}

// HandleExplain shows a reference page, or the topic list when no topic
// is given.
func HandleExplain(args Args) {
	parser := NewArgParser(args.Raw)

	if parser.PositionalCount() == 0 {
		printExplainTopics()
		return
	}

	requested := parser.Positional(0)
	topic := normalizeTopic(requested)
	doc, ok := topicDocs[topic]
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: no reference page for %q\n", requested)
		fmt.Fprintln(os.Stderr, "Run 'csplens explain' to list topics.")
		os.Exit(1)
	}

	// Raw Markdown for pipes and --plain; rendered output for terminals.
	if parser.BoolFlag("plain") || !IsStdoutTTY() {
		fmt.Println(strings.TrimSpace(doc))
		return
	}

	width := GetTerminalWidth()
	if width > 100 {
		width = 100
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		fmt.Println(strings.TrimSpace(doc))
		return
	}

	out, err := renderer.Render(doc)
	if err != nil {
		fmt.Println(strings.TrimSpace(doc))
		return
	}
	fmt.Print(out)
}

// normalizeTopic maps user spellings onto canonical topic keys:
// quotes stripped, trailing colon dropped, case folded.
func normalizeTopic(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Trim(s, "'\"")
	s = strings.TrimSuffix(s, ":")
	return s
}

// printExplainTopics lists all reference pages.
func printExplainTopics() {
	fmt.Println("Reference pages:")
	fmt.Println()
	for _, topic := range explainTopics {
		fmt.Printf("  %-26s %s\n", topic.name, topic.summary)
	}
	fmt.Println()
	fmt.Println("Usage: csplens explain <topic>")
}
