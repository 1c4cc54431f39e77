// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// filter.go - The default pipe mode: annotate CSP headers from stdin.

package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/muesli/termenv"

	"github.com/jeranaias/csplens/internal/config"
	"github.com/jeranaias/csplens/internal/render"
	"github.com/jeranaias/csplens/internal/util"
)

// maxLineBytes caps a single input line. Header values beyond this are
// hostile or broken, not CSP.
const maxLineBytes = 1 << 20

// =============================================================================
// RESOLVED OPTIONS
// =============================================================================

// Options are the fully resolved runtime options shared by filter, repl,
// scan and watch. Flags beat environment variables beat the config file.
type Options struct {
	Multiline bool
	Scrub     bool
	Quiet     bool
	Profile   termenv.Profile
	Theme     render.Theme
}

// ResolveOptions folds parsed CLI args and the loaded config into the
// effective options. Environment overrides are already applied to cfg by
// the config loader.
func ResolveOptions(args Args, cfg *config.Config) Options {
	multiline := cfg.Multiline
	if args.MultilineSet {
		multiline = args.Multiline
	}

	scrub := cfg.Scrub
	if args.ScrubSet {
		scrub = args.Scrub
	}

	mode := cfg.Color
	if args.Color != "" {
		mode = args.Color
	}

	theme := cfg.Theme
	if args.Theme != "" {
		theme = args.Theme
	}

	profile := ResolveColorProfile(mode, IsStdoutTTY())

	return Options{
		Multiline: multiline,
		Scrub:     scrub,
		Quiet:     args.Quiet,
		Profile:   profile,
		Theme:     render.NewTheme(profile, cfg.RenderColorsFor(theme)),
	}
}

// =============================================================================
// FILTER COMMAND
// =============================================================================

// HandleFilter runs the default mode: read lines from stdin, write one
// annotated line per input line to stdout.
func HandleFilter(args Args) {
	cfg := LoadConfig(args)
	opts := ResolveOptions(args, cfg)

	if IsStdinTTY() && !opts.Quiet {
		Hint("reading from stdin; paste CSP header values, Ctrl-D to finish")
	}

	if err := runFilter(os.Stdin, os.Stdout, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runFilter is the line loop behind HandleFilter, factored over io
// interfaces. Every input line produces exactly one output line.
func runFilter(r io.Reader, w io.Writer, opts Options) error {
	renderer := render.New(opts.Theme)

	var scrubber *util.Scrubber
	if opts.Scrub {
		scrubber = util.NewScrubber()
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	for scanner.Scan() {
		line := scanner.Text()
		if scrubber != nil {
			line = scrubber.Clean(line)
		}
		if _, err := fmt.Fprintln(w, renderer.RenderLine(line, opts.Multiline)); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}
