// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// repl.go - Interactive prompt for inspecting CSP headers one at a time.

package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/jeranaias/csplens/internal/config"
	"github.com/jeranaias/csplens/internal/render"
	"github.com/jeranaias/csplens/internal/util"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ReplCLI provides input history and line editing for the interactive prompt.
// Supports arrow keys for history navigation.
type ReplCLI struct {
	line        *liner.State
	historyFile string
}

// NewReplCLI creates a new ReplCLI with input history support.
func NewReplCLI() *ReplCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	// History lives next to the config; fall back to temp if unavailable.
	historyFile := filepath.Join(os.TempDir(), "csplens_history")
	if dir, err := config.ConfigDir(); err == nil {
		if err := config.EnsureConfigDir(); err == nil {
			historyFile = filepath.Join(dir, "history")
		}
	}

	cli := &ReplCLI{
		line:        line,
		historyFile: historyFile,
	}
	cli.LoadHistory()
	return cli
}

// LoadHistory loads input history from file.
func (c *ReplCLI) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// SaveHistory persists input history, keeping the file private.
func (c *ReplCLI) SaveHistory() {
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()

	c.line.WriteHistory(f)
}

// ReadInput reads a line of input with the given prompt.
func (c *ReplCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// Close saves history and closes the liner.
func (c *ReplCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

// =============================================================================
// REPL SESSION
// =============================================================================

// replSession carries the mutable state of one REPL run. Slash commands
// adjust it in place.
type replSession struct {
	cfg       *config.Config
	opts      Options
	themeName string
	colorMode string
	renderer  *render.Renderer
	scrubber  *util.Scrubber
	rendered  int
}

// rebuild re-resolves the color profile and theme after a slash command
// changed the session.
func (s *replSession) rebuild() {
	s.opts.Profile = ResolveColorProfile(s.colorMode, IsStdoutTTY())
	s.opts.Theme = render.NewTheme(s.opts.Profile, s.cfg.RenderColorsFor(s.themeName))
	s.renderer = render.New(s.opts.Theme)
}

// HandleREPL runs the interactive prompt.
func HandleREPL(args Args) {
	if err := RequiresTTY("start the REPL"); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg := LoadConfig(args)

	session := &replSession{
		cfg:       cfg,
		opts:      ResolveOptions(args, cfg),
		themeName: cfg.Theme,
		colorMode: cfg.Color,
		scrubber:  util.NewScrubber(),
	}
	if args.Theme != "" {
		session.themeName = args.Theme
	}
	if args.Color != "" {
		session.colorMode = args.Color
	}
	session.renderer = render.New(session.opts.Theme)

	input := NewReplCLI()
	defer input.Close()

	if !session.opts.Quiet {
		fmt.Fprintln(os.Stderr, TitleStyle.Render("csplens repl"))
		Hint("paste a CSP header value, /help for commands, Ctrl-D to exit")
	}

	for {
		line, err := input.ReadInput("csp> ")
		if err != nil {
			// Ctrl+C (ErrPromptAborted), Ctrl+D (io.EOF) or a terminal
			// error all end the session.
			if err == liner.ErrPromptAborted {
				fmt.Fprintln(os.Stderr)
			}
			printReplSummary(session)
			return
		}

		if strings.TrimSpace(line) == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if !handleReplCommand(session, line) {
				printReplSummary(session)
				return
			}
			continue
		}

		if session.opts.Scrub {
			line = session.scrubber.Clean(line)
		}
		fmt.Println(session.renderer.RenderLine(line, session.opts.Multiline))
		session.rendered++
	}
}

// handleReplCommand executes a slash command. Returns false when the
// session should end.
func handleReplCommand(s *replSession, input string) bool {
	parts := strings.Fields(input)
	command := strings.ToLower(parts[0])
	cmdArgs := parts[1:]

	switch command {
	case "/help", "/h", "/?", "/":
		printReplHelp()
		return true

	case "/multiline", "/m":
		s.opts.Multiline = !s.opts.Multiline
		Hint("multiline %s", onOff(s.opts.Multiline))
		return true

	case "/scrub":
		s.opts.Scrub = !s.opts.Scrub
		Hint("control byte scrubbing %s", onOff(s.opts.Scrub))
		return true

	case "/color":
		if len(cmdArgs) == 0 {
			Hint("color mode %s, rendering with %s", s.colorMode, ProfileName(s.opts.Profile))
			return true
		}
		mode := strings.ToLower(cmdArgs[0])
		if mode != config.ColorAuto && mode != config.ColorAlways && mode != config.ColorNever {
			fmt.Fprintf(os.Stderr, "%s unknown color mode %q (want auto, always or never)\n",
				ErrorStyle.Render("[Error]"), mode)
			return true
		}
		s.colorMode = mode
		s.rebuild()
		Hint("color mode %s, rendering with %s", mode, ProfileName(s.opts.Profile))
		return true

	case "/theme":
		if len(cmdArgs) == 0 {
			Hint("themes: %s (current: %s)", strings.Join(render.PresetNames(), ", "), s.themeName)
			return true
		}
		name := cmdArgs[0]
		if !render.IsPreset(name) {
			fmt.Fprintf(os.Stderr, "%s unknown theme %q (themes: %s)\n",
				ErrorStyle.Render("[Error]"), name, strings.Join(render.PresetNames(), ", "))
			return true
		}
		s.themeName = name
		s.rebuild()
		Hint("theme set to %s", name)
		return true

	case "/quit", "/q", "/exit":
		return false

	default:
		fmt.Fprintf(os.Stderr, "%s unknown command %s (try /help)\n",
			ErrorStyle.Render("[Error]"), command)
		return true
	}
}

// printReplHelp lists slash commands on stderr.
func printReplHelp() {
	help := []string{
		"/multiline, /m     toggle one-source-per-line rendering",
		"/scrub             toggle control byte scrubbing",
		"/color [MODE]      show or set color mode (auto, always, never)",
		"/theme [NAME]      show or set the color theme",
		"/help, /h, /?      show this help",
		"/quit, /q, /exit   leave the repl",
	}
	for _, line := range help {
		fmt.Fprintln(os.Stderr, DimStyle.Render("  "+line))
	}
}

// printReplSummary prints a parting line count.
func printReplSummary(s *replSession) {
	if s.opts.Quiet || s.rendered == 0 {
		return
	}
	Hint("%d line(s) rendered", s.rendered)
}

// onOff formats a toggle state.
func onOff(enabled bool) string {
	if enabled {
		return "on"
	}
	return "off"
}
