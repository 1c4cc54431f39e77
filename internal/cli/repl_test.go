// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"testing"

	"github.com/muesli/termenv"

	"github.com/jeranaias/csplens/internal/config"
	"github.com/jeranaias/csplens/internal/render"
	"github.com/jeranaias/csplens/internal/util"
)

func newTestSession(t *testing.T) *replSession {
	t.Helper()
	t.Setenv("NO_COLOR", "")
	t.Setenv("FORCE_COLOR", "")

	cfg := config.Default()
	s := &replSession{
		cfg:       cfg,
		opts:      plainOptions(),
		themeName: cfg.Theme,
		colorMode: config.ColorNever,
		scrubber:  util.NewScrubber(),
	}
	s.renderer = render.New(s.opts.Theme)
	return s
}

func TestHandleReplCommand_Toggles(t *testing.T) {
	s := newTestSession(t)

	if !handleReplCommand(s, "/multiline") {
		t.Fatal("/multiline should keep the session alive")
	}
	if !s.opts.Multiline {
		t.Error("first /multiline should enable")
	}
	handleReplCommand(s, "/m")
	if s.opts.Multiline {
		t.Error("second toggle should disable")
	}

	handleReplCommand(s, "/scrub")
	if !s.opts.Scrub {
		t.Error("/scrub should enable scrubbing")
	}
}

func TestHandleReplCommand_Color(t *testing.T) {
	s := newTestSession(t)

	handleReplCommand(s, "/color always")
	if s.colorMode != config.ColorAlways {
		t.Errorf("colorMode = %q", s.colorMode)
	}
	if s.opts.Profile == termenv.Ascii {
		t.Error("always should rebuild onto a colored profile")
	}

	handleReplCommand(s, "/color never")
	if s.opts.Profile != termenv.Ascii {
		t.Error("never should rebuild onto Ascii")
	}

	// Invalid mode leaves the session untouched.
	before := s.colorMode
	handleReplCommand(s, "/color sometimes")
	if s.colorMode != before {
		t.Error("invalid mode must not change the session")
	}
}

func TestHandleReplCommand_Theme(t *testing.T) {
	s := newTestSession(t)

	handleReplCommand(s, "/theme bright")
	if s.themeName != "bright" {
		t.Errorf("themeName = %q", s.themeName)
	}

	handleReplCommand(s, "/theme neon")
	if s.themeName != "bright" {
		t.Error("unknown theme must not change the session")
	}
}

func TestHandleReplCommand_Quit(t *testing.T) {
	s := newTestSession(t)

	for _, cmd := range []string{"/quit", "/q", "/exit"} {
		if handleReplCommand(s, cmd) {
			t.Errorf("%s should end the session", cmd)
		}
	}

	// Unknown and help commands keep it alive.
	for _, cmd := range []string{"/help", "/h", "/?", "/", "/bogus"} {
		if !handleReplCommand(s, cmd) {
			t.Errorf("%s should keep the session alive", cmd)
		}
	}
}

func TestReplSession_Rebuild(t *testing.T) {
	s := newTestSession(t)
	s.colorMode = config.ColorAlways
	s.themeName = "bright"
	s.rebuild()

	if s.opts.Profile == termenv.Ascii {
		t.Error("rebuild with always should not land on Ascii")
	}
	if s.renderer == nil {
		t.Fatal("rebuild must replace the renderer")
	}

	// The renderer must carry the rebuilt theme, not the original.
	if s.renderer.Theme().Profile() != s.opts.Profile {
		t.Error("renderer theme out of sync with session profile")
	}
}

func TestOnOff(t *testing.T) {
	if onOff(true) != "on" || onOff(false) != "off" {
		t.Error("onOff misformats")
	}
}
