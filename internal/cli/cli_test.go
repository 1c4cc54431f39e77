// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"os"
	"reflect"
	"testing"
)

// =============================================================================
// COMMAND PARSING
// =============================================================================

func TestParse_Commands(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCmd  Command
		validate func(*testing.T, Args)
	}{
		{
			name:    "no args defaults to filter",
			args:    []string{},
			wantCmd: CmdFilter,
		},
		{
			name:    "explicit filter",
			args:    []string{"filter"},
			wantCmd: CmdFilter,
		},
		{
			name:    "repl",
			args:    []string{"repl"},
			wantCmd: CmdREPL,
		},
		{
			name:    "shell alias for repl",
			args:    []string{"shell"},
			wantCmd: CmdREPL,
		},
		{
			name:    "tui",
			args:    []string{"tui"},
			wantCmd: CmdTUI,
		},
		{
			name:    "explain with topic",
			args:    []string{"explain", "script-src"},
			wantCmd: CmdExplain,
			validate: func(t *testing.T, a Args) {
				if !reflect.DeepEqual(a.Raw, []string{"script-src"}) {
					t.Errorf("Raw = %v, want [script-src]", a.Raw)
				}
			},
		},
		{
			name:    "scan with flags",
			args:    []string{"scan", "--format", "markdown"},
			wantCmd: CmdScan,
			validate: func(t *testing.T, a Args) {
				if !reflect.DeepEqual(a.Raw, []string{"--format", "markdown"}) {
					t.Errorf("Raw = %v", a.Raw)
				}
			},
		},
		{
			name:    "watch with path",
			args:    []string{"watch", "headers.log"},
			wantCmd: CmdWatch,
		},
		{
			name:    "config subcommand",
			args:    []string{"config", "show"},
			wantCmd: CmdConfig,
		},
		{
			name:    "version word",
			args:    []string{"version"},
			wantCmd: CmdVersion,
		},
		{
			name:    "version flag",
			args:    []string{"--version"},
			wantCmd: CmdVersion,
		},
		{
			name:    "short version flag",
			args:    []string{"-v"},
			wantCmd: CmdVersion,
		},
		{
			name:    "help word",
			args:    []string{"help"},
			wantCmd: CmdHelp,
		},
		{
			name:    "short help flag",
			args:    []string{"-h"},
			wantCmd: CmdHelp,
		},
		{
			name:    "multiline flag stays filter",
			args:    []string{"--multiline"},
			wantCmd: CmdFilter,
			validate: func(t *testing.T, a Args) {
				if !a.Multiline || !a.MultilineSet {
					t.Error("Multiline should be set")
				}
			},
		},
		{
			name:    "global flags before command",
			args:    []string{"-m", "--theme", "bright", "scan", "--format", "json"},
			wantCmd: CmdScan,
			validate: func(t *testing.T, a Args) {
				if !a.Multiline {
					t.Error("Multiline should be true")
				}
				if a.Theme != "bright" {
					t.Errorf("Theme = %q, want bright", a.Theme)
				}
				if !reflect.DeepEqual(a.Raw, []string{"--format", "json"}) {
					t.Errorf("Raw = %v", a.Raw)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Save and restore os.Args
			oldArgs := os.Args
			defer func() { os.Args = oldArgs }()
			os.Args = append([]string{"csplens"}, tt.args...)

			cmd, args := Parse()
			if cmd != tt.wantCmd {
				t.Errorf("Parse() cmd = %v, want %v", cmd, tt.wantCmd)
			}
			if tt.validate != nil {
				tt.validate(t, args)
			}
		})
	}
}

// =============================================================================
// GLOBAL FLAGS
// =============================================================================

func TestParseGlobalFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		validate func(*testing.T, []string, Args)
	}{
		{
			name: "multiline short and long",
			args: []string{"-m"},
			validate: func(t *testing.T, rem []string, a Args) {
				if !a.Multiline || !a.MultilineSet {
					t.Error("expected multiline set")
				}
			},
		},
		{
			name: "explicit multiline false",
			args: []string{"--multiline=false"},
			validate: func(t *testing.T, rem []string, a Args) {
				if a.Multiline {
					t.Error("Multiline should be false")
				}
				if !a.MultilineSet {
					t.Error("MultilineSet should be true so config is overridden")
				}
			},
		},
		{
			name: "color with value",
			args: []string{"--color", "never"},
			validate: func(t *testing.T, rem []string, a Args) {
				if a.Color != "never" {
					t.Errorf("Color = %q", a.Color)
				}
			},
		},
		{
			name: "color equals form normalizes case",
			args: []string{"--color=ALWAYS"},
			validate: func(t *testing.T, rem []string, a Args) {
				if a.Color != "always" {
					t.Errorf("Color = %q", a.Color)
				}
			},
		},
		{
			name: "no-color shorthand",
			args: []string{"--no-color"},
			validate: func(t *testing.T, rem []string, a Args) {
				if a.Color != "never" {
					t.Errorf("Color = %q, want never", a.Color)
				}
			},
		},
		{
			name: "scrub and quiet and json",
			args: []string{"--scrub", "-q", "--json"},
			validate: func(t *testing.T, rem []string, a Args) {
				if !a.Scrub || !a.ScrubSet || !a.Quiet || !a.JSON {
					t.Errorf("unexpected args: %+v", a)
				}
			},
		},
		{
			name: "config path",
			args: []string{"--config", "/tmp/alt.toml"},
			validate: func(t *testing.T, rem []string, a Args) {
				if a.ConfigPath != "/tmp/alt.toml" {
					t.Errorf("ConfigPath = %q", a.ConfigPath)
				}
			},
		},
		{
			name: "unknown flags pass through",
			args: []string{"scan", "--format", "json", "-o", "out.json"},
			validate: func(t *testing.T, rem []string, a Args) {
				want := []string{"scan", "--format", "json", "-o", "out.json"}
				if !reflect.DeepEqual(rem, want) {
					t.Errorf("remaining = %v, want %v", rem, want)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remaining, args := parseGlobalFlags(tt.args)
			tt.validate(t, remaining, args)
		})
	}
}

// =============================================================================
// ARG PARSER
// =============================================================================

func TestArgParser(t *testing.T) {
	parser := NewArgParser([]string{"show", "extra", "--format", "markdown", "--fail-on=unsafe", "--no-input"})

	if parser.Subcommand() != "show" {
		t.Errorf("Subcommand() = %q, want show", parser.Subcommand())
	}
	if got := parser.Flag("format"); got != "markdown" {
		t.Errorf("Flag(format) = %q", got)
	}
	if got := parser.Flag("fail-on"); got != "unsafe" {
		t.Errorf("Flag(fail-on) = %q", got)
	}
	if !parser.BoolFlag("no-input") {
		t.Error("BoolFlag(no-input) should be true")
	}
	if parser.BoolFlag("missing") {
		t.Error("BoolFlag(missing) should be false")
	}
	if got := parser.Positional(1); got != "extra" {
		t.Errorf("Positional(1) = %q", got)
	}
	if got := parser.PositionalCount(); got != 2 {
		t.Errorf("PositionalCount() = %d, want 2", got)
	}
	if !parser.HasFlag("format") || !parser.HasFlag("no-input") || parser.HasFlag("absent") {
		t.Error("HasFlag misbehaves")
	}
}

func TestArgParser_ShortFlagWithValue(t *testing.T) {
	parser := NewArgParser([]string{"-o", "report.json"})

	if got := parser.Flag("o"); got != "report.json" {
		t.Errorf("Flag(o) = %q", got)
	}
	if parser.PositionalCount() != 0 {
		t.Errorf("value should not count as positional: %v", parser.PositionalFrom(0))
	}
}

func TestArgParser_ExplicitBool(t *testing.T) {
	parser := NewArgParser([]string{"--poll=false", "--json=true"})

	if parser.BoolFlag("poll") {
		t.Error("poll=false should parse as false")
	}
	if !parser.BoolFlag("json") {
		t.Error("json=true should parse as true")
	}
}

func TestArgParser_FlagIntOrDefault(t *testing.T) {
	parser := NewArgParser([]string{"--debounce", "500", "--bad", "xyz"})

	if got := parser.FlagIntOrDefault("debounce", 200); got != 500 {
		t.Errorf("FlagIntOrDefault(debounce) = %d, want 500", got)
	}
	if got := parser.FlagIntOrDefault("bad", 200); got != 200 {
		t.Errorf("FlagIntOrDefault(bad) = %d, want default 200", got)
	}
	if got := parser.FlagIntOrDefault("absent", 7); got != 7 {
		t.Errorf("FlagIntOrDefault(absent) = %d, want 7", got)
	}
}

// =============================================================================
// HELPERS
// =============================================================================

func TestParseBoolString(t *testing.T) {
	trueValues := []string{"true", "TRUE", "yes", "y", "1", "on", " On "}
	for _, v := range trueValues {
		got, err := ParseBoolString(v)
		if err != nil || !got {
			t.Errorf("ParseBoolString(%q) = %v, %v; want true", v, got, err)
		}
	}

	falseValues := []string{"false", "no", "n", "0", "off", "OFF"}
	for _, v := range falseValues {
		got, err := ParseBoolString(v)
		if err != nil || got {
			t.Errorf("ParseBoolString(%q) = %v, %v; want false", v, got, err)
		}
	}

	if _, err := ParseBoolString("maybe"); err == nil {
		t.Error("ParseBoolString(maybe) should fail")
	}
}

func TestParseIntWithValidation(t *testing.T) {
	if v, err := ParseIntWithValidation("500", "debounce"); err != nil || v != 500 {
		t.Errorf("got %d, %v", v, err)
	}
	for _, bad := range []string{"", "0", "-5", "abc"} {
		if _, err := ParseIntWithValidation(bad, "debounce"); err == nil {
			t.Errorf("ParseIntWithValidation(%q) should fail", bad)
		}
	}
}

func TestSuggestCommand(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"rpel", "repl"},
		{"scna", "scan"},
		{"watc", "watch"},
		{"confg", "config"},
		{"explian", "explain"},
		{"x", ""},           // too short
		{"zzzzzzzzz", ""},   // nothing close
	}

	for _, tt := range tests {
		if got := SuggestCommand(tt.input); got != tt.want {
			t.Errorf("SuggestCommand(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
