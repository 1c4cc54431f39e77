// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - The config subcommand: show, path, init.

package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jeranaias/csplens/internal/config"
)

// HandleConfig dispatches the config subcommands.
func HandleConfig(args Args) {
	parser := NewArgParser(args.Raw)

	sub := parser.Subcommand()
	if sub == "" {
		sub = "show"
	}

	switch sub {
	case "show":
		handleConfigShow(args)

	case "path":
		path, err := config.Path()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(path)

	case "init":
		handleConfigInit()

	default:
		fmt.Fprintf(os.Stderr, "Error: unknown config subcommand %q\n", sub)
		fmt.Fprintln(os.Stderr, "Usage: csplens config [show|path|init]")
		os.Exit(1)
	}
}

// handleConfigShow prints the effective configuration. Unlike the other
// commands it loads eagerly and fails loudly, so a broken config file
// shows its parse error here instead of being silently defaulted.
func handleConfigShow(args Args) {
	var (
		cfg    *config.Config
		source string
		err    error
	)
	if args.ConfigPath != "" {
		source = args.ConfigPath
		cfg, err = config.LoadFrom(args.ConfigPath)
	} else {
		source, _ = config.Path()
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fileNote := ""
	if _, statErr := os.Stat(source); statErr != nil {
		fileNote = " (not found, using defaults)"
	}

	caps := GetTerminalCapabilities()

	if args.JSON {
		out := map[string]interface{}{
			"file":   source,
			"config": cfg,
			"terminal": map[string]interface{}{
				"stdout_tty":    caps.IsStdoutTTY,
				"stderr_tty":    caps.IsStderrTTY,
				"width":         caps.Width,
				"color_profile": ProfileName(caps.ColorProfile),
			},
		}
		data, merr := json.MarshalIndent(out, "", "  ")
		if merr != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", merr)
			os.Exit(1)
		}
		fmt.Println(string(data))
		return
	}

	fmt.Printf("file:       %s%s\n", source, fileNote)
	fmt.Printf("multiline:  %v\n", cfg.Multiline)
	fmt.Printf("color:      %s\n", cfg.Color)
	fmt.Printf("theme:      %s\n", cfg.Theme)
	fmt.Printf("scrub:      %v\n", cfg.Scrub)

	if o := colorOverrides(cfg); len(o) > 0 {
		fmt.Println("overrides:")
		for _, line := range o {
			fmt.Println("  " + line)
		}
	}

	fmt.Println()
	fmt.Println("terminal:")
	fmt.Printf("  stdout tty: %v\n", caps.IsStdoutTTY)
	fmt.Printf("  width:      %d\n", caps.Width)
	fmt.Printf("  colors:     %s\n", ProfileName(caps.ColorProfile))
}

// colorOverrides lists the per-slot palette overrides that are set.
func colorOverrides(cfg *config.Config) []string {
	var out []string
	add := func(name, value string) {
		if value != "" {
			out = append(out, fmt.Sprintf("colors.%s = %s", name, value))
		}
	}
	add("name", cfg.Colors.Name)
	add("safe", cfg.Colors.Safe)
	add("unsafe", cfg.Colors.Unsafe)
	add("malformed_fg", cfg.Colors.MalformedFg)
	add("malformed_bg", cfg.Colors.MalformedBg)
	return out
}

// handleConfigInit writes a commented starter config.
func handleConfigInit() {
	dir, err := config.ConfigDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	path := filepath.Join(dir, "config.toml")
	if err := config.WriteDefault(path); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(path)
}
