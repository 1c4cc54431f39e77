// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command dispatch for csplens.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/jeranaias/csplens/internal/config"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdFilter Command = iota // default: annotate stdin
	CmdREPL
	CmdTUI
	CmdExplain
	CmdScan
	CmdWatch
	CmdConfig
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Multiline  bool
	Scrub      bool
	Quiet      bool
	JSON       bool   // Output in JSON format where supported
	Color      string // auto|always|never; empty means not given
	Theme      string
	ConfigPath string

	// MultilineSet / ScrubSet record whether the flag was given at all,
	// so an explicit --multiline=false can override the config file.
	MultilineSet bool
	ScrubSet     bool

	ShowVersion bool
	ShowHelp    bool

	// Raw args (remaining after global flag parsing)
	Raw []string
}

const usageText = `csplens - Content-Security-Policy header lens

Csplens reads CSP header values from standard input and writes
color-annotated renderings to standard output, one output line per
input line. Pipes stay clean: every hint and error goes to stderr.

Classification:
  safe       'self', 'none'                          green
  unsafe     'unsafe-inline', 'unsafe-eval', data:   red
  plain      contains a host-like pattern            uncolored
  malformed  everything else                         black on red

Usage:
  csplens                    Annotate stdin (default)
  csplens repl               Interactive prompt with input history
  csplens tui                Full-screen policy inspector
  csplens explain [topic]    Directive and keyword reference
  csplens scan [flags]       Scan stdin and emit a report
  csplens watch <file>       Re-render a file whenever it changes
  csplens config [show|path|init]  Configuration management
  csplens version            Show version information
  csplens help               Show this help

Scan Flags:
  --format json|markdown     Report format (default: json)
  --output FILE, -o FILE     Write report to file or directory (default: stdout)
  --fail-on unsafe|malformed Exit 2 when matching findings exist
  --no-input                 Omit raw input lines from Markdown reports

Watch Flags:
  --debounce MS              Coalesce window in milliseconds (default: 200)
  --poll                     Force polling instead of file notifications

Explain Flags:
  --plain                    Raw Markdown without terminal rendering

Global Flags:
  -m, --multiline            One source value per line, tab indented
  --color MODE               Color output: auto, always, never (default: auto)
  --no-color                 Shorthand for --color never
  --theme NAME               Color theme: default, bright
  --scrub                    Strip control bytes from input lines
  --config PATH              Use an alternate config file
  -q, --quiet                Suppress stderr hints
  --json                     JSON output (version, config show)
  -v, --version              Show version
  -h, --help                 Show help

Examples:
  # Basic usage
  curl -sI https://example.com | grep -i content-security-policy | csplens
  cat headers.txt | csplens --multiline
  csplens --no-color < headers.txt | less

  # Reports
  cat headers.txt | csplens scan --format markdown -o report.md
  cat headers.txt | csplens scan --fail-on unsafe && echo clean

  # Live view
  csplens watch /var/log/csp-headers.log --debounce 500

  # Reference
  csplens explain script-src
  csplens explain unsafe-inline

Environment:
  CSPLENS_MULTILINE, CSPLENS_COLOR, CSPLENS_THEME, CSPLENS_SCRUB
  NO_COLOR and FORCE_COLOR are honored in auto mode

Config file:
  ~/.csplens/config.toml (also .yaml or .json)

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion prints version information, as JSON when requested.
func PrintVersion(jsonOutput bool) {
	if jsonOutput {
		info := map[string]string{
			"version":    Version,
			"git_commit": GitCommit,
			"build_date": BuildDate,
			"go_version": runtime.Version(),
			"platform":   runtime.GOOS + "/" + runtime.GOARCH,
		}
		data, _ := json.MarshalIndent(info, "", "  ")
		fmt.Println(string(data))
		return
	}

	fmt.Printf("csplens version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
	fmt.Printf("  Platform:   %s/%s\n", runtime.GOOS, runtime.GOARCH)
}

// Parse parses command-line arguments and returns the command and args.
func Parse() (Command, Args) {
	args := os.Args[1:]

	// Parse global flags first
	remaining, parsedArgs := parseGlobalFlags(args)

	if parsedArgs.ShowHelp {
		return CmdHelp, parsedArgs
	}
	if parsedArgs.ShowVersion {
		return CmdVersion, parsedArgs
	}

	// No remaining args: filter stdin
	if len(remaining) == 0 {
		return CmdFilter, parsedArgs
	}

	// Check first argument for command
	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsedArgs.Raw = remaining

	switch cmd {
	case "filter":
		return CmdFilter, parsedArgs

	case "repl", "shell":
		return CmdREPL, parsedArgs

	case "tui", "ui":
		return CmdTUI, parsedArgs

	case "explain", "doc", "docs":
		// Argument parsing is done in explain.go HandleExplain
		return CmdExplain, parsedArgs

	case "scan", "report":
		// Argument parsing is done in scan.go HandleScan
		return CmdScan, parsedArgs

	case "watch":
		// Argument parsing is done in watch.go HandleWatch
		return CmdWatch, parsedArgs

	case "config", "cfg":
		return CmdConfig, parsedArgs

	case "version":
		return CmdVersion, parsedArgs

	case "help":
		return CmdHelp, parsedArgs

	default:
		// Unknown commands fail loudly instead of silently waiting on stdin.
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n", cmd)
		if suggestion := SuggestCommand(cmd); suggestion != "" {
			fmt.Fprintf(os.Stderr, "Did you mean 'csplens %s'?\n", suggestion)
		}
		fmt.Fprintln(os.Stderr, "Run 'csplens help' for usage.")
		os.Exit(1)
		return CmdHelp, parsedArgs // unreachable
	}
}

// parseGlobalFlags extracts global flags from args and returns remaining args.
func parseGlobalFlags(args []string) ([]string, Args) {
	var remaining []string
	var parsedArgs Args

	i := 0
	for i < len(args) {
		arg := args[i]

		switch arg {
		case "-m", "--multiline":
			parsedArgs.Multiline = true
			parsedArgs.MultilineSet = true
		case "--scrub":
			parsedArgs.Scrub = true
			parsedArgs.ScrubSet = true
		case "-q", "--quiet":
			parsedArgs.Quiet = true
		case "--json":
			parsedArgs.JSON = true
		case "--no-color":
			parsedArgs.Color = config.ColorNever
		case "-v", "--version":
			parsedArgs.ShowVersion = true
		case "-h", "--help":
			parsedArgs.ShowHelp = true
		case "--color":
			if i+1 < len(args) {
				i++
				parsedArgs.Color = strings.ToLower(args[i])
			}
		case "--theme":
			if i+1 < len(args) {
				i++
				parsedArgs.Theme = args[i]
			}
		case "--config":
			if i+1 < len(args) {
				i++
				parsedArgs.ConfigPath = args[i]
			}
		default:
			switch {
			case strings.HasPrefix(arg, "--multiline="):
				if v, err := ParseBoolString(strings.TrimPrefix(arg, "--multiline=")); err == nil {
					parsedArgs.Multiline = v
					parsedArgs.MultilineSet = true
				}
			case strings.HasPrefix(arg, "--scrub="):
				if v, err := ParseBoolString(strings.TrimPrefix(arg, "--scrub=")); err == nil {
					parsedArgs.Scrub = v
					parsedArgs.ScrubSet = true
				}
			case strings.HasPrefix(arg, "--color="):
				parsedArgs.Color = strings.ToLower(strings.TrimPrefix(arg, "--color="))
			case strings.HasPrefix(arg, "--theme="):
				parsedArgs.Theme = strings.TrimPrefix(arg, "--theme=")
			case strings.HasPrefix(arg, "--config="):
				parsedArgs.ConfigPath = strings.TrimPrefix(arg, "--config=")
			default:
				remaining = append(remaining, arg)
			}
		}
		i++
	}

	return remaining, parsedArgs
}

// LoadConfig resolves the effective configuration, honoring --config.
// Load failures are fatal only for an explicitly named file.
func LoadConfig(args Args) *config.Config {
	if args.ConfigPath != "" {
		cfg, err := config.LoadFrom(args.ConfigPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		config.SetGlobal(cfg)
		return cfg
	}
	return config.Global()
}
