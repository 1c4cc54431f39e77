// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line interface parsing and execution for csplens.
//
// This package implements all CLI commands for the csplens line filter,
// covering both the non-interactive pipe mode and the interactive surfaces
// (REPL, watcher) built on top of it.
//
// # Key Types
//
//   - Command: Enumeration of all available CLI commands
//   - Args: Parsed command-line arguments with global flags
//   - Options: Resolved runtime options (flags > environment > config file)
//
// # Usage
//
// Parse and execute commands:
//
//	cmd, args := cli.Parse()
//	switch cmd {
//	case cli.CmdFilter:
//	    cli.HandleFilter(args)
//	case cli.CmdScan:
//	    cli.HandleScan(args)
//	// ... other commands
//	}
//
// # Commands Overview
//
// Core Commands:
//   - filter: Annotate CSP header values from stdin (default)
//   - repl: Interactive prompt with input history
//   - explain: Directive and source keyword reference
//   - scan: Batch classification with JSON/Markdown reports
//   - watch: Re-render a file whenever it changes
//   - config: Configuration management
//
// Output discipline: annotated payload goes to stdout, all hints and
// errors go to stderr, so pipes stay clean.
package cli
