// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// scan.go - Batch classification with exportable reports.

package cli

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jeranaias/csplens/internal/csp"
	"github.com/jeranaias/csplens/internal/export"
	"github.com/jeranaias/csplens/internal/util"
)

// HandleScan reads stdin like the filter does, but accumulates a report
// instead of rendering, then writes it in the requested format.
//
// Exit codes: 0 clean, 1 operational error, 2 findings matched --fail-on.
func HandleScan(args Args) {
	parser := NewArgParser(args.Raw)

	format := strings.ToLower(parser.FlagOrDefault("format", "json"))
	failOn := strings.ToLower(parser.Flag("fail-on"))
	output := parser.FlagOrDefault("output", parser.Flag("o"))

	switch failOn {
	case "", "unsafe", "malformed":
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid --fail-on value %q (want unsafe or malformed)\n", failOn)
		os.Exit(1)
	}

	exportOpts := export.DefaultOptions()
	if parser.BoolFlag("no-input") {
		exportOpts.IncludeInput = false
	}

	exporter, err := export.ForFormat(format, exportOpts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg := LoadConfig(args)
	opts := ResolveOptions(args, cfg)

	report, err := buildReport(os.Stdin, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	dest, err := writeReport(report, exporter, output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if !opts.Quiet {
		printScanSummary(report, dest)
	}

	if shouldFail(report, failOn) {
		os.Exit(2)
	}
}

// buildReport classifies every input line into a fresh report.
func buildReport(r io.Reader, opts Options) (*export.Report, error) {
	report := export.NewReport(Version)

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
		report.AddLine(line, csp.ParseLine(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return report, nil
}

// writeReport delivers the rendered report: stdout by default, an exact
// file path, or a generated filename when output names a directory.
// Returns a description of where the report went.
func writeReport(report *export.Report, exporter export.Exporter, output string) (string, error) {
	if output == "" {
		content, err := exporter.Export(report)
		if err != nil {
			return "", fmt.Errorf("export failed: %w", err)
		}
		if !bytes.HasSuffix(content, []byte("\n")) {
			content = append(content, '\n')
		}
		if _, err := os.Stdout.Write(content); err != nil {
			return "", fmt.Errorf("write report: %w", err)
		}
		return "stdout", nil
	}

	if info, err := os.Stat(output); err == nil && info.IsDir() {
		return export.ExportToFile(report, exporter, output)
	}

	content, err := exporter.Export(report)
	if err != nil {
		return "", fmt.Errorf("export failed: %w", err)
	}
	if err := os.WriteFile(output, content, 0644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return output, nil
}

// printScanSummary prints a one-line result to stderr.
func printScanSummary(report *export.Report, dest string) {
	status := "ok"
	if report.HasUnsafe() {
		status = "warn"
	}
	if report.HasMalformed() {
		status = "fail"
	}

	t := report.Totals
	fmt.Fprintf(os.Stderr, "%s scanned %d line(s), %d directive(s): %d safe, %d unsafe, %d plain, %d malformed -> %s\n",
		RenderStatus(status), t.Lines, t.Directives, t.Safe, t.Unsafe, t.Plain, t.Malformed, dest)
}

// shouldFail decides the exit-2 condition. Malformed counts as at least
// as bad as unsafe, so --fail-on unsafe trips on either.
func shouldFail(report *export.Report, failOn string) bool {
	switch failOn {
	case "unsafe":
		return report.HasUnsafe() || report.HasMalformed()
	case "malformed":
		return report.HasMalformed()
	}
	return false
}
