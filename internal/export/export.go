// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export builds scan reports from classified policies and renders
// them to machine-readable formats.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/csplens/internal/csp"
)

// =============================================================================
// REPORT MODEL
// =============================================================================

// Report is the complete result of a scan run: one entry per input line plus
// aggregate totals.
type Report struct {
	ID          string    `json:"id"`
	GeneratedAt time.Time `json:"generated_at"`
	Generator   string    `json:"generator"`
	Lines       []Line    `json:"lines"`
	Totals      Totals    `json:"totals"`
}

// Line is one scanned input line. Number is 1-based.
type Line struct {
	Number     int         `json:"number"`
	Input      string      `json:"input,omitempty"`
	Directives []Directive `json:"directives"`
}

// Directive is one parsed directive row: the directive name and its
// classified source values.
type Directive struct {
	Name    string   `json:"name"`
	Sources []Source `json:"sources"`
}

// Source is a single classified source value.
type Source struct {
	Value string `json:"value"`
	Class string `json:"class"`
}

// Totals aggregates classification counts across the whole report.
type Totals struct {
	Lines      int `json:"lines"`
	Directives int `json:"directives"`
	Safe       int `json:"safe"`
	Unsafe     int `json:"unsafe"`
	Plain      int `json:"plain"`
	Malformed  int `json:"malformed"`
}

// NewReport creates an empty report stamped with a fresh ID and the
// generator version.
func NewReport(version string) *Report {
	return &Report{
		ID:          uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Generator:   "csplens " + version,
		Lines:       []Line{},
	}
}

// AddLine records one input line and its parsed policy in the report.
func (r *Report) AddLine(input string, policy csp.Policy) {
	line := Line{
		Number:     len(r.Lines) + 1,
		Input:      input,
		Directives: make([]Directive, 0, len(policy)),
	}

	for _, row := range policy {
		dir := Directive{
			Name:    row.Name,
			Sources: make([]Source, 0, len(row.Tokens)),
		}
		for _, tok := range row.Tokens {
			dir.Sources = append(dir.Sources, Source{
				Value: tok.Text,
				Class: tok.Class.String(),
			})
			switch tok.Class {
			case csp.Safe:
				r.Totals.Safe++
			case csp.Unsafe:
				r.Totals.Unsafe++
			case csp.Plain:
				r.Totals.Plain++
			case csp.Malformed:
				r.Totals.Malformed++
			}
		}
		line.Directives = append(line.Directives, dir)
		r.Totals.Directives++
	}

	r.Lines = append(r.Lines, line)
	r.Totals.Lines++
}

// HasUnsafe reports whether the scan found any unsafe source values.
func (r *Report) HasUnsafe() bool {
	return r.Totals.Unsafe > 0
}

// HasMalformed reports whether the scan found any malformed source values.
func (r *Report) HasMalformed() bool {
	return r.Totals.Malformed > 0
}

// =============================================================================
// EXPORT INTERFACE
// =============================================================================

// Exporter defines the interface for report exporters.
type Exporter interface {
	// Export renders a report to the target format and returns the content.
	Export(report *Report) ([]byte, error)

	// FileExtension returns the appropriate file extension (e.g., ".md", ".json").
	FileExtension() string

	// MimeType returns the MIME type for the exported format.
	MimeType() string
}

// ForFormat returns the exporter registered for a format name.
func ForFormat(format string, opts *Options) (Exporter, error) {
	switch format {
	case "json":
		return NewJSONExporter(opts), nil
	case "markdown", "md":
		return NewMarkdownExporter(opts), nil
	default:
		return nil, fmt.Errorf("unknown format %q (want json or markdown)", format)
	}
}

// =============================================================================
// EXPORT OPTIONS
// =============================================================================

// Options configures export behavior.
type Options struct {
	// IncludeMetadata includes the report header (ID, timestamp, generator).
	IncludeMetadata bool

	// IncludeInput embeds each raw input line alongside its findings.
	IncludeInput bool
}

// DefaultOptions returns default export options.
func DefaultOptions() *Options {
	return &Options{
		IncludeMetadata: true,
		IncludeInput:    true,
	}
}

// =============================================================================
// EXPORT FUNCTIONS
// =============================================================================

// ExportToFile renders a report into dir using the exporter, with a
// generated filename. Returns the output file path.
func ExportToFile(report *Report, exporter Exporter, dir string) (string, error) {
	content, err := exporter.Export(report)
	if err != nil {
		return "", fmt.Errorf("export failed: %w", err)
	}

	timestamp := report.GeneratedAt.Format("20060102_150405")
	filename := fmt.Sprintf("csp_report_%s%s", timestamp, exporter.FileExtension())

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	outputPath := filepath.Join(dir, filename)
	if err := os.WriteFile(outputPath, content, 0644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}

	return outputPath, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// formatTimestamp formats a timestamp for display.
func formatTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05 MST")
}
