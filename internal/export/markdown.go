// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/csplens/internal/util"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter exports reports to Markdown format.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

// Export converts a report to Markdown format.
func (e *MarkdownExporter) Export(report *Report) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("report is nil")
	}
	if report.GeneratedAt.IsZero() {
		return nil, fmt.Errorf("report has invalid generation timestamp")
	}

	var sb strings.Builder

	// YAML frontmatter with metadata
	if e.options.IncludeMetadata {
		sb.WriteString("---\n")
		sb.WriteString(fmt.Sprintf("id: %s\n", report.ID))
		sb.WriteString(fmt.Sprintf("generated: %s\n", report.GeneratedAt.Format(time.RFC3339)))
		sb.WriteString(fmt.Sprintf("generator: %s\n", report.Generator))
		sb.WriteString(fmt.Sprintf("lines: %d\n", report.Totals.Lines))
		sb.WriteString("---\n\n")
	}

	// Title
	sb.WriteString("# Content Security Policy Report\n\n")

	// Summary section
	sb.WriteString("## Summary\n\n")
	if e.options.IncludeMetadata {
		sb.WriteString(fmt.Sprintf("- **Generated**: %s\n", formatTimestamp(report.GeneratedAt)))
		sb.WriteString(fmt.Sprintf("- **Generator**: %s\n", report.Generator))
	}
	sb.WriteString(fmt.Sprintf("- **Lines scanned**: %d\n", report.Totals.Lines))
	sb.WriteString(fmt.Sprintf("- **Directives**: %d\n", report.Totals.Directives))
	sb.WriteString("\n")

	writeTable(&sb,
		[]string{"Class", "Count"},
		[][]string{
			{"safe", fmt.Sprintf("%d", report.Totals.Safe)},
			{"unsafe", fmt.Sprintf("%d", report.Totals.Unsafe)},
			{"plain", fmt.Sprintf("%d", report.Totals.Plain)},
			{"malformed", fmt.Sprintf("%d", report.Totals.Malformed)},
		})
	sb.WriteString("\n")

	// Per-line findings
	sb.WriteString("## Findings\n\n")

	for i, line := range report.Lines {
		sb.WriteString(fmt.Sprintf("### Line %d\n\n", line.Number))

		if e.options.IncludeInput && line.Input != "" {
			sb.WriteString("```\n")
			sb.WriteString(line.Input)
			sb.WriteString("\n```\n\n")
		}

		if len(line.Directives) == 0 {
			sb.WriteString("_No directives parsed._\n\n")
		} else {
			writeTable(&sb, []string{"Directive", "Source", "Class"}, directiveRows(line.Directives))
			sb.WriteString("\n")
		}

		// Separator between lines (except last)
		if i < len(report.Lines)-1 {
			sb.WriteString("---\n\n")
		}
	}

	// Footer
	sb.WriteString("\n---\n\n")
	sb.WriteString(fmt.Sprintf("*Generated by %s on %s*\n",
		report.Generator,
		report.GeneratedAt.Format("January 2, 2006 at 3:04 PM")))

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// MimeType returns the MIME type for Markdown.
func (e *MarkdownExporter) MimeType() string {
	return "text/markdown"
}

// =============================================================================
// FORMATTING HELPERS
// =============================================================================

// directiveRows flattens directives into table rows, naming the directive
// only on its first source.
func directiveRows(directives []Directive) [][]string {
	var rows [][]string
	for _, dir := range directives {
		name := dir.Name
		if len(dir.Sources) == 0 {
			rows = append(rows, []string{name, "", ""})
			continue
		}
		for _, src := range dir.Sources {
			rows = append(rows, []string{name, src.Value, src.Class})
			name = ""
		}
	}
	return rows
}

// writeTable renders a pipe table with display-width padded columns.
func writeTable(sb *strings.Builder, headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = util.StringWidth(h)
	}

	escaped := make([][]string, 0, len(rows))
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = escapeCell(cell)
			if w := util.StringWidth(cells[i]); w > widths[i] {
				widths[i] = w
			}
		}
		escaped = append(escaped, cells)
	}

	writeRow := func(cells []string) {
		sb.WriteString("|")
		for i, cell := range cells {
			sb.WriteString(" ")
			sb.WriteString(util.PadWidth(cell, widths[i]))
			sb.WriteString(" |")
		}
		sb.WriteString("\n")
	}

	writeRow(headers)
	sb.WriteString("|")
	for _, w := range widths {
		sb.WriteString(strings.Repeat("-", w+2))
		sb.WriteString("|")
	}
	sb.WriteString("\n")
	for _, row := range escaped {
		writeRow(row)
	}
}

// escapeCell escapes characters that would break a Markdown table cell.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}
