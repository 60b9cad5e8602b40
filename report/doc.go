// Package report renders extracted workflows and coverage reports.
//
// JSON output is an indented array of {"normalized_path", "variant_count"}
// objects. Markdown and HTML produce a table document, HTML being the
// markdown rendered with gomarkdown and sanitized with bluemonday. Text
// draws a lipgloss table for terminals.
package report
