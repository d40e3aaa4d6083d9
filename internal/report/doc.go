// Package report renders completed scan results in multiple output
// formats: human-readable text for the terminal, JSON for tool
// integration, and GitHub-flavored Markdown for documentation and
// sharing. All writers render the same model.ScanResult; the format is
// the only difference.
package report
