package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/exposurelab/exposurescan/internal/correlate"
	"github.com/exposurelab/exposurescan/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting.
//
// Design decision: plain text with ASCII formatting rather than ANSI
// colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether sections for checks that did not run
	// are shown.
	showEmpty bool

	// verbose enables additional detail in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show sections for checks that
// did not apply to the scanned input.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		showEmpty:  false,
		verbose:    false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the full report in human-readable format.
func (w *SimpleWriter) Write(result *model.ScanResult) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, result)
	w.writeVerdict(&sb, result)
	w.writeBreach(&sb, result)
	w.writeCorrelation(&sb, result)
	w.writeImage(&sb, result)
	w.writeGuidance(&sb, result)
	w.writeTransparency(&sb, result)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with scan information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, result *model.ScanResult) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                        EXPOSURESCAN REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Input:          %s\n", result.Input))
	sb.WriteString(fmt.Sprintf("Input Type:     %s (confidence %.2f)\n",
		result.Classification.Type, result.Classification.Confidence))
	sb.WriteString(fmt.Sprintf("Scan Date:      %s\n", result.StartedAt.Format("2006-01-02 15:04:05 MST")))

	if result.CompletedAt.IsZero() {
		sb.WriteString("Status:         INCOMPLETE\n")
	} else {
		sb.WriteString(fmt.Sprintf("Duration:       %s\n", result.Duration().Round(time.Millisecond)))
		sb.WriteString("Status:         Complete\n")
	}

	sb.WriteString("\n")
}

// writeVerdict writes the exposure score, summary, and factors.
func (w *SimpleWriter) writeVerdict(sb *strings.Builder, result *model.ScanResult) {
	w.sectionHeader(sb, "EXPOSURE VERDICT")

	sb.WriteString(fmt.Sprintf("  Score:      %d/100\n", result.Verdict.ExposureScore))
	sb.WriteString(fmt.Sprintf("  Risk Level: %s\n\n", strings.ToUpper(string(result.Verdict.RiskLevel))))

	if result.Verdict.Summary != "" {
		sb.WriteString(fmt.Sprintf("  %s\n\n", result.Verdict.Summary))
	}

	if len(result.Verdict.Factors) > 0 {
		sb.WriteString("  Factors:\n")
		for _, factor := range result.Verdict.Factors {
			indicator := w.getImpactIndicator(factor.Impact)
			sb.WriteString(fmt.Sprintf("    [%s] %s (weight %d)\n", indicator, factor.Label, factor.Weight))
		}
		sb.WriteString("\n")
	}
}

// getImpactIndicator returns a visual indicator for a factor's impact.
func (w *SimpleWriter) getImpactIndicator(impact model.Impact) string {
	switch impact {
	case model.ImpactNegative:
		return "!"
	case model.ImpactPositive:
		return "+"
	case model.ImpactNeutral:
		return "="
	default:
		return "?"
	}
}

// writeBreach writes the breach lookup section.
func (w *SimpleWriter) writeBreach(sb *strings.Builder, result *model.ScanResult) {
	if result.Breach == nil {
		if w.showEmpty {
			w.sectionHeader(sb, "BREACH EXPOSURE")
			sb.WriteString("  Not checked for this input type\n\n")
		}
		return
	}

	w.sectionHeader(sb, "BREACH EXPOSURE")
	breach := result.Breach

	if !breach.APIAvailable {
		sb.WriteString(fmt.Sprintf("  Breach lookup unavailable: %s\n\n", breach.LimitationNote))
		return
	}

	if !breach.Found {
		sb.WriteString("  No known breaches found\n\n")
		return
	}

	plural := "breaches"
	if breach.BreachCount == 1 {
		plural = "breach"
	}
	sb.WriteString(fmt.Sprintf("  %d known %s (severity %s)\n\n", breach.BreachCount, plural, breach.Severity))

	for _, source := range breach.Sources {
		if source.BreachDate.IsZero() {
			sb.WriteString(fmt.Sprintf("  * %s\n", source.Name))
		} else {
			sb.WriteString(fmt.Sprintf("  * %s (%s)\n", source.Name, source.BreachDate.Format("2006-01-02")))
		}
		if len(source.DataClasses) > 0 {
			sb.WriteString(fmt.Sprintf("    Exposed: %s\n", strings.Join(source.DataClasses, ", ")))
		}
		if w.verbose && source.PwnCount > 0 {
			sb.WriteString(fmt.Sprintf("    Affected accounts: %d\n", source.PwnCount))
		}
	}
	sb.WriteString("\n")
}

// writeCorrelation writes the platform presence section.
func (w *SimpleWriter) writeCorrelation(sb *strings.Builder, result *model.ScanResult) {
	if result.Correlation == nil {
		if w.showEmpty {
			w.sectionHeader(sb, "PLATFORM PRESENCE")
			sb.WriteString("  Not checked for this input type\n\n")
		}
		return
	}

	w.sectionHeader(sb, "PLATFORM PRESENCE")
	correlation := result.Correlation

	if len(correlation.CheckedPlatforms) == 0 {
		sb.WriteString(fmt.Sprintf("  Not checked: %s\n\n", correlation.LimitationNote))
		return
	}

	sb.WriteString(fmt.Sprintf("  Identifier %q matched %d of %d checked platforms\n\n",
		correlation.Username, correlation.FoundCount(), len(correlation.CheckedPlatforms)))

	for _, match := range correlation.Matches {
		if match.Found() {
			sb.WriteString(fmt.Sprintf("  * %s  %s (confidence %.1f)\n", correlate.DisplayName(match.Platform), match.URL, match.Confidence))
		} else if w.verbose {
			sb.WriteString(fmt.Sprintf("  - %s  no match (confidence %.1f)\n", correlate.DisplayName(match.Platform), match.Confidence))
		}
	}
	sb.WriteString("\n")
}

// writeImage writes the image accessibility section.
func (w *SimpleWriter) writeImage(sb *strings.Builder, result *model.ScanResult) {
	if result.Image == nil {
		if w.showEmpty {
			w.sectionHeader(sb, "IMAGE EXPOSURE")
			sb.WriteString("  Not checked for this input type\n\n")
		}
		return
	}

	w.sectionHeader(sb, "IMAGE EXPOSURE")
	image := result.Image

	if !image.Analyzed {
		sb.WriteString(fmt.Sprintf("  Not analyzed: %s\n\n", image.LimitationNote))
		sb.WriteString(fmt.Sprintf("  %s\n\n", image.Disclaimer))
		return
	}

	sb.WriteString("  Image is publicly accessible\n")
	if image.SourceDomain != "" {
		sb.WriteString(fmt.Sprintf("  Hosted on: %s\n", image.SourceDomain))
	}
	if len(image.ExposureIndicators) > 0 {
		sb.WriteString(fmt.Sprintf("  Found in %d external locations:\n", len(image.ExposureIndicators)))
		for _, indicator := range image.ExposureIndicators {
			sb.WriteString(fmt.Sprintf("  * %s (confidence %.1f)\n", indicator.Source, indicator.MatchConfidence))
		}
	}
	if w.verbose && image.PerceptualHash != "" {
		sb.WriteString(fmt.Sprintf("  Content identifier: %s\n", image.PerceptualHash))
	}
	sb.WriteString(fmt.Sprintf("\n  %s\n\n", image.Disclaimer))
}

// writeGuidance writes the prioritized remediation plan.
func (w *SimpleWriter) writeGuidance(sb *strings.Builder, result *model.ScanResult) {
	if len(result.Guidance.Recommendations) == 0 {
		return
	}

	w.sectionHeader(sb, "RECOMMENDED ACTIONS")

	for _, rec := range result.Guidance.Recommendations {
		sb.WriteString(fmt.Sprintf("  %2d. [%s] %s\n", rec.Priority, rec.Urgency, rec.Title))
		if rec.Description != "" {
			sb.WriteString(fmt.Sprintf("      %s\n", rec.Description))
		}
	}
	sb.WriteString("\n")
}

// writeTransparency writes the scan transparency disclosure.
func (w *SimpleWriter) writeTransparency(sb *strings.Builder, result *model.ScanResult) {
	transparency := result.Transparency
	if len(transparency.WhatWasChecked) == 0 && len(transparency.WhatWasNotChecked) == 0 {
		return
	}

	w.sectionHeader(sb, "SCAN TRANSPARENCY")

	if len(transparency.WhatWasChecked) > 0 {
		sb.WriteString("  Checked:\n")
		for _, check := range transparency.WhatWasChecked {
			sb.WriteString(fmt.Sprintf("  * %s\n", check))
		}
		sb.WriteString("\n")
	}

	if len(transparency.WhatWasNotChecked) > 0 {
		sb.WriteString("  Not checked:\n")
		for _, check := range transparency.WhatWasNotChecked {
			sb.WriteString(fmt.Sprintf("  * %s\n", check))
		}
		sb.WriteString("\n")
	}

	if len(transparency.DataSources) > 0 {
		sb.WriteString("  Data sources:\n")
		for _, source := range transparency.DataSources {
			sb.WriteString(fmt.Sprintf("  * %s (%s)\n", source.Name, source.Type))
		}
		sb.WriteString("\n")
	}

	if transparency.LegalScope != "" {
		sb.WriteString(fmt.Sprintf("  %s\n\n", transparency.LegalScope))
	}
}

// sectionHeader writes a 70-column section divider.
func (w *SimpleWriter) sectionHeader(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by exposurescan\n")
	sb.WriteString("https://github.com/exposurelab/exposurescan\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
