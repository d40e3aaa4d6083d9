package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/exposurelab/exposurescan/internal/correlate"
	"github.com/exposurelab/exposurescan/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: the nao1215/markdown library for fluent markdown
// generation, which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the full report in Markdown format.
func (w *MarkdownWriter) Write(result *model.ScanResult) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, result)
	w.writeVerdict(md, result)
	w.writeBreach(md, result)
	w.writeCorrelation(md, result)
	w.writeImage(md, result)
	w.writeGuidance(md, result)
	w.writeTransparency(md, result)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with scan information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, result *model.ScanResult) {
	md.H1("Exposure Scan Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Input", "`" + result.Input + "`"},
			{"Input Type", string(result.Classification.Type)},
			{"Scan Date", result.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Exposure Score", fmt.Sprintf("%d/100", result.Verdict.ExposureScore)},
			{"Risk Level", w.getRiskText(result.Verdict.RiskLevel)},
		},
	})
	md.PlainText("")
}

// getRiskText returns the risk level with a visual marker.
func (w *MarkdownWriter) getRiskText(level model.RiskLevel) string {
	switch level {
	case model.RiskLevelHigh:
		return "🔴 High"
	case model.RiskLevelMedium:
		return "🟡 Medium"
	case model.RiskLevelLow:
		return "🟢 Low"
	default:
		return string(level)
	}
}

// writeVerdict writes the verdict summary, factor table, and weight chart.
func (w *MarkdownWriter) writeVerdict(md *markdown.Markdown, result *model.ScanResult) {
	md.H2("Verdict")
	md.PlainText("")

	if result.Verdict.Summary != "" {
		md.PlainText(result.Verdict.Summary)
		md.PlainText("")
	}

	if len(result.Verdict.Factors) > 0 {
		rows := make([][]string, len(result.Verdict.Factors))
		for i, factor := range result.Verdict.Factors {
			rows[i] = []string{factor.Label, string(factor.Impact), strconv.Itoa(factor.Weight)}
		}
		md.Table(markdown.TableSet{
			Header: []string{"Factor", "Impact", "Weight"},
			Rows:   rows,
		})
		md.PlainText("")

		w.writeFactorChart(md, result.Verdict.Factors)
	}

	w.writeAlert(md, result)
}

// writeFactorChart writes a mermaid pie chart of factor weights.
func (w *MarkdownWriter) writeFactorChart(md *markdown.Markdown, factors []model.Factor) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Exposure Factor Weights"),
		piechart.WithShowData(true),
	)

	plotted := false
	for _, factor := range factors {
		if factor.Weight > 0 {
			chart.LabelAndIntValue(factor.Label, uint64(factor.Weight))
			plotted = true
		}
	}
	if !plotted {
		return
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an appropriate alert based on the risk level.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, result *model.ScanResult) {
	score := result.Verdict.ExposureScore
	switch {
	case result.Verdict.RiskLevel == model.RiskLevelHigh:
		md.Cautionf(
			"High exposure risk: score %d/100. Immediate action is recommended.",
			score,
		)
	case result.Verdict.RiskLevel == model.RiskLevelMedium:
		md.Warningf(
			"Medium exposure risk: score %d/100. Review the recommended actions soon.",
			score,
		)
	case score > 0:
		md.Note("Low exposure risk. Keep up routine security hygiene.")
	default:
		md.Tip("No significant exposure detected.")
	}
	md.PlainText("")
}

// writeBreach writes the breach lookup section.
func (w *MarkdownWriter) writeBreach(md *markdown.Markdown, result *model.ScanResult) {
	if result.Breach == nil {
		return
	}

	md.H2("Breach Exposure")
	md.PlainText("")

	breach := result.Breach
	if !breach.APIAvailable {
		md.PlainTextf("Breach lookup unavailable: %s.", breach.LimitationNote)
		md.PlainText("")
		return
	}
	if !breach.Found {
		md.PlainText("No known breaches found.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(breach.Sources))
	for i, source := range breach.Sources {
		date := "-"
		if !source.BreachDate.IsZero() {
			date = source.BreachDate.Format("2006-01-02")
		}
		classes := "-"
		if len(source.DataClasses) > 0 {
			classes = strings.Join(source.DataClasses, ", ")
		}
		accounts := "-"
		if source.PwnCount > 0 {
			accounts = strconv.Itoa(source.PwnCount)
		}
		rows[i] = []string{source.Name, date, truncateString(classes, 60), accounts}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Breach", "Date", "Exposed Data", "Accounts"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeCorrelation writes the platform presence section.
func (w *MarkdownWriter) writeCorrelation(md *markdown.Markdown, result *model.ScanResult) {
	if result.Correlation == nil {
		return
	}

	md.H2("Platform Presence")
	md.PlainText("")

	correlation := result.Correlation
	if len(correlation.CheckedPlatforms) == 0 {
		md.PlainTextf("Not checked: %s.", correlation.LimitationNote)
		md.PlainText("")
		return
	}

	md.PlainTextf("Identifier `%s` matched %d of %d checked platforms.",
		correlation.Username, correlation.FoundCount(), len(correlation.CheckedPlatforms))
	md.PlainText("")

	if correlation.FoundCount() == 0 {
		return
	}

	rows := [][]string{}
	for _, match := range correlation.Matches {
		if !match.Found() {
			continue
		}
		rows = append(rows, []string{
			correlate.DisplayName(match.Platform),
			match.URL,
			fmt.Sprintf("%.1f", match.Confidence),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Platform", "Profile URL", "Confidence"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeImage writes the image accessibility section.
func (w *MarkdownWriter) writeImage(md *markdown.Markdown, result *model.ScanResult) {
	if result.Image == nil {
		return
	}

	md.H2("Image Exposure")
	md.PlainText("")

	image := result.Image
	if !image.Analyzed {
		md.PlainTextf("Not analyzed: %s.", image.LimitationNote)
	} else {
		md.PlainText("The image is publicly accessible.")
		if image.SourceDomain != "" {
			md.PlainTextf("Hosted on `%s`.", image.SourceDomain)
		}
		if len(image.ExposureIndicators) > 0 {
			md.PlainTextf("Found in %d external locations.", len(image.ExposureIndicators))
		}
	}
	md.PlainText("")
	md.Note(image.Disclaimer)
	md.PlainText("")
}

// writeGuidance writes the prioritized remediation plan.
func (w *MarkdownWriter) writeGuidance(md *markdown.Markdown, result *model.ScanResult) {
	recommendations := result.Guidance.Recommendations
	if len(recommendations) == 0 {
		return
	}

	md.H2("Recommended Actions")
	md.PlainText("")

	rows := make([][]string, len(recommendations))
	for i, rec := range recommendations {
		rows[i] = []string{
			strconv.Itoa(rec.Priority),
			rec.Title,
			string(rec.Urgency),
			string(rec.Category),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"#", "Action", "Urgency", "Category"},
		Rows:   rows,
	})
	md.PlainText("")

	for _, rec := range recommendations {
		if rec.Description != "" {
			md.Details(rec.Title, rec.Description)
		}
	}
	md.PlainText("")
}

// writeTransparency writes the scan transparency disclosure.
func (w *MarkdownWriter) writeTransparency(md *markdown.Markdown, result *model.ScanResult) {
	transparency := result.Transparency
	if len(transparency.WhatWasChecked) == 0 && len(transparency.WhatWasNotChecked) == 0 {
		return
	}

	md.H2("Scan Transparency")
	md.PlainText("")

	if len(transparency.WhatWasChecked) > 0 {
		md.H3("What Was Checked")
		md.PlainText("")
		md.BulletList(transparency.WhatWasChecked...)
		md.PlainText("")
	}

	if len(transparency.WhatWasNotChecked) > 0 {
		md.H3("What Was Not Checked")
		md.PlainText("")
		md.BulletList(transparency.WhatWasNotChecked...)
		md.PlainText("")
	}

	if len(transparency.DataSources) > 0 {
		md.H3("Data Sources")
		md.PlainText("")
		rows := make([][]string, len(transparency.DataSources))
		for i, source := range transparency.DataSources {
			rows[i] = []string{source.Name, string(source.Type), truncateString(source.Description, 70)}
		}
		md.Table(markdown.TableSet{
			Header: []string{"Source", "Type", "Description"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	if transparency.LegalScope != "" {
		md.PlainText(transparency.LegalScope)
		md.PlainText("")
	}
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [exposurescan](https://github.com/exposurelab/exposurescan)*")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
