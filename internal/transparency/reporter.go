package transparency

import (
	"fmt"
	"time"

	"github.com/exposurelab/exposurescan/internal/model"
)

// LegalScope is the fixed disclosure attached to every report.
const LegalScope = "This scan examines only publicly accessible information: " +
	"public breach notification databases, publicly visible profile pages, and publicly served files. " +
	"No authentication is bypassed, no private systems are accessed, and no data is retained beyond the scan result. " +
	"Findings are best-effort estimates, not verified facts, and must not be used to harass, " +
	"stalk, or discriminate against any person."

// categoricalExclusions lists what no scan can examine. The five entries
// appear on every report in this order.
var categoricalExclusions = []string{
	"Dark web and hidden services",
	"Private or password-protected databases",
	"Encrypted or access-restricted systems",
	"Private social media messages",
	"Non-public company databases",
}

// scoringSource describes the local scoring heuristic. Every report lists
// it so users know part of the result is inference rather than data.
var scoringSource = model.DataSource{
	Name:        "Weighted exposure scoring",
	Type:        model.SourceTypeHeuristic,
	Description: "The exposure score combines the available signals with fixed weights; it is an estimate produced locally, not data from an external source.",
}

// Build assembles the disclosure for a scan from whichever results are
// present. Presence checks only; no result is mutated.
func Build(classification model.InputClassification, breach *model.BreachResult, correlation *model.CorrelationResult, image *model.ImageRiskResult) model.Transparency {
	report := model.Transparency{
		WhatWasChecked:    []string{},
		WhatWasNotChecked: []string{},
		DataSources:       []model.DataSource{},
		LegalScope:        LegalScope,
		Timestamp:         time.Now().UTC(),
	}

	report.WhatWasChecked = append(report.WhatWasChecked,
		fmt.Sprintf("Input type classification (%s)", classification.Type))

	recordBreach(&report, breach)
	recordCorrelation(&report, correlation)
	recordImage(&report, image)

	report.WhatWasNotChecked = append(report.WhatWasNotChecked, categoricalExclusions...)
	report.DataSources = append(report.DataSources, scoringSource)

	return report
}

// recordBreach always produces a line: the breach check is either
// performed or explicitly disclosed as not performed with its reason.
func recordBreach(report *model.Transparency, breach *model.BreachResult) {
	switch {
	case breach == nil:
		report.WhatWasNotChecked = append(report.WhatWasNotChecked,
			"Breach database lookup (no email address was available for this input)")
	case !breach.APIAvailable:
		reason := breach.LimitationNote
		if reason == "" {
			reason = "the breach data provider was unavailable"
		}
		report.WhatWasNotChecked = append(report.WhatWasNotChecked,
			fmt.Sprintf("Breach database lookup (%s)", reason))
	default:
		report.WhatWasChecked = append(report.WhatWasChecked,
			fmt.Sprintf("Breach database lookup (%d known breaches matched)", breach.BreachCount))
		name := breach.Provider
		if name == "" {
			name = "Breach database"
		}
		report.DataSources = append(report.DataSources, model.DataSource{
			Name:        name,
			Type:        model.SourceTypeAPI,
			Description: "Breach membership queried over the provider's public API.",
		})
	}
}

// recordCorrelation adds entries only when platforms were actually probed.
func recordCorrelation(report *model.Transparency, correlation *model.CorrelationResult) {
	if correlation == nil || len(correlation.CheckedPlatforms) == 0 {
		return
	}
	report.WhatWasChecked = append(report.WhatWasChecked,
		fmt.Sprintf("Username availability on %d platforms", len(correlation.CheckedPlatforms)))
	report.DataSources = append(report.DataSources, model.DataSource{
		Name:        "Platform profile probing",
		Type:        model.SourceTypePublicCheck,
		Description: fmt.Sprintf("Lightweight existence probes against %d public profile URLs.", len(correlation.CheckedPlatforms)),
	})
}

// recordImage discloses the accessibility check and, when one was
// produced, the content identifier generation.
func recordImage(report *model.Transparency, image *model.ImageRiskResult) {
	if image == nil {
		return
	}
	if !image.Analyzed {
		reason := image.LimitationNote
		if reason == "" {
			reason = "the image could not be analyzed"
		}
		report.WhatWasNotChecked = append(report.WhatWasNotChecked,
			fmt.Sprintf("Image accessibility (%s)", reason))
		return
	}
	report.WhatWasChecked = append(report.WhatWasChecked, "Image URL accessibility and content type")
	if image.PerceptualHash != "" {
		report.WhatWasChecked = append(report.WhatWasChecked,
			"Content identifier generation for the image")
	}
}
