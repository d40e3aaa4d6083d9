package score

import (
	"fmt"
	"math"
	"strings"

	"github.com/exposurelab/exposurescan/internal/model"
)

// Signal weights. Each weight is the share a signal contributes to
// maxWeight when its branch fires.
const (
	breachFoundWeight      = 50
	breachCriticalWeight   = 15
	breachCleanWeight      = 20
	correlationFoundWeight = 25
	correlationCleanWeight = 10
	imageFoundWeight       = 30
	imageCleanWeight       = 10
)

// Score contributions and their caps.
const (
	breachCountMultiplier = 2
	breachCountCap        = 20
	breachCriticalBonus   = 15

	correlationMatchMultiplier = 5
	correlationMatchCap        = 25

	imageIndicatorMultiplier = 10
	imageIndicatorCap        = 30
)

// breachFloorScore is the minimum final score whenever breach membership
// was confirmed, regardless of how much clean evidence dilutes the
// percentage.
const breachFloorScore = 20

// severityBaseScores maps breach severity to its base score contribution.
var severityBaseScores = map[model.Severity]int{
	model.SeverityLow:      10,
	model.SeverityMedium:   20,
	model.SeverityHigh:     35,
	model.SeverityCritical: 50,
}

// Compute derives the verdict from whichever lookup results are present.
// It is deterministic: the same inputs always yield the same verdict.
// Factors record exactly which branches fired, in the order breach,
// correlation, image.
func Compute(breach *model.BreachResult, correlation *model.CorrelationResult, image *model.ImageRiskResult) model.Verdict {
	total := 0
	maxWeight := 0
	factors := []model.Factor{}

	addFactor := func(label string, impact model.Impact, points, weight int) {
		total += points
		maxWeight += weight
		factors = append(factors, model.Factor{Label: label, Impact: impact, Weight: weight})
	}

	if breach != nil {
		switch {
		case breach.Found:
			points := severityBaseScores[breach.Severity] + capped(breach.BreachCount*breachCountMultiplier, breachCountCap)
			addFactor(
				fmt.Sprintf("Known data breaches (%d, severity %s)", breach.BreachCount, breach.Severity),
				model.ImpactNegative, points, breachFoundWeight,
			)
			if breach.Severity == model.SeverityCritical {
				addFactor("Sensitive data classes exposed", model.ImpactNegative, breachCriticalBonus, breachCriticalWeight)
			}
		case breach.APIAvailable:
			addFactor("No known data breaches", model.ImpactPositive, 0, breachCleanWeight)
		}
	}

	if correlation != nil {
		found := correlation.FoundCount()
		switch {
		case found >= 1:
			points := capped(found*correlationMatchMultiplier, correlationMatchCap)
			addFactor(
				fmt.Sprintf("Accounts found on %d platforms", found),
				model.ImpactNegative, points, correlationFoundWeight,
			)
		case len(correlation.CheckedPlatforms) > 0:
			addFactor("No matching accounts on checked platforms", model.ImpactNeutral, 0, correlationCleanWeight)
		}
	}

	if image != nil && image.Analyzed {
		indicators := len(image.ExposureIndicators)
		if indicators >= 1 {
			points := capped(indicators*imageIndicatorMultiplier, imageIndicatorCap)
			addFactor(
				fmt.Sprintf("Image found in %d external locations", indicators),
				model.ImpactNegative, points, imageFoundWeight,
			)
		} else {
			addFactor("Image accessible with no known redistribution", model.ImpactNeutral, 0, imageCleanWeight)
		}
	}

	exposure := finalScore(total, maxWeight)
	if breach != nil && breach.Found && exposure < breachFloorScore {
		exposure = breachFloorScore
	}

	tier := model.RiskLevelForScore(exposure)
	return model.Verdict{
		ExposureScore: exposure,
		RiskLevel:     tier,
		Summary:       buildSummary(exposure, tier, len(factors), breach, correlation),
		Factors:       factors,
	}
}

// finalScore converts the accumulated pair into a 0-100 percentage.
func finalScore(total, maxWeight int) int {
	if maxWeight < 1 {
		return 0
	}
	score := int(math.Round(100 * float64(total) / float64(maxWeight)))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// capped bounds a score contribution.
func capped(points, limit int) int {
	if points > limit {
		return limit
	}
	return points
}

// buildSummary renders the verdict explanation. The wording is templated
// by tier and always states the tier, the breach count when membership was
// confirmed, and a closing recommendation appropriate to the tier. A
// verdict with no fired factors states that nothing could be evaluated,
// which is not the same as a clean result.
func buildSummary(exposure int, tier model.RiskLevel, factorCount int, breach *model.BreachResult, correlation *model.CorrelationResult) string {
	if factorCount == 0 && exposure == 0 {
		return "Insufficient information was available to estimate exposure. " +
			"None of the checks could be completed for this input, so the score of 0 reflects an unknown, not a clean result."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Overall digital exposure is %s (%d/100).", tier, exposure)

	if breach != nil && breach.Found {
		if breach.BreachCount == 1 {
			b.WriteString(" The email appears in 1 known data breach.")
		} else {
			fmt.Fprintf(&b, " The email appears in %d known data breaches.", breach.BreachCount)
		}
	}

	if tier != model.RiskLevelLow && correlation != nil {
		if found := correlation.FoundCount(); found >= 1 {
			fmt.Fprintf(&b, " The identifier matched existing accounts on %d of %d checked platforms.",
				found, len(correlation.CheckedPlatforms))
		}
	}

	switch tier {
	case model.RiskLevelHigh:
		b.WriteString(" Immediate action is recommended.")
	case model.RiskLevelMedium:
		b.WriteString(" Review the recommended actions soon.")
	default:
		b.WriteString(" Keep up routine security hygiene to stay at this level.")
	}
	return b.String()
}
