package score

import (
	"strings"
	"testing"

	"github.com/exposurelab/exposurescan/internal/model"
)

// foundBreach builds a confirmed breach result for scoring tests.
func foundBreach(count int, severity model.Severity) *model.BreachResult {
	sources := make([]model.BreachSource, count)
	for i := range sources {
		sources[i] = model.BreachSource{Name: "Breach" + string(rune('A'+i))}
	}
	return &model.BreachResult{
		Found:        true,
		BreachCount:  count,
		Sources:      sources,
		Severity:     severity,
		APIAvailable: true,
	}
}

// correlationWithFound builds a correlation result with the given number
// of found matches out of checked platforms.
func correlationWithFound(found, checked int) *model.CorrelationResult {
	matches := make([]model.PlatformMatch, checked)
	names := make([]string, checked)
	for i := 0; i < checked; i++ {
		name := "platform" + string(rune('a'+i))
		names[i] = name
		matches[i] = model.PlatformMatch{Platform: name, Available: i >= found, Confidence: 0.8}
	}
	return &model.CorrelationResult{Matches: matches, CheckedPlatforms: names}
}

func analyzedImage(indicators int) *model.ImageRiskResult {
	list := make([]model.ExposureIndicator, indicators)
	for i := range list {
		list[i] = model.ExposureIndicator{Source: "index", MatchConfidence: 0.9}
	}
	return &model.ImageRiskResult{
		Analyzed:           true,
		PerceptualHash:     "abc123",
		ExposureIndicators: list,
		RiskLevel:          model.RiskLevelLow,
		Disclaimer:         model.ImageCheckDisclaimer,
	}
}

func TestComputeBreachSeverityBases(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		severity      model.Severity
		expectedScore int
		expectedRisk  model.RiskLevel
		expectFactors int
	}{
		// One breach: base + min(2*1, 20) points over the breach weight.
		{name: "low severity", severity: model.SeverityLow, expectedScore: 24, expectedRisk: model.RiskLevelLow, expectFactors: 1},
		{name: "medium severity", severity: model.SeverityMedium, expectedScore: 44, expectedRisk: model.RiskLevelMedium, expectFactors: 1},
		{name: "high severity", severity: model.SeverityHigh, expectedScore: 74, expectedRisk: model.RiskLevelHigh, expectFactors: 1},
		// Critical adds the sensitive-data factor and clamps at 100.
		{name: "critical severity", severity: model.SeverityCritical, expectedScore: 100, expectedRisk: model.RiskLevelHigh, expectFactors: 2},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			verdict := Compute(foundBreach(1, tt.severity), nil, nil)
			if verdict.ExposureScore != tt.expectedScore {
				t.Errorf("got score %d, expected %d", verdict.ExposureScore, tt.expectedScore)
			}
			if verdict.RiskLevel != tt.expectedRisk {
				t.Errorf("got risk %q, expected %q", verdict.RiskLevel, tt.expectedRisk)
			}
			if len(verdict.Factors) != tt.expectFactors {
				t.Errorf("got %d factors, expected %d", len(verdict.Factors), tt.expectFactors)
			}
		})
	}
}

func TestComputeBreachFloor(t *testing.T) {
	t.Parallel()

	// A single low-severity breach diluted by clean correlation and image
	// evidence computes to 17 percent; the floor lifts it to 20.
	verdict := Compute(foundBreach(1, model.SeverityLow), correlationWithFound(0, 8), analyzedImage(0))

	if verdict.ExposureScore != 20 {
		t.Errorf("got score %d, expected the floor of 20", verdict.ExposureScore)
	}
	if verdict.RiskLevel != model.RiskLevelLow {
		t.Errorf("got risk %q, expected %q", verdict.RiskLevel, model.RiskLevelLow)
	}
}

func TestComputeBreachFloorHoldsAcrossCombinations(t *testing.T) {
	t.Parallel()

	correlations := []*model.CorrelationResult{nil, correlationWithFound(0, 8), correlationWithFound(3, 8)}
	images := []*model.ImageRiskResult{nil, analyzedImage(0), model.NewUnanalyzedImageResult("unreachable")}

	for _, correlation := range correlations {
		for _, image := range images {
			verdict := Compute(foundBreach(1, model.SeverityLow), correlation, image)
			if verdict.ExposureScore < 20 {
				t.Errorf("score %d fell below the breach floor for correlation=%v image=%v",
					verdict.ExposureScore, correlation, image)
			}
		}
	}
}

func TestComputeContributionCaps(t *testing.T) {
	t.Parallel()

	t.Run("breach count capped", func(t *testing.T) {
		t.Parallel()

		// 15 breaches at high severity: 35 + min(30, 20) = 55 over 50.
		verdict := Compute(foundBreach(15, model.SeverityHigh), nil, nil)
		if verdict.ExposureScore != 100 {
			t.Errorf("got score %d, expected 100", verdict.ExposureScore)
		}
	})

	t.Run("correlation matches capped", func(t *testing.T) {
		t.Parallel()

		// 7 of 8 found: min(35, 25) = 25 over 25, a full correlation signal.
		verdict := Compute(nil, correlationWithFound(7, 8), nil)
		if verdict.ExposureScore != 100 {
			t.Errorf("got score %d, expected 100", verdict.ExposureScore)
		}
	})

	t.Run("image indicators capped", func(t *testing.T) {
		t.Parallel()

		// 5 indicators: min(50, 30) = 30 over 30.
		verdict := Compute(nil, nil, analyzedImage(5))
		if verdict.ExposureScore != 100 {
			t.Errorf("got score %d, expected 100", verdict.ExposureScore)
		}
	})
}

func TestComputeCleanChecksDiluteInsteadOfReward(t *testing.T) {
	t.Parallel()

	// Two found accounts alone: 10 points over weight 25, 40 percent.
	alone := Compute(nil, correlationWithFound(2, 8), nil)
	if alone.ExposureScore != 40 {
		t.Fatalf("got score %d, expected 40", alone.ExposureScore)
	}

	// The same signal next to a clean breach lookup: 10 over 45, 22.
	diluted := Compute(&model.BreachResult{Found: false, APIAvailable: true}, correlationWithFound(2, 8), nil)
	if diluted.ExposureScore != 22 {
		t.Fatalf("got score %d, expected 22", diluted.ExposureScore)
	}
	if diluted.ExposureScore >= alone.ExposureScore {
		t.Error("clean evidence did not dilute the percentage")
	}

	var positive *model.Factor
	for i := range diluted.Factors {
		if diluted.Factors[i].Impact == model.ImpactPositive {
			positive = &diluted.Factors[i]
		}
	}
	if positive == nil {
		t.Fatal("expected the clean breach lookup to appear as a positive factor")
	}
	if positive.Weight != 20 {
		t.Errorf("got clean breach weight %d, expected 20", positive.Weight)
	}
}

func TestComputeNothingEvaluated(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		breach      *model.BreachResult
		correlation *model.CorrelationResult
		image       *model.ImageRiskResult
	}{
		{name: "all absent"},
		{
			name:        "all present but degraded",
			breach:      model.NewUnavailableBreachResult("no credential configured"),
			correlation: &model.CorrelationResult{CheckedPlatforms: []string{}},
			image:       model.NewUnanalyzedImageResult("unreachable"),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			verdict := Compute(tt.breach, tt.correlation, tt.image)
			if verdict.ExposureScore != 0 {
				t.Errorf("got score %d, expected 0", verdict.ExposureScore)
			}
			if verdict.HasFactors() {
				t.Errorf("got %d factors, expected none", len(verdict.Factors))
			}
			if !strings.Contains(verdict.Summary, "Insufficient information") {
				t.Errorf("summary %q does not state that information was insufficient", verdict.Summary)
			}
		})
	}
}

func TestComputeUniqueUsernameIsNeutral(t *testing.T) {
	t.Parallel()

	// Every probe failed: all matches available at 0.2 confidence, zero
	// found. The only contribution is the neutral appears-unique weight.
	matches := make([]model.PlatformMatch, 8)
	names := make([]string, 8)
	for i := range matches {
		names[i] = "platform" + string(rune('a'+i))
		matches[i] = model.PlatformMatch{Platform: names[i], Available: true, Confidence: 0.2}
	}
	correlation := &model.CorrelationResult{Matches: matches, CheckedPlatforms: names, Risk: model.RiskLevelLow}

	verdict := Compute(nil, correlation, nil)
	if verdict.ExposureScore != 0 {
		t.Errorf("got score %d, expected 0", verdict.ExposureScore)
	}
	if verdict.RiskLevel != model.RiskLevelLow {
		t.Errorf("got risk %q, expected %q", verdict.RiskLevel, model.RiskLevelLow)
	}
	if len(verdict.Factors) != 1 {
		t.Fatalf("got %d factors, expected 1", len(verdict.Factors))
	}
	if verdict.Factors[0].Impact != model.ImpactNeutral {
		t.Errorf("got impact %q, expected %q", verdict.Factors[0].Impact, model.ImpactNeutral)
	}
}

func TestComputeFactorOrder(t *testing.T) {
	t.Parallel()

	verdict := Compute(foundBreach(3, model.SeverityCritical), correlationWithFound(5, 8), analyzedImage(2))

	if len(verdict.Factors) != 4 {
		t.Fatalf("got %d factors, expected 4", len(verdict.Factors))
	}

	wantNeedles := []string{"data breaches", "Sensitive data", "Accounts found", "Image found"}
	for i, needle := range wantNeedles {
		if !strings.Contains(verdict.Factors[i].Label, needle) {
			t.Errorf("factor %d label %q misses %q", i, verdict.Factors[i].Label, needle)
		}
		if verdict.Factors[i].Impact != model.ImpactNegative {
			t.Errorf("factor %d: got impact %q, expected %q", i, verdict.Factors[i].Impact, model.ImpactNegative)
		}
	}

	// 71 + 25 + 20 points over 65 + 25 + 30 weight rounds to 97.
	if verdict.ExposureScore != 97 {
		t.Errorf("got score %d, expected 97", verdict.ExposureScore)
	}
	if verdict.RiskLevel != model.RiskLevelHigh {
		t.Errorf("got risk %q, expected %q", verdict.RiskLevel, model.RiskLevelHigh)
	}
}

func TestComputeCriticalBreachScenario(t *testing.T) {
	t.Parallel()

	// Three breach entries at critical severity: 50 + 6 + 15 points over
	// 65 weight clamps to 100 and must clear the breach floor.
	verdict := Compute(foundBreach(3, model.SeverityCritical), nil, nil)

	if verdict.ExposureScore < 20 {
		t.Errorf("got score %d, expected at least the breach floor", verdict.ExposureScore)
	}
	if verdict.ExposureScore != 100 {
		t.Errorf("got score %d, expected 100", verdict.ExposureScore)
	}
	if verdict.RiskLevel != model.RiskLevelHigh {
		t.Errorf("got risk %q, expected %q", verdict.RiskLevel, model.RiskLevelHigh)
	}
	if !strings.Contains(verdict.Summary, "3 known data breaches") {
		t.Errorf("summary %q does not mention the breach count", verdict.Summary)
	}
	if !strings.Contains(verdict.Summary, "Immediate action") {
		t.Errorf("summary %q misses the high-tier closing recommendation", verdict.Summary)
	}
}

func TestComputeSummaryMentionsCorrelationInElevatedTiers(t *testing.T) {
	t.Parallel()

	verdict := Compute(nil, correlationWithFound(3, 8), nil)
	if verdict.RiskLevel == model.RiskLevelLow {
		t.Fatalf("got risk %q, expected an elevated tier", verdict.RiskLevel)
	}
	if !strings.Contains(verdict.Summary, "3 of 8 checked platforms") {
		t.Errorf("summary %q does not mention the platform matches", verdict.Summary)
	}
}

func TestComputeSummarySingleBreachUsesSingular(t *testing.T) {
	t.Parallel()

	verdict := Compute(foundBreach(1, model.SeverityLow), nil, nil)
	if !strings.Contains(verdict.Summary, "1 known data breach.") {
		t.Errorf("summary %q does not mention the single breach", verdict.Summary)
	}
}

func TestComputeDeterminism(t *testing.T) {
	t.Parallel()

	breach := foundBreach(4, model.SeverityHigh)
	correlation := correlationWithFound(2, 8)
	image := analyzedImage(0)

	first := Compute(breach, correlation, image)
	second := Compute(breach, correlation, image)

	if first.ExposureScore != second.ExposureScore {
		t.Errorf("scores differ: %d vs %d", first.ExposureScore, second.ExposureScore)
	}
	if first.Summary != second.Summary {
		t.Errorf("summaries differ: %q vs %q", first.Summary, second.Summary)
	}
	if len(first.Factors) != len(second.Factors) {
		t.Errorf("factor counts differ: %d vs %d", len(first.Factors), len(second.Factors))
	}
}
