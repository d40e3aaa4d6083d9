package model

import "testing"

// TestRiskLevelString tests the String method of RiskLevel.
func TestRiskLevelString(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		risk     RiskLevel
		expected string
	}{
		{RiskLevelLow, "low"},
		{RiskLevelMedium, "medium"},
		{RiskLevelHigh, "high"},
		{RiskLevel("critical"), "unknown"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.expected, func(t *testing.T) {
			t.Parallel()
			if tc.risk.String() != tc.expected {
				t.Errorf("got %q, expected %q", tc.risk.String(), tc.expected)
			}
		})
	}
}

// TestRiskLevelRankOrdering tests that risk levels rank correctly.
func TestRiskLevelRankOrdering(t *testing.T) {
	t.Parallel()

	if RiskLevelLow.Rank() >= RiskLevelMedium.Rank() {
		t.Error("expected RiskLevelLow < RiskLevelMedium")
	}
	if RiskLevelMedium.Rank() >= RiskLevelHigh.Rank() {
		t.Error("expected RiskLevelMedium < RiskLevelHigh")
	}
	if RiskLevel("").Rank() >= RiskLevelLow.Rank() {
		t.Error("expected unknown risk to rank below RiskLevelLow")
	}
}

// TestRiskLevelForScore tests the score-to-tier mapping, including the
// boundary values on each side of the thresholds.
func TestRiskLevelForScore(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		score    int
		expected RiskLevel
	}{
		{"zero score is low", 0, RiskLevelLow},
		{"just below medium threshold", 29, RiskLevelLow},
		{"medium threshold", 30, RiskLevelMedium},
		{"just below high threshold", 59, RiskLevelMedium},
		{"high threshold", 60, RiskLevelHigh},
		{"maximum score", 100, RiskLevelHigh},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := RiskLevelForScore(tc.score)
			if got != tc.expected {
				t.Errorf("RiskLevelForScore(%d) = %v, expected %v", tc.score, got, tc.expected)
			}
		})
	}
}
