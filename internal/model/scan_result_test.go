package model

import (
	"strings"
	"testing"
)

// TestNewScanResult tests scan result construction.
func TestNewScanResult(t *testing.T) {
	t.Parallel()

	result := NewScanResult("test@example.com")

	if result.ID == "" {
		t.Error("expected non-empty scan id")
	}
	if result.Input != "test@example.com" {
		t.Errorf("got input %q, expected %q", result.Input, "test@example.com")
	}
	if result.StartedAt.IsZero() {
		t.Error("expected StartedAt to be stamped")
	}
	if !result.CompletedAt.IsZero() {
		t.Error("expected CompletedAt to be zero for a running scan")
	}

	other := NewScanResult("test@example.com")
	if other.ID == result.ID {
		t.Errorf("expected unique scan ids, both were %q", result.ID)
	}
}

// TestScanResultMarkCompleted tests completion stamping and duration.
func TestScanResultMarkCompleted(t *testing.T) {
	t.Parallel()

	result := NewScanResult("j_doe99")

	if result.Duration() != 0 {
		t.Error("expected zero duration before completion")
	}

	result.MarkCompleted()

	if result.CompletedAt.IsZero() {
		t.Error("expected CompletedAt to be stamped")
	}
	if result.CompletedAt.Before(result.StartedAt) {
		t.Error("expected CompletedAt >= StartedAt")
	}
	if result.Duration() < 0 {
		t.Errorf("expected non-negative duration, got %v", result.Duration())
	}
}

// TestGuidanceHasRecommendationTitled tests the case-insensitive theme check.
func TestGuidanceHasRecommendationTitled(t *testing.T) {
	t.Parallel()

	guidance := Guidance{
		Recommendations: []Recommendation{
			{Priority: 1, Title: "Use a Password Manager", Category: CategoryAccountSecurity, Urgency: UrgencyWhenPossible},
		},
	}

	testCases := []struct {
		name     string
		theme    string
		expected bool
	}{
		{"exact case", "Password Manager", true},
		{"lower case", "password manager", true},
		{"upper case", strings.ToUpper("password manager"), true},
		{"absent theme", "two-factor", false},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if guidance.HasRecommendationTitled(tc.theme) != tc.expected {
				t.Errorf("HasRecommendationTitled(%q) = %v, expected %v",
					tc.theme, !tc.expected, tc.expected)
			}
		})
	}
}

// TestNewUnavailableBreachResult tests the degraded breach result shape.
func TestNewUnavailableBreachResult(t *testing.T) {
	t.Parallel()

	result := NewUnavailableBreachResult("no API credential configured")

	if result.Found {
		t.Error("unavailable result must not report found")
	}
	if result.BreachCount != 0 {
		t.Errorf("expected zero breach count, got %d", result.BreachCount)
	}
	if len(result.Sources) != 0 {
		t.Errorf("expected empty sources, got %d", len(result.Sources))
	}
	if result.APIAvailable {
		t.Error("expected APIAvailable=false")
	}
	if result.LimitationNote != "no API credential configured" {
		t.Errorf("got note %q", result.LimitationNote)
	}
	if result.Severity != SeverityLow {
		t.Errorf("expected SeverityLow, got %v", result.Severity)
	}
}

// TestNewCleanBreachResult tests the clean-lookup result shape.
func TestNewCleanBreachResult(t *testing.T) {
	t.Parallel()

	result := NewCleanBreachResult("Have I Been Pwned")

	if result.Found {
		t.Error("clean result must not report found")
	}
	if !result.APIAvailable {
		t.Error("clean result must report the API as available")
	}
	if result.Provider != "Have I Been Pwned" {
		t.Errorf("got provider %q", result.Provider)
	}
	if result.LimitationNote != "" {
		t.Errorf("expected no limitation note, got %q", result.LimitationNote)
	}
}

// TestNewUnanalyzedImageResult tests the degraded image result shape.
func TestNewUnanalyzedImageResult(t *testing.T) {
	t.Parallel()

	result := NewUnanalyzedImageResult("resource returned HTTP 403")

	if result.Analyzed {
		t.Error("expected Analyzed=false")
	}
	if result.RiskLevel != RiskLevelLow {
		t.Errorf("expected low risk, got %v", result.RiskLevel)
	}
	if result.Disclaimer != ImageCheckDisclaimer {
		t.Error("expected the fixed disclaimer to be attached")
	}
	if result.LimitationNote != "resource returned HTTP 403" {
		t.Errorf("got note %q", result.LimitationNote)
	}
	if result.ExposureIndicators == nil {
		t.Error("expected indicators to be an empty slice, not nil")
	}
}
