package model

import "testing"

// TestCorrelationResultFoundCount tests counting of taken identifiers.
func TestCorrelationResultFoundCount(t *testing.T) {
	t.Parallel()

	result := &CorrelationResult{
		Username: "j_doe99",
		Matches: []PlatformMatch{
			{Platform: "github", Available: false, Confidence: 0.8},
			{Platform: "reddit", Available: false, Confidence: 0.3},
			{Platform: "twitter", Available: true, Confidence: 0.7},
			{Platform: "instagram", Available: true, Confidence: 0.2},
		},
		CheckedPlatforms: []string{"github", "reddit", "twitter", "instagram"},
	}

	if got := result.FoundCount(); got != 2 {
		t.Errorf("FoundCount() = %d, expected 2", got)
	}
}

// TestCorrelationResultConfidentFoundCount tests that low-confidence
// found matches are excluded from the confident count.
func TestCorrelationResultConfidentFoundCount(t *testing.T) {
	t.Parallel()

	result := &CorrelationResult{
		Matches: []PlatformMatch{
			{Platform: "github", Available: false, Confidence: 0.8},
			{Platform: "reddit", Available: false, Confidence: 0.5},
			{Platform: "gitlab", Available: false, Confidence: 0.3},
			{Platform: "twitter", Available: true, Confidence: 0.9},
		},
	}

	if got := result.ConfidentFoundCount(0.5); got != 2 {
		t.Errorf("ConfidentFoundCount(0.5) = %d, expected 2", got)
	}
}

// TestCorrelationResultFoundPlatforms tests found platform name listing.
func TestCorrelationResultFoundPlatforms(t *testing.T) {
	t.Parallel()

	result := &CorrelationResult{
		Matches: []PlatformMatch{
			{Platform: "github", Available: false, Confidence: 0.8},
			{Platform: "twitter", Available: true, Confidence: 0.7},
			{Platform: "tiktok", Available: false, Confidence: 0.8},
		},
	}

	got := result.FoundPlatforms()
	expected := []string{"github", "tiktok"}

	if len(got) != len(expected) {
		t.Fatalf("FoundPlatforms() returned %d names, expected %d", len(got), len(expected))
	}
	for i, name := range expected {
		if got[i] != name {
			t.Errorf("FoundPlatforms()[%d] = %q, expected %q", i, got[i], name)
		}
	}
}

// TestPlatformMatchFound tests the registration semantics of Available.
func TestPlatformMatchFound(t *testing.T) {
	t.Parallel()

	taken := PlatformMatch{Platform: "github", Available: false}
	free := PlatformMatch{Platform: "github", Available: true}

	if !taken.Found() {
		t.Error("available=false should mean the identifier was found")
	}
	if free.Found() {
		t.Error("available=true should mean the identifier was not found")
	}
}
