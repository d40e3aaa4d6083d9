package main

import (
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/exposurelab/exposurescan/internal/database"
	"github.com/exposurelab/exposurescan/internal/model"
)

// TestNewHistoryCmd tests the history command creation.
func TestNewHistoryCmd(t *testing.T) {
	t.Parallel()

	cmd := NewHistoryCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "history [input]" {
			t.Errorf("expected use 'history [input]', got %q", cmd.Use)
		}
	})

	t.Run("has short description", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" {
			t.Error("expected non-empty short description")
		}
	})

	t.Run("has compare flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("compare")
		if flag == nil {
			t.Fatal("expected compare flag")
		}
		if flag.Shorthand != "d" {
			t.Errorf("expected shorthand 'd', got %q", flag.Shorthand)
		}
	})

	t.Run("has limit flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("limit")
		if flag == nil {
			t.Fatal("expected limit flag")
		}
		if flag.Shorthand != "n" {
			t.Errorf("expected shorthand 'n', got %q", flag.Shorthand)
		}
		if flag.DefValue != strconv.Itoa(database.DefaultListLimit) {
			t.Errorf("expected default %d, got %q", database.DefaultListLimit, flag.DefValue)
		}
	})

	t.Run("has json flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("json")
		if flag == nil {
			t.Fatal("expected json flag")
		}
		if flag.Shorthand != "j" {
			t.Errorf("expected shorthand 'j', got %q", flag.Shorthand)
		}
	})
}

// historyScanResult builds a completed scan with the given score, breach
// source names, and found platforms.
func historyScanResult(input string, score int, breaches, platforms []string) *model.ScanResult {
	result := model.NewScanResult(input)
	result.Verdict = model.Verdict{
		ExposureScore: score,
		RiskLevel:     model.RiskLevelForScore(score),
	}

	if len(breaches) > 0 {
		sources := make([]model.BreachSource, 0, len(breaches))
		for _, name := range breaches {
			sources = append(sources, model.BreachSource{Name: name})
		}
		result.Breach = &model.BreachResult{
			Found:       true,
			BreachCount: len(sources),
			Sources:     sources,
		}
	}

	if len(platforms) > 0 {
		matches := make([]model.PlatformMatch, 0, len(platforms))
		for _, name := range platforms {
			matches = append(matches, model.PlatformMatch{
				Platform:   name,
				Available:  false,
				Confidence: 0.9,
			})
		}
		result.Correlation = &model.CorrelationResult{
			Username: input,
			Matches:  matches,
		}
	}

	result.MarkCompleted()
	return result
}

// TestCompareScans tests the scan comparison logic.
func TestCompareScans(t *testing.T) {
	t.Parallel()

	t.Run("detects worsened exposure with new findings", func(t *testing.T) {
		t.Parallel()

		previous := historyScanResult("janedoe", 40,
			[]string{"Adobe", "LinkedIn"},
			[]string{"github", "reddit"})
		current := historyScanResult("janedoe", 55,
			[]string{"Adobe", "Dropbox"},
			[]string{"github", "twitch"})

		comparison := compareScans(previous, current)

		if comparison.Input != "janedoe" {
			t.Errorf("expected input 'janedoe', got %q", comparison.Input)
		}
		if comparison.ScoreDelta != 15 {
			t.Errorf("expected score delta 15, got %d", comparison.ScoreDelta)
		}
		if comparison.Direction != directionWorsened {
			t.Errorf("expected direction %q, got %q", directionWorsened, comparison.Direction)
		}
		if len(comparison.NewBreaches) != 1 || comparison.NewBreaches[0] != "Dropbox" {
			t.Errorf("expected new breaches [Dropbox], got %v", comparison.NewBreaches)
		}
		if len(comparison.ResolvedBreaches) != 1 || comparison.ResolvedBreaches[0] != "LinkedIn" {
			t.Errorf("expected resolved breaches [LinkedIn], got %v", comparison.ResolvedBreaches)
		}
		if len(comparison.NewPlatforms) != 1 || comparison.NewPlatforms[0] != "twitch" {
			t.Errorf("expected new platforms [twitch], got %v", comparison.NewPlatforms)
		}
		if len(comparison.DroppedPlatforms) != 1 || comparison.DroppedPlatforms[0] != "reddit" {
			t.Errorf("expected dropped platforms [reddit], got %v", comparison.DroppedPlatforms)
		}
	})

	t.Run("detects improved exposure", func(t *testing.T) {
		t.Parallel()

		previous := historyScanResult("janedoe", 55, []string{"Adobe"}, nil)
		current := historyScanResult("janedoe", 20, nil, nil)

		comparison := compareScans(previous, current)

		if comparison.ScoreDelta != -35 {
			t.Errorf("expected score delta -35, got %d", comparison.ScoreDelta)
		}
		if comparison.Direction != directionImproved {
			t.Errorf("expected direction %q, got %q", directionImproved, comparison.Direction)
		}
		if len(comparison.ResolvedBreaches) != 1 || comparison.ResolvedBreaches[0] != "Adobe" {
			t.Errorf("expected resolved breaches [Adobe], got %v", comparison.ResolvedBreaches)
		}
		if len(comparison.NewBreaches) != 0 {
			t.Errorf("expected no new breaches, got %v", comparison.NewBreaches)
		}
	})

	t.Run("detects unchanged exposure", func(t *testing.T) {
		t.Parallel()

		previous := historyScanResult("janedoe", 30, []string{"Adobe"}, []string{"github"})
		current := historyScanResult("janedoe", 30, []string{"Adobe"}, []string{"github"})

		comparison := compareScans(previous, current)

		if comparison.ScoreDelta != 0 {
			t.Errorf("expected score delta 0, got %d", comparison.ScoreDelta)
		}
		if comparison.Direction != directionUnchanged {
			t.Errorf("expected direction %q, got %q", directionUnchanged, comparison.Direction)
		}
		if len(comparison.NewBreaches) != 0 || len(comparison.ResolvedBreaches) != 0 ||
			len(comparison.NewPlatforms) != 0 || len(comparison.DroppedPlatforms) != 0 {
			t.Errorf("expected no finding changes, got %+v", comparison)
		}
	})

	t.Run("snapshots carry counts", func(t *testing.T) {
		t.Parallel()

		previous := historyScanResult("janedoe", 40, []string{"Adobe", "LinkedIn"}, []string{"github"})
		current := historyScanResult("janedoe", 40, nil, nil)

		comparison := compareScans(previous, current)

		if comparison.PreviousScan.BreachCount != 2 {
			t.Errorf("expected previous breach count 2, got %d", comparison.PreviousScan.BreachCount)
		}
		if comparison.PreviousScan.PlatformCount != 1 {
			t.Errorf("expected previous platform count 1, got %d", comparison.PreviousScan.PlatformCount)
		}
		if comparison.CurrentScan.BreachCount != 0 {
			t.Errorf("expected current breach count 0, got %d", comparison.CurrentScan.BreachCount)
		}
		if comparison.PreviousScan.ScanID != previous.ID {
			t.Errorf("expected previous scan id %q, got %q", previous.ID, comparison.PreviousScan.ScanID)
		}
	})
}

// TestMissingFrom tests the set difference helper.
func TestMissingFrom(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want []string
		have []string
		diff []string
	}{
		{
			name: "returns entries absent from have",
			want: []string{"a", "b", "c"},
			have: []string{"b"},
			diff: []string{"a", "c"},
		},
		{
			name: "empty want yields nothing",
			want: nil,
			have: []string{"a"},
			diff: nil,
		},
		{
			name: "empty have yields all of want",
			want: []string{"a"},
			have: nil,
			diff: []string{"a"},
		},
		{
			name: "identical slices yield nothing",
			want: []string{"a", "b"},
			have: []string{"a", "b"},
			diff: nil,
		},
		{
			name: "preserves want order",
			want: []string{"c", "a", "b"},
			have: []string{},
			diff: []string{"c", "a", "b"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := missingFrom(tt.want, tt.have)
			if len(got) != len(tt.diff) {
				t.Fatalf("expected %v, got %v", tt.diff, got)
			}
			for i := range got {
				if got[i] != tt.diff[i] {
					t.Errorf("expected %v, got %v", tt.diff, got)
					break
				}
			}
		})
	}
}

// TestFormatFindings tests the findings summary formatting.
func TestFormatFindings(t *testing.T) {
	t.Parallel()

	t.Run("summarizes all finding kinds", func(t *testing.T) {
		t.Parallel()

		result := historyScanResult("janedoe", 60, []string{"Adobe", "LinkedIn", "Dropbox"}, []string{"github", "reddit"})
		result.Image = &model.ImageRiskResult{Analyzed: true}

		got := formatFindings(result)
		if got != "B:3 P:2 img" {
			t.Errorf("expected 'B:3 P:2 img', got %q", got)
		}
	})

	t.Run("reports no findings", func(t *testing.T) {
		t.Parallel()

		result := historyScanResult("janedoe", 0, nil, nil)
		if got := formatFindings(result); got != "No findings" {
			t.Errorf("expected 'No findings', got %q", got)
		}
	})

	t.Run("skips empty sections", func(t *testing.T) {
		t.Parallel()

		result := historyScanResult("janedoe", 10, nil, []string{"github"})
		result.Breach = &model.BreachResult{Found: false, BreachCount: 0}
		result.Image = &model.ImageRiskResult{Analyzed: false}

		if got := formatFindings(result); got != "P:1" {
			t.Errorf("expected 'P:1', got %q", got)
		}
	})
}

// TestFormatDirection tests the direction display formatting.
func TestFormatDirection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		direction string
		expected  string
	}{
		{directionImproved, "IMPROVED (score decreased)"},
		{directionWorsened, "WORSENED (score increased)"},
		{directionUnchanged, "UNCHANGED"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.direction, func(t *testing.T) {
			t.Parallel()
			if got := formatDirection(tt.direction); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

// TestFormatDelta tests the delta formatting.
func TestFormatDelta(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		delta    int
		expected string
	}{
		{name: "positive delta", delta: 5, expected: "+5"},
		{name: "negative delta", delta: -3, expected: "-3"},
		{name: "zero delta", delta: 0, expected: "0"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := formatDelta(tt.delta); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

// TestShortID tests the id truncation for table display.
func TestShortID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		id       string
		expected string
	}{
		{name: "truncates long id", id: "0123456789abcdef", expected: "01234567"},
		{name: "keeps short id", id: "abc", expected: "abc"},
		{name: "keeps exact length id", id: "01234567", expected: "01234567"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := shortID(tt.id); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

// TestCompareLatestScans tests the comparison preconditions against a real
// database.
func TestCompareLatestScans(t *testing.T) {
	t.Parallel()

	t.Run("fails without history", func(t *testing.T) {
		t.Parallel()

		db, err := database.Open(t.TempDir(), database.DefaultOptions())
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		t.Cleanup(func() { _ = db.Close() })

		err = compareLatestScans(context.Background(), db, "nobody", false)
		if err == nil {
			t.Fatal("expected error without history")
		}
		if !strings.Contains(err.Error(), "no scan history") {
			t.Errorf("expected 'no scan history' error, got %v", err)
		}
	})

	t.Run("fails with a single scan", func(t *testing.T) {
		t.Parallel()

		db, err := database.Open(t.TempDir(), database.DefaultOptions())
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		t.Cleanup(func() { _ = db.Close() })

		result := historyScanResult("janedoe", 30, nil, nil)
		if err := db.SaveScanResult(context.Background(), result); err != nil {
			t.Fatalf("SaveScanResult() error = %v", err)
		}

		err = compareLatestScans(context.Background(), db, "janedoe", false)
		if err == nil {
			t.Fatal("expected error with a single scan")
		}
		if !strings.Contains(err.Error(), "at least 2 scans") {
			t.Errorf("expected 'at least 2 scans' error, got %v", err)
		}
	})
}
