package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/exposurelab/exposurescan/internal/config"
	"github.com/exposurelab/exposurescan/internal/database"
	"github.com/exposurelab/exposurescan/internal/model"
)

// Exposure change directions.
const (
	directionWorsened  = "worsened"
	directionImproved  = "improved"
	directionUnchanged = "unchanged"
)

// shortIDLen is how many characters of the scan id are shown in tables.
const shortIDLen = 8

// NewHistoryCmd creates the history command.
// This command lists stored scans and compares them over time.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [input]",
		Short: "List stored scans and compare exposure over time",
		Long: `History lists scan results stored in the local database.

Without arguments it shows the most recent scans across all inputs.
With an input it shows every stored scan of that input, newest first.
With --compare it diffs the two most recent scans of the input: the
exposure score change, breaches that appeared or were resolved, and
platforms where the identifier appeared or disappeared.

Examples:
  # List recent scans across all inputs
  exposurescan history

  # List all scans of one input
  exposurescan history jane.doe@example.com

  # Compare the two most recent scans of an input
  exposurescan history --compare jane.doe@example.com

  # Output in JSON format
  exposurescan history --json jane.doe@example.com`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().BoolP("compare", "d", false,
		"Compare the two most recent scans of the input")
	cmd.Flags().IntP("limit", "n", database.DefaultListLimit,
		"Maximum number of scans to list")
	cmd.Flags().BoolP("json", "j", false,
		"Output in JSON format")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	compare, err := cmd.Flags().GetBool("compare")
	if err != nil {
		return err
	}
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	if compare && len(args) == 0 {
		return errors.New("an input is required for comparison (run 'exposurescan history' to see scanned inputs)")
	}

	// Use XDG data directory for database
	db, err := database.Open(config.XDGDataDir(), database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	if len(args) == 0 {
		return listRecentScans(ctx, db, limit, jsonOutput)
	}

	input := strings.TrimSpace(args[0])
	if compare {
		return compareLatestScans(ctx, db, input, jsonOutput)
	}
	return listInputHistory(ctx, db, input, jsonOutput)
}

// listRecentScans lists the most recent scans across all inputs.
func listRecentScans(ctx context.Context, db *database.ScanDB, limit int, jsonOutput bool) error {
	summaries, err := db.ListScans(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to list scans: %w", err)
	}

	if jsonOutput {
		return outputJSON(summaries)
	}

	if len(summaries) == 0 {
		fmt.Println("No scans found in the database.")
		fmt.Println("\nUse 'exposurescan scan <input>' to scan an email, username, or image URL.")
		return nil
	}

	fmt.Printf("Recent scans (%d):\n\n", len(summaries))
	fmt.Printf("  %-8s  %-19s  %-9s  %-7s  %-6s  %s\n",
		"ID", "Date", "Type", "Score", "Risk", "Input")
	fmt.Println("  " + strings.Repeat("-", 70))

	for _, summary := range summaries {
		fmt.Printf("  %-8s  %-19s  %-9s  %-7s  %-6s  %s\n",
			shortID(summary.ID),
			summary.CreatedAt.Format("2006-01-02 15:04:05"),
			summary.InputType,
			fmt.Sprintf("%d/100", summary.ExposureScore),
			summary.RiskLevel,
			summary.Input,
		)
	}

	fmt.Println("\nUse 'exposurescan history <input>' to see all scans of one input.")

	return nil
}

// listInputHistory lists every stored scan of one input, newest first.
func listInputHistory(ctx context.Context, db *database.ScanDB, input string, jsonOutput bool) error {
	results, err := db.ScanHistory(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to get scan history: %w", err)
	}

	if jsonOutput {
		return outputJSON(results)
	}

	if len(results) == 0 {
		fmt.Printf("No scan history found for %s\n", input)
		fmt.Println("\nUse 'exposurescan scan' to scan this input.")
		return nil
	}

	fmt.Printf("Scan history for %s (%d scans):\n\n", input, len(results))
	fmt.Printf("  %-8s  %-19s  %-7s  %-6s  %s\n",
		"ID", "Date", "Score", "Risk", "Findings")
	fmt.Println("  " + strings.Repeat("-", 64))

	for _, result := range results {
		fmt.Printf("  %-8s  %-19s  %-7s  %-6s  %s\n",
			shortID(result.ID),
			result.CompletedAt.Format("2006-01-02 15:04:05"),
			fmt.Sprintf("%d/100", result.Verdict.ExposureScore),
			result.Verdict.RiskLevel,
			formatFindings(result),
		)
	}

	fmt.Println("\nUse 'exposurescan history --compare <input>' to compare the latest two scans.")

	return nil
}

// formatFindings summarizes a scan's findings as a compact string.
func formatFindings(result *model.ScanResult) string {
	var parts []string
	if result.Breach != nil && result.Breach.BreachCount > 0 {
		parts = append(parts, fmt.Sprintf("B:%d", result.Breach.BreachCount))
	}
	if result.Correlation != nil {
		if found := result.Correlation.FoundCount(); found > 0 {
			parts = append(parts, fmt.Sprintf("P:%d", found))
		}
	}
	if result.Image != nil && result.Image.Analyzed {
		parts = append(parts, "img")
	}

	if len(parts) == 0 {
		return "No findings"
	}
	return strings.Join(parts, " ")
}

// compareLatestScans diffs the two most recent scans of one input.
func compareLatestScans(ctx context.Context, db *database.ScanDB, input string, jsonOutput bool) error {
	results, err := db.ScanHistory(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to get scan history: %w", err)
	}

	if len(results) == 0 {
		return fmt.Errorf("no scan history found for %s", input)
	}
	if len(results) < 2 {
		return fmt.Errorf("at least 2 scans are required for comparison (found %d)", len(results))
	}

	// Results are newest first: [0] is current, [1] is previous.
	comparison := compareScans(results[1], results[0])

	if jsonOutput {
		return outputJSON(comparison)
	}
	return outputComparisonText(comparison)
}

// ComparisonResult holds the result of comparing two scans of one input.
type ComparisonResult struct {
	// Input is the scanned identifier.
	Input string `json:"input"`

	// PreviousScan summarizes the older scan.
	PreviousScan ScanSnapshot `json:"previous_scan"`

	// CurrentScan summarizes the newer scan.
	CurrentScan ScanSnapshot `json:"current_scan"`

	// ScoreDelta is the exposure score change from previous to current.
	ScoreDelta int `json:"score_delta"`

	// Direction is "improved", "worsened", or "unchanged".
	Direction string `json:"direction"`

	// NewBreaches lists breach names present now but not before.
	NewBreaches []string `json:"new_breaches,omitempty"`

	// ResolvedBreaches lists breach names present before but not now.
	ResolvedBreaches []string `json:"resolved_breaches,omitempty"`

	// NewPlatforms lists platforms where the identifier appeared since
	// the previous scan.
	NewPlatforms []string `json:"new_platforms,omitempty"`

	// DroppedPlatforms lists platforms where the identifier no longer
	// appears.
	DroppedPlatforms []string `json:"dropped_platforms,omitempty"`
}

// ScanSnapshot is the comparison-relevant summary of one scan.
type ScanSnapshot struct {
	// ScanID identifies the scan.
	ScanID string `json:"scan_id"`

	// CompletedAt is when the scan finished.
	CompletedAt time.Time `json:"completed_at"`

	// ExposureScore is the 0-100 weighted exposure score.
	ExposureScore int `json:"exposure_score"`

	// RiskLevel is the score's risk tier.
	RiskLevel string `json:"risk_level"`

	// BreachCount is the number of known breaches found.
	BreachCount int `json:"breach_count"`

	// PlatformCount is the number of platforms where the identifier was
	// found.
	PlatformCount int `json:"platform_count"`
}

// compareScans compares two scans of the same input and generates a
// comparison result. The direction follows the exposure score: a lower
// current score means the exposure improved.
func compareScans(previous, current *model.ScanResult) *ComparisonResult {
	result := &ComparisonResult{
		Input:        current.Input,
		PreviousScan: snapshotScan(previous),
		CurrentScan:  snapshotScan(current),
	}

	result.ScoreDelta = result.CurrentScan.ExposureScore - result.PreviousScan.ExposureScore
	switch {
	case result.ScoreDelta < 0:
		result.Direction = directionImproved
	case result.ScoreDelta > 0:
		result.Direction = directionWorsened
	default:
		result.Direction = directionUnchanged
	}

	previousBreaches := breachNames(previous)
	currentBreaches := breachNames(current)
	result.NewBreaches = missingFrom(currentBreaches, previousBreaches)
	result.ResolvedBreaches = missingFrom(previousBreaches, currentBreaches)

	previousPlatforms := foundPlatforms(previous)
	currentPlatforms := foundPlatforms(current)
	result.NewPlatforms = missingFrom(currentPlatforms, previousPlatforms)
	result.DroppedPlatforms = missingFrom(previousPlatforms, currentPlatforms)

	return result
}

// snapshotScan extracts the comparison-relevant fields of one scan.
func snapshotScan(result *model.ScanResult) ScanSnapshot {
	snapshot := ScanSnapshot{
		ScanID:        result.ID,
		CompletedAt:   result.CompletedAt,
		ExposureScore: result.Verdict.ExposureScore,
		RiskLevel:     string(result.Verdict.RiskLevel),
	}
	if result.Breach != nil {
		snapshot.BreachCount = result.Breach.BreachCount
	}
	if result.Correlation != nil {
		snapshot.PlatformCount = result.Correlation.FoundCount()
	}
	return snapshot
}

// breachNames returns the breach source names of a scan, in result order.
func breachNames(result *model.ScanResult) []string {
	if result.Breach == nil {
		return nil
	}
	names := make([]string, 0, len(result.Breach.Sources))
	for _, source := range result.Breach.Sources {
		names = append(names, source.Name)
	}
	return names
}

// foundPlatforms returns the platforms where a scan found the identifier.
func foundPlatforms(result *model.ScanResult) []string {
	if result.Correlation == nil {
		return nil
	}
	return result.Correlation.FoundPlatforms()
}

// missingFrom returns the entries of want that are absent from have,
// preserving want's order.
func missingFrom(want, have []string) []string {
	haveSet := make(map[string]struct{}, len(have))
	for _, entry := range have {
		haveSet[entry] = struct{}{}
	}

	var missing []string
	for _, entry := range want {
		if _, ok := haveSet[entry]; !ok {
			missing = append(missing, entry)
		}
	}
	return missing
}

// outputComparisonText outputs the comparison result in human-readable
// text format.
func outputComparisonText(result *ComparisonResult) error {
	fmt.Printf("Scan Comparison: %s\n", result.Input)
	fmt.Println(strings.Repeat("=", 60))

	fmt.Printf("\nExposure: %s\n", formatDirection(result.Direction))

	fmt.Printf("\nPrevious scan: %s (score %d/100, risk %s)\n",
		result.PreviousScan.CompletedAt.Format("2006-01-02 15:04:05"),
		result.PreviousScan.ExposureScore,
		result.PreviousScan.RiskLevel,
	)
	fmt.Printf("Current scan:  %s (score %d/100, risk %s)\n",
		result.CurrentScan.CompletedAt.Format("2006-01-02 15:04:05"),
		result.CurrentScan.ExposureScore,
		result.CurrentScan.RiskLevel,
	)

	fmt.Printf("\nScore change: %s\n", formatDelta(result.ScoreDelta))

	if len(result.NewBreaches) > 0 {
		fmt.Printf("\nNew breaches (%d):\n", len(result.NewBreaches))
		for _, name := range result.NewBreaches {
			fmt.Printf("  [+] %s\n", name)
		}
	}
	if len(result.ResolvedBreaches) > 0 {
		fmt.Printf("\nResolved breaches (%d):\n", len(result.ResolvedBreaches))
		for _, name := range result.ResolvedBreaches {
			fmt.Printf("  [-] %s\n", name)
		}
	}
	if len(result.NewPlatforms) > 0 {
		fmt.Printf("\nNew platform matches (%d):\n", len(result.NewPlatforms))
		for _, name := range result.NewPlatforms {
			fmt.Printf("  [+] %s\n", name)
		}
	}
	if len(result.DroppedPlatforms) > 0 {
		fmt.Printf("\nNo longer found on (%d):\n", len(result.DroppedPlatforms))
		for _, name := range result.DroppedPlatforms {
			fmt.Printf("  [-] %s\n", name)
		}
	}

	if len(result.NewBreaches) == 0 && len(result.ResolvedBreaches) == 0 &&
		len(result.NewPlatforms) == 0 && len(result.DroppedPlatforms) == 0 {
		fmt.Println("\nNo changes in breaches or platform matches.")
	}

	return nil
}

// formatDirection formats the exposure change direction for display.
func formatDirection(direction string) string {
	switch direction {
	case directionImproved:
		return "IMPROVED (score decreased)"
	case directionWorsened:
		return "WORSENED (score increased)"
	default:
		return "UNCHANGED"
	}
}

// formatDelta formats a numeric delta with sign for display.
func formatDelta(delta int) string {
	if delta > 0 {
		return "+" + strconv.Itoa(delta)
	} else if delta < 0 {
		return strconv.Itoa(delta)
	}
	return "0"
}

// shortID truncates a scan id for table display.
func shortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}

// outputJSON writes any value as indented JSON to stdout.
func outputJSON(value any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
