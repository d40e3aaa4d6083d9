package model

import (
	"time"

	"github.com/google/uuid"
)

// ScanState is the orchestrator's position in the scan state machine.
type ScanState string

// Scan state constants. A scan moves from classifying through the lookup
// states that apply to its input type, then through the assessment states
// to complete. Aborted is reachable only from classifying, when the input
// is invalid.
const (
	ScanStateClassifying  ScanState = "classifying"
	ScanStateBreachCheck  ScanState = "breach_checking"
	ScanStateCorrelating  ScanState = "correlating"
	ScanStateImageCheck   ScanState = "image_analyzing"
	ScanStateVerdict      ScanState = "verdict_computing"
	ScanStateGuidance     ScanState = "guidance_generating"
	ScanStateTransparency ScanState = "transparency_generating"
	ScanStateComplete     ScanState = "complete"
	ScanStateAborted      ScanState = "aborted"
)

// ScanResult is the composite outcome of one scan. It is created when the
// scan starts, filled in by the pipeline stages, and immutable once
// emitted as the stream's terminal message.
type ScanResult struct {
	// === Identity ===

	// ID uniquely identifies this scan.
	ID string `json:"id"`

	// Input is the raw input as submitted, trimmed.
	Input string `json:"input"`

	// === Classification ===

	// Classification is the classified form of the input. Every lookup
	// module keys off its Type.
	Classification InputClassification `json:"classification"`

	// === Lookup results (subset per input type) ===

	// Breach is present for email input.
	Breach *BreachResult `json:"breach,omitempty"`

	// Correlation is present for email and username input.
	Correlation *CorrelationResult `json:"correlation,omitempty"`

	// Image is present for image URL input.
	Image *ImageRiskResult `json:"image,omitempty"`

	// === Assessment ===

	// Verdict is the weighted exposure score and its factors.
	Verdict Verdict `json:"verdict"`

	// Guidance is the prioritized remediation plan.
	Guidance Guidance `json:"guidance"`

	// Transparency discloses what was and was not checked.
	Transparency Transparency `json:"transparency"`

	// === Timing ===

	// StartedAt is when the scan began, in UTC.
	StartedAt time.Time `json:"started_at"`

	// CompletedAt is when the scan finished, in UTC. Zero while running.
	CompletedAt time.Time `json:"completed_at"`
}

// NewScanResult creates a result shell for a starting scan.
func NewScanResult(input string) *ScanResult {
	return &ScanResult{
		ID:        uuid.NewString(),
		Input:     input,
		StartedAt: time.Now().UTC(),
	}
}

// MarkCompleted stamps the completion time.
func (r *ScanResult) MarkCompleted() {
	r.CompletedAt = time.Now().UTC()
}

// Duration returns how long the scan took. Zero until completed.
func (r *ScanResult) Duration() time.Duration {
	if r.CompletedAt.IsZero() {
		return 0
	}
	return r.CompletedAt.Sub(r.StartedAt)
}
