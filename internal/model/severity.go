package model

// severityUnknownStr is the string representation for unknown severity values.
const severityUnknownStr = "unknown"

// Severity represents the categorical severity of a breach result,
// distinct from the overall scan risk tier.
//
// Design decision: We use string-based constants rather than iota because
// severity appears verbatim in the wire protocol and stored scan JSON, and a
// string type round-trips without custom marshaling. Rank() provides the
// ordinal view needed for the fallthrough policy in the breach checker
// (critical supersedes high supersedes medium supersedes low).
type Severity string

// Breach severity constants, ordered from least to most severe.
const (
	// SeverityLow indicates membership in few, old, non-sensitive breaches.
	SeverityLow Severity = "low"

	// SeverityMedium indicates repeated or recent breach membership.
	SeverityMedium Severity = "medium"

	// SeverityHigh indicates many breaches or exposure of a sensitive
	// data category such as passwords or financial records.
	SeverityHigh Severity = "high"

	// SeverityCritical indicates large-scale exposure, or sensitive data
	// exposed in a recent breach. Findings at this level drive the
	// strongest guidance (immediate password rotation).
	SeverityCritical Severity = "critical"
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	if !s.IsValid() {
		return severityUnknownStr
	}
	return string(s)
}

// IsValid returns true if this is a known severity level.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	default:
		return false
	}
}

// Rank returns the ordinal position of the severity (low=0 through
// critical=3). Unknown values rank below low.
func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 0
	case SeverityMedium:
		return 1
	case SeverityHigh:
		return 2
	case SeverityCritical:
		return 3
	default:
		return -1
	}
}

// ParseSeverity converts a string into a Severity. Unrecognized values
// return SeverityLow and false so callers degrade conservatively when
// reading stored rows written by older versions.
func ParseSeverity(s string) (Severity, bool) {
	sev := Severity(s)
	if sev.IsValid() {
		return sev, true
	}
	return SeverityLow, false
}
