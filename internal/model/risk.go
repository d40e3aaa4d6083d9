package model

// riskUnknownStr is the string representation for unknown risk values.
const riskUnknownStr = "unknown"

// RiskLevel represents the aggregate risk tier of a scan or of one
// lookup module's result.
//
// Design decision: We use string-based constants rather than iota because
// risk levels appear verbatim in the streaming wire protocol, report output,
// and database rows. A string type serializes without custom marshaling and
// stays readable in stored JSON. Rank() provides the ordinal view when
// comparisons are needed.
type RiskLevel string

// Risk level constants, ordered from least to most severe.
const (
	// RiskLevelLow indicates little or no detected exposure.
	RiskLevelLow RiskLevel = "low"
	// RiskLevelMedium indicates notable exposure that warrants review.
	RiskLevelMedium RiskLevel = "medium"
	// RiskLevelHigh indicates significant exposure requiring action.
	RiskLevelHigh RiskLevel = "high"
)

// String returns the string representation of the RiskLevel.
func (r RiskLevel) String() string {
	if !r.IsValid() {
		return riskUnknownStr
	}
	return string(r)
}

// IsValid returns true if this is a known risk level.
func (r RiskLevel) IsValid() bool {
	switch r {
	case RiskLevelLow, RiskLevelMedium, RiskLevelHigh:
		return true
	default:
		return false
	}
}

// Rank returns the ordinal position of the risk level (low=0, medium=1,
// high=2). Unknown values rank below low so they never outrank a real tier.
func (r RiskLevel) Rank() int {
	switch r {
	case RiskLevelLow:
		return 0
	case RiskLevelMedium:
		return 1
	case RiskLevelHigh:
		return 2
	default:
		return -1
	}
}

// RiskLevelForScore maps a 0-100 exposure score to its risk tier.
// Scores of 60 and above are high, 30 and above are medium, the rest low.
func RiskLevelForScore(score int) RiskLevel {
	switch {
	case score >= 60:
		return RiskLevelHigh
	case score >= 30:
		return RiskLevelMedium
	default:
		return RiskLevelLow
	}
}
