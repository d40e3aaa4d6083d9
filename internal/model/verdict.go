package model

// Impact classifies how a scoring factor moved the exposure estimate.
type Impact string

// Impact constants.
const (
	// ImpactPositive marks a factor that indicates lower exposure, such
	// as a clean breach lookup from a working provider.
	ImpactPositive Impact = "positive"
	// ImpactNegative marks a factor that raised the exposure estimate.
	ImpactNegative Impact = "negative"
	// ImpactNeutral marks a factor that was checked and found nothing,
	// widening the evidence base without moving the score.
	ImpactNeutral Impact = "neutral"
)

// String returns the string representation of the Impact.
func (i Impact) String() string {
	if !i.IsValid() {
		return string(ImpactNeutral)
	}
	return string(i)
}

// IsValid returns true if this is a known impact value.
func (i Impact) IsValid() bool {
	switch i {
	case ImpactPositive, ImpactNegative, ImpactNeutral:
		return true
	default:
		return false
	}
}

// Factor is one labeled signal that contributed to the exposure score.
// Weight is the factor's raw weight in the (score, maxWeight) accumulation,
// recorded so the verdict display can show how much each signal counted.
type Factor struct {
	// Label describes the signal in human-readable form.
	Label string `json:"factor"`

	// Impact is the direction the signal pushed the estimate.
	Impact Impact `json:"impact"`

	// Weight is the raw weight this signal added to maxWeight.
	Weight int `json:"weight"`
}

// Verdict is the scored assessment of a scan, derived entirely from the
// lookup results. It is never mutated after creation.
type Verdict struct {
	// ExposureScore is the 0-100 weighted exposure estimate.
	ExposureScore int `json:"exposure_score"`

	// RiskLevel is the tier the score falls into.
	RiskLevel RiskLevel `json:"risk_level"`

	// Summary is a templated human-readable explanation of the verdict.
	Summary string `json:"summary"`

	// Factors lists the signals that fired, in evaluation order
	// (breach, then correlation, then image).
	Factors []Factor `json:"factors"`
}

// HasFactors reports whether any scoring signal fired. A verdict with no
// factors and a zero score means nothing could be evaluated, which is
// distinct from a clean result.
func (v Verdict) HasFactors() bool {
	return len(v.Factors) > 0
}
