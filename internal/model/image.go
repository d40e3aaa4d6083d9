package model

// ExposureIndicator describes one place an image was found beyond its
// original URL. No reverse-image provider is wired in today, so indicators
// are never produced in practice; the type exists so the scoring and
// guidance paths that consume it stay exercised by tests and ready for a
// real provider.
type ExposureIndicator struct {
	// Source names where the image was seen, e.g. a site or index name.
	Source string `json:"source"`

	// MatchConfidence is the [0,1] certainty that it is the same image.
	MatchConfidence float64 `json:"match_confidence"`

	// URL is where the match was found, when known.
	URL string `json:"url,omitempty"`
}

// ImageRiskResult is the outcome of the image accessibility check.
//
// The check verifies only that the URL serves a publicly fetchable image.
// It never inspects image content; the fixed Disclaimer states this on
// every result regardless of outcome.
type ImageRiskResult struct {
	// Analyzed reports whether the URL was fetched and confirmed to be
	// an image. False means the rest of the result carries no signal.
	Analyzed bool `json:"analyzed"`

	// PerceptualHash is a content identifier for the fetched resource.
	// It is derived from response metadata, not from pixels, and is not
	// a true visual hash; the Disclaimer discloses this.
	PerceptualHash string `json:"perceptual_hash,omitempty"`

	// ExposureIndicators lists external places the image was found.
	// Empty in the current design (no reverse-image provider).
	ExposureIndicators []ExposureIndicator `json:"exposure_indicators"`

	// RiskLevel is the image exposure risk tier.
	RiskLevel RiskLevel `json:"risk_level"`

	// Disclaimer is always present and states the limits of this check.
	Disclaimer string `json:"disclaimer"`

	// LimitationNote explains why analysis failed or was degraded.
	LimitationNote string `json:"limitation_note,omitempty"`

	// SourceDomain is the registrable domain hosting the image, when it
	// could be derived. Informational only.
	SourceDomain string `json:"source_domain,omitempty"`
}

// ImageCheckDisclaimer is attached to every image result. The check
// confirms public accessibility only; it cannot confirm misuse, and the
// content identifier is metadata-derived rather than visual.
const ImageCheckDisclaimer = "This check verifies only that the URL serves a publicly accessible image. " +
	"It does not analyze image content, detect redistribution, or confirm misuse. " +
	"The content identifier is derived from response metadata and is not a visual fingerprint."

// NewUnanalyzedImageResult returns the degraded result used when the image
// could not be fetched or was not an image. The note explains the failure.
func NewUnanalyzedImageResult(note string) *ImageRiskResult {
	return &ImageRiskResult{
		Analyzed:           false,
		ExposureIndicators: []ExposureIndicator{},
		RiskLevel:          RiskLevelLow,
		Disclaimer:         ImageCheckDisclaimer,
		LimitationNote:     note,
	}
}
