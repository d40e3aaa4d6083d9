package model

// PlatformMatch is the outcome of probing one platform for an identifier.
//
// Available follows registration semantics: false means the identifier
// appears to exist (is taken) on the platform, true means it appears free.
// Confidence qualifies how trustworthy the probe outcome is, independent
// of which way it points; a timed-out probe reports available with low
// confidence rather than an error.
type PlatformMatch struct {
	// Platform is the panel entry's name, e.g. "github".
	Platform string `json:"platform"`

	// URL is the profile URL that was probed.
	URL string `json:"url,omitempty"`

	// Available reports whether the identifier appears unregistered.
	Available bool `json:"available"`

	// Confidence is the [0,1] trustworthiness of this probe outcome.
	Confidence float64 `json:"confidence"`
}

// Found reports whether this match indicates the identifier exists on the
// platform.
func (m PlatformMatch) Found() bool {
	return !m.Available
}

// CorrelationResult is the outcome of probing the platform panel for a
// username (or an identifier derived from an email local-part).
//
// Invariant: every Matches entry names a platform listed in
// CheckedPlatforms. An identifier that could not be safely derived yields
// empty CheckedPlatforms, empty Matches, and a LimitationNote; no probes
// are issued in that case.
type CorrelationResult struct {
	// Username is the identifier that was probed.
	Username string `json:"username"`

	// Matches holds one entry per probed platform.
	Matches []PlatformMatch `json:"matches"`

	// Risk is the aggregate correlation risk computed from confident
	// found matches.
	Risk RiskLevel `json:"risk"`

	// CheckedPlatforms lists the panel platforms that were probed.
	CheckedPlatforms []string `json:"checked_platforms"`

	// LimitationNote explains why probing was skipped or degraded.
	LimitationNote string `json:"limitation_note,omitempty"`
}

// FoundCount returns the number of platforms where the identifier appears
// to exist, regardless of confidence.
func (r *CorrelationResult) FoundCount() int {
	count := 0
	for _, m := range r.Matches {
		if m.Found() {
			count++
		}
	}
	return count
}

// FoundPlatforms returns the platform names where the identifier appears
// to exist, in match order.
func (r *CorrelationResult) FoundPlatforms() []string {
	platforms := make([]string, 0, len(r.Matches))
	for _, m := range r.Matches {
		if m.Found() {
			platforms = append(platforms, m.Platform)
		}
	}
	return platforms
}

// ConfidentFoundCount returns the number of found matches whose confidence
// is at least minConfidence. The correlation risk tier is computed from
// this count so that low-confidence timeouts never inflate risk.
func (r *CorrelationResult) ConfidentFoundCount(minConfidence float64) int {
	count := 0
	for _, m := range r.Matches {
		if m.Found() && m.Confidence >= minConfidence {
			count++
		}
	}
	return count
}
