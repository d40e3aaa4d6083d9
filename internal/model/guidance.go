package model

import "strings"

// Category groups recommendations by the kind of action they ask for.
type Category string

// Recommendation category constants.
const (
	// CategoryAccountSecurity covers credentials and authentication.
	CategoryAccountSecurity Category = "account_security"
	// CategoryPrivacy covers reducing the visible footprint itself.
	CategoryPrivacy Category = "privacy"
	// CategoryPlatformAction covers settings changes on specific platforms.
	CategoryPlatformAction Category = "platform_action"
	// CategoryMonitoring covers ongoing watchfulness.
	CategoryMonitoring Category = "monitoring"
)

// IsValid returns true if this is a known category.
func (c Category) IsValid() bool {
	switch c {
	case CategoryAccountSecurity, CategoryPrivacy, CategoryPlatformAction, CategoryMonitoring:
		return true
	default:
		return false
	}
}

// Urgency expresses how soon a recommendation should be acted on.
type Urgency string

// Urgency constants, ordered from most to least pressing.
const (
	// UrgencyImmediate asks for action now, e.g. after a critical breach.
	UrgencyImmediate Urgency = "immediate"
	// UrgencySoon asks for action in the coming days.
	UrgencySoon Urgency = "soon"
	// UrgencyWhenPossible is routine hygiene.
	UrgencyWhenPossible Urgency = "when_possible"
)

// IsValid returns true if this is a known urgency.
func (u Urgency) IsValid() bool {
	switch u {
	case UrgencyImmediate, UrgencySoon, UrgencyWhenPossible:
		return true
	default:
		return false
	}
}

// Recommendation is one prioritized remediation step.
type Recommendation struct {
	// Priority is the 1-based display position; lower comes first.
	Priority int `json:"priority"`

	// Category is the action grouping.
	Category Category `json:"category"`

	// Title is the short imperative headline.
	Title string `json:"title"`

	// Description explains what to do and why.
	Description string `json:"description"`

	// Urgency is how soon to act.
	Urgency Urgency `json:"urgency"`
}

// Guidance is the ordered remediation plan generated from a scan's
// results. Emission order is display order; priorities ascend from 1
// without gaps.
type Guidance struct {
	// Recommendations holds the prioritized steps.
	Recommendations []Recommendation `json:"recommendations"`
}

// HasRecommendationTitled reports whether any recommendation's title
// contains the given theme, compared case-insensitively. Used to
// de-duplicate themed recommendations.
func (g Guidance) HasRecommendationTitled(theme string) bool {
	lowered := strings.ToLower(theme)
	for _, rec := range g.Recommendations {
		if strings.Contains(strings.ToLower(rec.Title), lowered) {
			return true
		}
	}
	return false
}
