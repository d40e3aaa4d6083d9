package model

import "time"

// SourceType classifies the provenance of a data source used in a scan.
type SourceType string

// Data source type constants.
const (
	// SourceTypeAPI is an authenticated third-party API.
	SourceTypeAPI SourceType = "api"
	// SourceTypePublicCheck is an unauthenticated probe of public pages.
	SourceTypePublicCheck SourceType = "public_check"
	// SourceTypeHeuristic is a local inference, not external data.
	SourceTypeHeuristic SourceType = "heuristic"
)

// IsValid returns true if this is a known source type.
func (t SourceType) IsValid() bool {
	switch t {
	case SourceTypeAPI, SourceTypePublicCheck, SourceTypeHeuristic:
		return true
	default:
		return false
	}
}

// DataSource names one source of signal used during a scan.
type DataSource struct {
	// Name is the source's display name.
	Name string `json:"name"`

	// Type classifies the source's provenance.
	Type SourceType `json:"type"`

	// Description explains what the source contributed.
	Description string `json:"description"`
}

// Transparency discloses exactly what a scan did and did not examine.
//
// The report is the mechanism by which degraded or absent checks surface
// to the user instead of being silently hidden; it always lists the
// categorical exclusions no scan can cover.
type Transparency struct {
	// WhatWasChecked lists the checks that actually ran.
	WhatWasChecked []string `json:"what_was_checked"`

	// WhatWasNotChecked lists checks that were skipped or degraded, plus
	// the fixed categorical exclusions.
	WhatWasNotChecked []string `json:"what_was_not_checked"`

	// DataSources lists the provenance of every source used.
	DataSources []DataSource `json:"data_sources"`

	// LegalScope is the fixed disclosure describing what the scan may
	// lawfully examine.
	LegalScope string `json:"legal_scope"`

	// Timestamp is when the disclosure was generated.
	Timestamp time.Time `json:"timestamp"`
}
