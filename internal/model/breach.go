package model

import "time"

// BreachSource describes one data breach an email address was found in.
// Fields beyond Name are optional; provider responses vary in completeness.
type BreachSource struct {
	// Name is the breach's display name, e.g. "ExampleSite 2021".
	Name string `json:"name"`

	// Domain is the breached site's domain, when the provider reports one.
	Domain string `json:"domain,omitempty"`

	// BreachDate is when the breach occurred. Zero when unknown.
	BreachDate time.Time `json:"breach_date"`

	// DataClasses lists the categories of data exposed, e.g.
	// "Email addresses", "Passwords".
	DataClasses []string `json:"data_classes,omitempty"`

	// PwnCount is the number of accounts affected, when reported.
	PwnCount int `json:"pwn_count,omitempty"`
}

// BreachResult is the outcome of the breach-database lookup for an email.
//
// The lookup is a total function: failure paths (missing credential,
// upstream outage, rate limiting) produce a result with APIAvailable=false
// and a LimitationNote instead of an error. Invariant: Found=false implies
// BreachCount=0 and an empty Sources list.
type BreachResult struct {
	// Found reports whether the email appeared in at least one breach.
	Found bool `json:"found"`

	// BreachCount is the number of breaches the email appeared in.
	BreachCount int `json:"breach_count"`

	// Sources lists the breaches, in provider order.
	Sources []BreachSource `json:"sources"`

	// Severity is the categorical severity computed from Sources
	// (count, sensitive data classes, recency).
	Severity Severity `json:"severity"`

	// APIAvailable reports whether the breach provider could be queried.
	// When false the rest of the result carries no signal.
	APIAvailable bool `json:"api_available"`

	// LimitationNote explains a degraded lookup, e.g. "no API credential
	// configured". Empty on a fully successful lookup.
	LimitationNote string `json:"limitation_note,omitempty"`

	// Provider names the data source that served the lookup, for
	// transparency reporting.
	Provider string `json:"provider,omitempty"`
}

// NewUnavailableBreachResult returns the degraded result used by every
// failure path of the breach checker. The note explains why the lookup
// could not be performed.
func NewUnavailableBreachResult(note string) *BreachResult {
	return &BreachResult{
		Found:          false,
		BreachCount:    0,
		Sources:        []BreachSource{},
		Severity:       SeverityLow,
		APIAvailable:   false,
		LimitationNote: note,
	}
}

// NewCleanBreachResult returns the result for a successful lookup that
// found no breaches. A clean result from a working provider is a real
// signal, distinct from an unavailable one.
func NewCleanBreachResult(provider string) *BreachResult {
	return &BreachResult{
		Found:        false,
		BreachCount:  0,
		Sources:      []BreachSource{},
		Severity:     SeverityLow,
		APIAvailable: true,
		Provider:     provider,
	}
}
