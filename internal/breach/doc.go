// Package breach looks up email addresses in known data breaches.
//
// # Architecture
//
// The package is built around the Provider interface, which abstracts the
// breach data source (a remote HIBP-compatible API, optionally wrapped in a
// SQLite-backed cache). The Checker turns a provider's answer or failure
// into a BreachResult with severity, so callers never see an error:
//
//	provider := breach.NewHIBPClient(apiKey)
//	checker := breach.NewChecker(provider)
//	result := checker.Check(ctx, "user@example.com")
//
// Design decision: the Checker is a total function over its input. Missing
// credentials, upstream outages, and rate limits all produce a valid result
// with APIAvailable=false and a limitation note rather than an error,
// because a degraded breach lookup must never abort the surrounding scan.
// The provider layer is where errors exist; the sentinel errors in errors.go
// let the Checker translate each failure class into its note.
//
// # Severity
//
// Severity is a pure function of the breach list: match count, sensitive
// data classes (passwords, financial records), and recency. The tiers form
// a ranked fallthrough rather than independent buckets. Critical is checked
// first, then high, medium, low.
//
// The package also provides a k-anonymity password range client: only the
// first five characters of the password's SHA-1 hash leave the process, and
// the full hash is matched locally against the returned suffix list.
package breach
