// Package guidance maps scan results to a prioritized remediation plan.
//
// Generation is a pure function of the lookup results: no randomness, no
// I/O, and the emission order of the rules below is the display order.
// Priorities start at 1 and ascend without gaps. A scan that triggers no
// specific rule still receives generic hygiene recommendations, and every
// plan closes with a password manager suggestion unless one of the earlier
// rules already produced a password manager item.
package guidance
