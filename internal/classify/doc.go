// Package classify turns the raw scan input into an InputClassification.
//
// Classification is a pure function with no I/O and no state, deterministic
// for a given input string. The match order is part of the contract, with email
// checked before generic URLs and URLs before usernames, because the
// patterns overlap (an email address is also a plausible username, a bare
// hostname is almost a URL). Downstream modules key off the detected type,
// so reordering the checks would change which lookups run.
package classify
