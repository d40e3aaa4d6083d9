// Package limiter provides the request throttling and aggregate counters
// used by the scan service.
//
// Both components are explicitly owned values injected into the server
// rather than package-level globals, so tests can construct, exercise,
// and reset them in isolation.
//
// The Limiter is a sliding-window counter per client key. Idle keys are
// evicted by a background sweep task so the map stays bounded by the set
// of recently active clients.
package limiter
