// Package correlate probes a fixed panel of platforms to estimate how
// widely an identifier is used across the public web.
//
// # Architecture
//
//   - Platform: one panel entry, a name plus a profile URL template
//   - Prober: the probe transport (HEAD requests in production, fakes in tests)
//   - Correlator: fans probes out concurrently and aggregates the matches
//
// Design decision: probes are best-effort evidence, not ground truth. A
// probe that fails or times out is recorded as "available" with low
// confidence instead of an error, because absence of evidence is not
// evidence of absence and one slow platform must never stall the scan. The
// aggregate risk tier therefore only counts matches whose confidence
// clears a floor, so a run of timeouts cannot inflate risk.
//
// The panel is deliberately small and bounded: every probe is a request to
// a third party, so panel size caps both worst-case latency and the rate
// at which those parties see our traffic.
package correlate
