// Package model defines the core data structures used throughout exposurescan.
//
// This package contains the following main types:
//   - InputClassification: The classified form of the raw scan input
//   - BreachResult, CorrelationResult, ImageRiskResult: Partial lookup results
//   - Verdict, Guidance, Transparency: The assessed output of a scan
//   - ChainEvent: A streamed progress update for one pipeline stage
//   - ScanResult: The composite result emitted when a scan completes
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (classify, breach, correlate, score,
// pipeline, report) need to use these types, so centralizing them prevents
// import cycles.
//
// The models are designed to be serializable to JSON for the streaming wire
// protocol, report output, and database storage. Lookup results carry explicit
// availability flags (APIAvailable, Analyzed) instead of errors so that a
// degraded probe still produces a structurally valid result.
package model
