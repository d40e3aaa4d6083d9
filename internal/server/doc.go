// Package server exposes scans over HTTP. A scan request streams
// newline-delimited JSON: one event envelope per pipeline transition,
// then exactly one result envelope. Completed scans can be persisted
// and browsed through the history endpoints.
//
// Design decision: the server streams instead of returning one final
// document.
//  1. A scan takes seconds (breach lookup plus platform probes), and
//     progress events let clients render activity instead of a spinner.
//  2. NDJSON works with plain HTTP; no WebSocket upgrade or SSE framing
//     is needed, and curl remains a usable client.
//  3. A disconnected client cancels the request context, which stops
//     the scan's outstanding probes.
package server
