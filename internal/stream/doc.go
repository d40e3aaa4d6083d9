// Package stream implements the NDJSON scan output protocol.
//
// A scan's consumer receives a sequence of envelopes, one JSON object per
// line: any number of {"type":"event","event":...} progress envelopes
// followed by exactly one {"type":"result","result":...} terminal
// envelope, after which the stream closes. An aborted scan ends after its
// error event with no result envelope.
//
// The Emitter serializes writes so concurrent publishers cannot interleave
// lines, and flushes after every envelope when the underlying writer
// supports it, so consumers see progress as it happens rather than when
// the response buffer fills.
package stream
