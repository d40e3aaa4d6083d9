package stream

import "github.com/exposurelab/exposurescan/internal/model"

// Envelope type constants.
const (
	// TypeEvent marks a progress event envelope.
	TypeEvent = "event"
	// TypeResult marks the terminal result envelope.
	TypeResult = "result"
)

// Envelope is one NDJSON message on a scan stream. Exactly one of Event
// and Result is set, matching Type.
type Envelope struct {
	// Type discriminates the envelope: "event" or "result".
	Type string `json:"type"`

	// Event carries a progress update for event envelopes.
	Event *model.ChainEvent `json:"event,omitempty"`

	// Result carries the composite scan result for the terminal envelope.
	Result *model.ScanResult `json:"result,omitempty"`
}

// EventEnvelope wraps a progress event.
func EventEnvelope(event model.ChainEvent) Envelope {
	return Envelope{Type: TypeEvent, Event: &event}
}

// ResultEnvelope wraps the terminal scan result.
func ResultEnvelope(result *model.ScanResult) Envelope {
	return Envelope{Type: TypeResult, Result: result}
}
