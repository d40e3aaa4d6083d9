package model

import (
	"time"

	"github.com/google/uuid"
)

// EventStatus is the lifecycle state of one streamed progress event.
type EventStatus string

// Event status constants.
const (
	// EventStatusPending means the step is queued but not started.
	EventStatusPending EventStatus = "pending"
	// EventStatusProcessing means the step is running.
	EventStatusProcessing EventStatus = "processing"
	// EventStatusComplete means the step finished, possibly degraded.
	EventStatusComplete EventStatus = "complete"
	// EventStatusError means the step failed terminally.
	EventStatusError EventStatus = "error"
	// EventStatusSkipped means the step did not apply to this input type.
	EventStatusSkipped EventStatus = "skipped"
)

// IsValid returns true if this is a known event status.
func (s EventStatus) IsValid() bool {
	switch s {
	case EventStatusPending, EventStatusProcessing, EventStatusComplete,
		EventStatusError, EventStatusSkipped:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further update for the same event id
// should follow.
func (s EventStatus) IsTerminal() bool {
	switch s {
	case EventStatusComplete, EventStatusError, EventStatusSkipped:
		return true
	default:
		return false
	}
}

// Module name constants used in chain events. These are wire-visible
// identifiers; consumers key display rows on them.
const (
	ModuleClassifier   = "classifier"
	ModuleBreachLookup = "breach_lookup"
	ModuleCorrelator   = "platform_correlator"
	ModuleImageCheck   = "image_analyzer"
	ModuleVerdict      = "verdict_scorer"
	ModuleGuidance     = "guidance"
	ModuleTransparency = "transparency"
)

// ChainEvent is one streamed progress update for a pipeline stage.
//
// Events are ephemeral: they are delivered on the scan's output stream and
// accumulated client-side for display, but are not part of the persisted
// result. A stage reuses one event id across its lifecycle (processing,
// then complete or error), so consumers replace events in place by id
// rather than appending every update.
type ChainEvent struct {
	// ID is the unique identifier shared by all updates of one step.
	ID string `json:"id"`

	// Module names the pipeline stage that emitted the event.
	Module string `json:"module"`

	// Message is a human-readable status line.
	Message string `json:"message"`

	// Status is the step's lifecycle state.
	Status EventStatus `json:"status"`

	// Timestamp is when this update was emitted, in UTC.
	Timestamp time.Time `json:"timestamp"`

	// Details carries optional stage-specific values, such as counts,
	// for richer display.
	Details map[string]any `json:"details,omitempty"`
}

// NewChainEvent creates an event with a fresh id and the current UTC time.
func NewChainEvent(module string, status EventStatus, message string) ChainEvent {
	return ChainEvent{
		ID:        uuid.NewString(),
		Module:    module,
		Message:   message,
		Status:    status,
		Timestamp: time.Now().UTC(),
	}
}

// Completed returns a copy of the event marked complete with a new message
// and timestamp. The id is preserved so consumers update in place.
func (e ChainEvent) Completed(message string, details map[string]any) ChainEvent {
	e.Status = EventStatusComplete
	e.Message = message
	e.Details = details
	e.Timestamp = time.Now().UTC()
	return e
}

// Failed returns a copy of the event marked as a terminal error, keeping
// the id for update-in-place semantics.
func (e ChainEvent) Failed(message string) ChainEvent {
	e.Status = EventStatusError
	e.Message = message
	e.Timestamp = time.Now().UTC()
	return e
}
