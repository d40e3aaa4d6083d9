package pipeline

import (
	"context"

	"github.com/exposurelab/exposurescan/internal/model"
)

// EventSink receives the progress events of one scan, in emission order.
// A sink that can no longer accept events (for example a disconnected
// client) returns an error, which the orchestrator treats as cancellation.
type EventSink interface {
	// Publish delivers one event to the scan's output stream.
	Publish(ctx context.Context, event model.ChainEvent) error
}

// SinkFunc adapts a function to the EventSink interface.
type SinkFunc func(ctx context.Context, event model.ChainEvent) error

// Publish calls the function.
func (f SinkFunc) Publish(ctx context.Context, event model.ChainEvent) error {
	return f(ctx, event)
}

// NopSink discards all events. Used when a caller wants only the final
// composite result, such as batch processing.
type NopSink struct{}

// Publish discards the event.
func (NopSink) Publish(context.Context, model.ChainEvent) error { return nil }

// Outcome summarizes a finished stage for its completion event.
type Outcome struct {
	// Message is the human-readable status line.
	Message string

	// Details carries stage-specific values such as counts.
	Details map[string]any
}

// Stage is one lookup module in the scan pipeline.
//
// Run must not fail: a stage records degraded outcomes inside the scan's
// result fields and reports them through the returned Outcome. Stages are
// stateless across scans and safe for concurrent use.
type Stage interface {
	// Name returns the module name used in progress events.
	Name() string

	// State returns the scan state the orchestrator enters while this
	// stage runs.
	State() model.ScanState

	// Applies reports whether this stage runs for the classified input.
	Applies(classification model.InputClassification) bool

	// Run executes the stage, writing its result into the scan.
	Run(ctx context.Context, scan *model.ScanResult) Outcome
}
