package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/exposurelab/exposurescan/internal/model"
)

// Emitter writes scan envelopes to a stream as NDJSON.
//
// Emitter satisfies the pipeline's event sink contract: Publish delivers
// one event envelope. Writes are serialized by a mutex so events from
// concurrent publishers never interleave within a line.
type Emitter struct {
	mu      sync.Mutex
	encoder *json.Encoder
	flusher http.Flusher
}

// NewEmitter creates an Emitter on the writer. When the writer is an
// http.Flusher, every envelope is flushed immediately after writing so
// clients see progress without waiting for the response buffer.
func NewEmitter(w io.Writer) *Emitter {
	e := &Emitter{encoder: json.NewEncoder(w)}
	if flusher, ok := w.(http.Flusher); ok {
		e.flusher = flusher
	}
	return e
}

// Publish writes one event envelope. A cancelled context or a failed
// write reports an error, which stops the producing scan.
func (e *Emitter) Publish(ctx context.Context, event model.ChainEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return e.emit(EventEnvelope(event))
}

// EmitResult writes the terminal result envelope. The caller closes the
// stream afterwards; nothing may follow the result.
func (e *Emitter) EmitResult(result *model.ScanResult) error {
	return e.emit(ResultEnvelope(result))
}

func (e *Emitter) emit(envelope Envelope) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.encoder.Encode(envelope); err != nil {
		return fmt.Errorf("encode %s envelope: %w", envelope.Type, err)
	}
	if e.flusher != nil {
		e.flusher.Flush()
	}
	return nil
}
