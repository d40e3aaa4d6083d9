package stream

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/exposurelab/exposurescan/internal/model"
)

func TestEmitterWritesOneEnvelopePerLine(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	emitter := NewEmitter(&buf)

	event := model.NewChainEvent(model.ModuleClassifier, model.EventStatusProcessing, "Classifying input")
	if err := emitter.Publish(context.Background(), event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result := model.NewScanResult("jane@example.com")
	if err := emitter.EmitResult(result); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, expected 2", len(lines))
	}

	var first Envelope
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("first line is not valid JSON: %v", err)
	}
	if first.Type != TypeEvent {
		t.Errorf("got type %q, expected %q", first.Type, TypeEvent)
	}
	if first.Event == nil || first.Event.ID != event.ID {
		t.Error("event envelope does not carry the published event")
	}
	if first.Result != nil {
		t.Error("event envelope carries a result")
	}

	var second Envelope
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatalf("second line is not valid JSON: %v", err)
	}
	if second.Type != TypeResult {
		t.Errorf("got type %q, expected %q", second.Type, TypeResult)
	}
	if second.Result == nil || second.Result.ID != result.ID {
		t.Error("result envelope does not carry the scan result")
	}
	if second.Event != nil {
		t.Error("result envelope carries an event")
	}
}

func TestEmitterConcurrentPublishesDoNotInterleave(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	emitter := NewEmitter(&buf)

	const publishers = 16
	var wg sync.WaitGroup
	wg.Add(publishers)
	for i := 0; i < publishers; i++ {
		go func() {
			defer wg.Done()
			event := model.NewChainEvent(model.ModuleCorrelator, model.EventStatusProcessing, "probing")
			_ = emitter.Publish(context.Background(), event)
		}()
	}
	wg.Wait()

	scanner := bufio.NewScanner(&buf)
	lines := 0
	for scanner.Scan() {
		lines++
		var envelope Envelope
		if err := json.Unmarshal(scanner.Bytes(), &envelope); err != nil {
			t.Errorf("line %d is not valid JSON: %v", lines, err)
		}
	}
	if lines != publishers {
		t.Errorf("got %d lines, expected %d", lines, publishers)
	}
}

func TestEmitterRespectsCancelledContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	emitter := NewEmitter(&buf)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	event := model.NewChainEvent(model.ModuleClassifier, model.EventStatusProcessing, "Classifying input")
	if err := emitter.Publish(ctx, event); err == nil {
		t.Fatal("expected an error for a cancelled context, got nil")
	}
	if buf.Len() != 0 {
		t.Errorf("cancelled publish still wrote %d bytes", buf.Len())
	}
}

func TestEnvelopeJSONShape(t *testing.T) {
	t.Parallel()

	event := model.NewChainEvent(model.ModuleVerdict, model.EventStatusComplete, "done")
	data, err := json.Marshal(EventEnvelope(event))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decoded["type"] != "event" {
		t.Errorf("got type %v, expected event", decoded["type"])
	}
	if _, ok := decoded["event"]; !ok {
		t.Error("envelope misses the event key")
	}
	if _, ok := decoded["result"]; ok {
		t.Error("event envelope serializes an empty result key")
	}
}
