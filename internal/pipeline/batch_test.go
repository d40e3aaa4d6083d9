package pipeline

import (
	"context"
	"net/http"
	"sync"
	"testing"
)

func TestProcessBatchPreservesInputOrder(t *testing.T) {
	t.Parallel()

	orchestrator := testOrchestrator(t, http.StatusNotFound, "", http.StatusNotFound)
	processor := NewBatchProcessor(orchestrator, WithBatchConcurrency(2))

	inputs := []string{"alice@example.com", "bob_handle", "carol@example.com"}
	entries, err := processor.ProcessBatch(context.Background(), inputs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(entries) != len(inputs) {
		t.Fatalf("got %d entries, expected %d", len(entries), len(inputs))
	}
	for i, entry := range entries {
		if entry.Input != inputs[i] {
			t.Errorf("entry %d: got input %q, expected %q", i, entry.Input, inputs[i])
		}
		if entry.Err != nil {
			t.Errorf("entry %d: unexpected error: %v", i, entry.Err)
		}
		if entry.Result == nil {
			t.Errorf("entry %d: missing result", i)
			continue
		}
		if entry.Result.Input != inputs[i] {
			t.Errorf("entry %d: result carries input %q, expected %q", i, entry.Result.Input, inputs[i])
		}
	}
}

func TestProcessBatchRecordsAbortsWithoutFailing(t *testing.T) {
	t.Parallel()

	orchestrator := testOrchestrator(t, http.StatusNotFound, "", http.StatusNotFound)
	processor := NewBatchProcessor(orchestrator)

	entries, err := processor.ProcessBatch(context.Background(), []string{"alice@example.com", "???", "bob_handle"})
	if err != nil {
		t.Fatalf("unexpected batch-level error: %v", err)
	}

	if entries[0].Err != nil || entries[0].Result == nil {
		t.Error("valid first input did not produce a result")
	}
	if entries[1].Err == nil {
		t.Error("unclassifiable input did not record an error")
	}
	if entries[1].Result != nil {
		t.Error("unclassifiable input produced a result")
	}
	if entries[2].Err != nil || entries[2].Result == nil {
		t.Error("valid third input did not produce a result")
	}
}

func TestProcessBatchWithCallback(t *testing.T) {
	t.Parallel()

	orchestrator := testOrchestrator(t, http.StatusNotFound, "", http.StatusNotFound)
	processor := NewBatchProcessor(orchestrator, WithBatchConcurrency(3))

	inputs := []string{"alice@example.com", "bob_handle", "carol_handle", "dave@example.com"}

	var mu sync.Mutex
	seen := make(map[int]BatchEntry)

	err := processor.ProcessBatchWithCallback(context.Background(), inputs, func(entry BatchEntry, index int) {
		mu.Lock()
		defer mu.Unlock()
		seen[index] = entry
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(seen) != len(inputs) {
		t.Fatalf("callback ran for %d inputs, expected %d", len(seen), len(inputs))
	}
	for i, input := range inputs {
		entry, ok := seen[i]
		if !ok {
			t.Errorf("no callback for input %d", i)
			continue
		}
		if entry.Input != input {
			t.Errorf("callback %d: got input %q, expected %q", i, entry.Input, input)
		}
	}
}

func TestProcessBatchCancelledContext(t *testing.T) {
	t.Parallel()

	orchestrator := testOrchestrator(t, http.StatusNotFound, "", http.StatusNotFound)
	processor := NewBatchProcessor(orchestrator)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := processor.ProcessBatch(ctx, []string{"alice@example.com"}); err == nil {
		t.Fatal("expected a cancellation error, got nil")
	}
}
