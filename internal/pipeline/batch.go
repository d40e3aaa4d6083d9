package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/exposurelab/exposurescan/internal/model"
)

// BatchEntry pairs one batch input with its scan outcome. Err is set when
// the scan aborted, in which case Result is nil.
type BatchEntry struct {
	// Input is the raw input this entry belongs to.
	Input string

	// Result is the completed scan, nil when the scan aborted.
	Result *model.ScanResult

	// Err records why the scan produced no result.
	Err error
}

// BatchProcessor runs scans for multiple inputs concurrently.
//
// Design decision: batching lives outside the Orchestrator because:
//  1. The Orchestrator stays focused on single-scan execution
//  2. The Orchestrator is already safe for concurrent use, so one instance
//     serves the whole batch
//  3. Batch consumers want final results, not interleaved event streams,
//     so batch scans publish to a NopSink
type BatchProcessor struct {
	// orchestrator executes each scan.
	orchestrator *Orchestrator

	// concurrency is the maximum number of concurrent scans.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger

	// entries stores completed outcomes, indexed by input position.
	entries []BatchEntry
	mu      sync.Mutex
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithBatchConcurrency sets the maximum number of concurrent scans.
// Default is 4 if not specified.
func WithBatchConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a BatchProcessor around the orchestrator.
func NewBatchProcessor(orchestrator *Orchestrator, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		orchestrator: orchestrator,
		concurrency:  4,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch scans every input concurrently, bounded by the configured
// concurrency, and returns the outcomes in input order. A scan that
// aborts records its error in its entry instead of failing the batch; the
// error return reports only batch-level cancellation.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, inputs []string) ([]BatchEntry, error) {
	bp.logger.Info("starting batch processing",
		"total_inputs", len(inputs),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()
	bp.entries = make([]BatchEntry, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, input := range inputs {
		i, input := i, input
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			result, err := bp.orchestrator.Scan(ctx, input, NopSink{})

			bp.mu.Lock()
			bp.entries[i] = BatchEntry{Input: input, Result: result, Err: err}
			bp.mu.Unlock()

			if err != nil {
				bp.logger.Warn("batch scan produced no result",
					"index", i,
					"error", err,
				)
			}
			return nil
		})
	}

	err := g.Wait()

	bp.logger.Info("batch processing complete",
		"total_inputs", len(inputs),
		"elapsed", time.Since(startTime),
	)

	return bp.entries, err
}

// ProcessBatchWithCallback scans every input and calls the callback as
// each scan finishes. The callback runs on the goroutine that completed
// the scan and must be safe for concurrent use.
func (bp *BatchProcessor) ProcessBatchWithCallback(ctx context.Context, inputs []string, callback func(entry BatchEntry, index int)) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, input := range inputs {
		i, input := i, input
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			result, err := bp.orchestrator.Scan(ctx, input, NopSink{})
			callback(BatchEntry{Input: input, Result: result, Err: err}, i)
			return nil
		})
	}

	return g.Wait()
}
