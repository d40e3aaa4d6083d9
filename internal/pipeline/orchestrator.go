package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/exposurelab/exposurescan/internal/breach"
	"github.com/exposurelab/exposurescan/internal/classify"
	"github.com/exposurelab/exposurescan/internal/correlate"
	"github.com/exposurelab/exposurescan/internal/guidance"
	"github.com/exposurelab/exposurescan/internal/imagecheck"
	"github.com/exposurelab/exposurescan/internal/model"
	"github.com/exposurelab/exposurescan/internal/score"
	"github.com/exposurelab/exposurescan/internal/transparency"
)

// Orchestrator drives one scan through classification, the applicable
// lookup stages, and the assessment steps, publishing progress events
// along the way. It holds no per-scan state and is safe for concurrent
// use by multiple scans.
type Orchestrator struct {
	// stages contains the ordered lookup stages.
	stages []Stage

	// logger is used for structured logging during execution.
	logger *slog.Logger
}

// Option is a function that configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets a custom logger for the orchestrator.
// If not set, the default logger is used.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// New creates a new Orchestrator with the given options.
// Stages should be added using AddStage after creation.
func New(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		stages: make([]Stage, 0),
	}

	for _, opt := range opts {
		opt(o)
	}

	if o.logger == nil {
		o.logger = slog.Default()
	}

	return o
}

// AddStage appends a lookup stage. Stages run in the order added.
func (o *Orchestrator) AddStage(stage Stage) {
	o.stages = append(o.stages, stage)
}

// AddStages appends multiple lookup stages.
func (o *Orchestrator) AddStages(stages ...Stage) {
	o.stages = append(o.stages, stages...)
}

// StageCount returns the number of lookup stages.
func (o *Orchestrator) StageCount() int {
	return len(o.stages)
}

// StageNames returns the stage module names in execution order.
func (o *Orchestrator) StageNames() []string {
	names := make([]string, len(o.stages))
	for i, stage := range o.stages {
		names[i] = stage.Name()
	}
	return names
}

// DefaultOrchestrator creates an orchestrator with the standard stage
// order: breach lookup, then platform correlation, then image check.
//
// Design decision: we provide a default because:
// 1. The stage order is part of the protocol; events arrive in this order
// 2. It keeps CLI and server construction identical
// 3. Per-stage configuration stays on the lookup components themselves
func DefaultOrchestrator(breachChecker *breach.Checker, correlator *correlate.Correlator, imageChecker *imagecheck.Checker, opts ...Option) *Orchestrator {
	o := New(opts...)
	o.AddStages(
		NewBreachStage(breachChecker),
		NewCorrelationStage(correlator),
		NewImageStage(imageChecker),
	)
	return o
}

// Scan runs the full pipeline for one input and returns the composite
// result. Progress events are published to the sink before the result is
// returned; the caller emits the result as the stream's terminal message.
//
// An input that cannot be classified aborts the scan: a single error
// event is published and Scan returns ErrScanAborted with no result. A
// sink publish failure or context cancellation stops the scan at the next
// stage boundary.
func (o *Orchestrator) Scan(ctx context.Context, input string, sink EventSink) (*model.ScanResult, error) {
	scan := model.NewScanResult(strings.TrimSpace(input))

	classification, err := o.classifyStep(ctx, scan, input, sink)
	if err != nil {
		return nil, err
	}

	for _, stage := range o.stages {
		if err := ctx.Err(); err != nil {
			o.logger.Warn("scan cancelled",
				"scan_id", scan.ID,
				"stage", stage.Name(),
				"reason", err,
			)
			return nil, err
		}

		if !stage.Applies(classification) {
			skipped := model.NewChainEvent(stage.Name(), model.EventStatusSkipped,
				fmt.Sprintf("Not applicable for %s input", classification.Type))
			if err := sink.Publish(ctx, skipped); err != nil {
				return nil, err
			}
			continue
		}

		o.logger.Info("executing stage",
			"scan_id", scan.ID,
			"stage", stage.Name(),
			"state", stage.State(),
		)

		event := model.NewChainEvent(stage.Name(), model.EventStatusProcessing, processingMessage(stage))
		event.Details = map[string]any{"state": string(stage.State())}
		if err := sink.Publish(ctx, event); err != nil {
			return nil, err
		}

		outcome := stage.Run(ctx, scan)
		if err := sink.Publish(ctx, event.Completed(outcome.Message, outcome.Details)); err != nil {
			return nil, err
		}
	}

	if err := ctx.Err(); err != nil {
		o.logger.Warn("scan cancelled before assessment", "scan_id", scan.ID, "reason", err)
		return nil, err
	}

	if err := o.assessmentSteps(ctx, scan, sink); err != nil {
		return nil, err
	}

	scan.MarkCompleted()
	o.logger.Info("scan complete",
		"scan_id", scan.ID,
		"input_type", scan.Classification.Type,
		"exposure_score", scan.Verdict.ExposureScore,
		"risk_level", scan.Verdict.RiskLevel,
		"duration", scan.Duration(),
	)
	return scan, nil
}

// classifyStep runs the classifier and publishes its lifecycle events.
// Invalid input terminates the scan here with a single error event.
func (o *Orchestrator) classifyStep(ctx context.Context, scan *model.ScanResult, input string, sink EventSink) (model.InputClassification, error) {
	event := model.NewChainEvent(model.ModuleClassifier, model.EventStatusProcessing, "Classifying input")
	event.Details = map[string]any{"state": string(model.ScanStateClassifying)}
	if err := sink.Publish(ctx, event); err != nil {
		return model.InputClassification{}, err
	}

	classification := classify.Classify(input)
	scan.Classification = classification

	if !classification.Valid {
		message := classification.Message
		if message == "" {
			message = "input could not be classified"
		}
		if err := sink.Publish(ctx, event.Failed(message)); err != nil {
			return model.InputClassification{}, err
		}
		o.logger.Warn("scan aborted", "scan_id", scan.ID, "reason", message)
		return model.InputClassification{}, fmt.Errorf("%w: %s", ErrScanAborted, message)
	}

	completed := event.Completed(
		fmt.Sprintf("Input classified as %s", classification.Type),
		map[string]any{
			"type":       string(classification.Type),
			"confidence": classification.Confidence,
		},
	)
	if err := sink.Publish(ctx, completed); err != nil {
		return model.InputClassification{}, err
	}
	return classification, nil
}

// assessmentSteps computes the verdict, guidance, and transparency from
// the collected lookup results. All three are pure and synchronous; each
// still publishes its own processing and complete events so consumers see
// every state transition.
func (o *Orchestrator) assessmentSteps(ctx context.Context, scan *model.ScanResult, sink EventSink) error {
	err := o.computed(ctx, sink, model.ModuleVerdict, model.ScanStateVerdict,
		"Computing exposure verdict", func() (string, map[string]any) {
			scan.Verdict = score.Compute(scan.Breach, scan.Correlation, scan.Image)
			return fmt.Sprintf("Exposure score %d/100 (%s risk)", scan.Verdict.ExposureScore, scan.Verdict.RiskLevel),
				map[string]any{
					"exposure_score": scan.Verdict.ExposureScore,
					"risk_level":     scan.Verdict.RiskLevel.String(),
					"factors":        len(scan.Verdict.Factors),
				}
		})
	if err != nil {
		return err
	}

	err = o.computed(ctx, sink, model.ModuleGuidance, model.ScanStateGuidance,
		"Generating recommendations", func() (string, map[string]any) {
			scan.Guidance = guidance.Generate(scan.Breach, scan.Correlation, scan.Image)
			return fmt.Sprintf("Prepared %d recommendations", len(scan.Guidance.Recommendations)),
				map[string]any{"recommendations": len(scan.Guidance.Recommendations)}
		})
	if err != nil {
		return err
	}

	return o.computed(ctx, sink, model.ModuleTransparency, model.ScanStateTransparency,
		"Compiling transparency report", func() (string, map[string]any) {
			scan.Transparency = transparency.Build(scan.Classification, scan.Breach, scan.Correlation, scan.Image)
			return fmt.Sprintf("Disclosed %d checks performed, %d not performed",
					len(scan.Transparency.WhatWasChecked), len(scan.Transparency.WhatWasNotChecked)),
				map[string]any{
					"checked":     len(scan.Transparency.WhatWasChecked),
					"not_checked": len(scan.Transparency.WhatWasNotChecked),
				}
		})
}

// computed emits the processing and complete events around one
// synchronous assessment step.
func (o *Orchestrator) computed(ctx context.Context, sink EventSink, module string, state model.ScanState, startMessage string, compute func() (string, map[string]any)) error {
	event := model.NewChainEvent(module, model.EventStatusProcessing, startMessage)
	event.Details = map[string]any{"state": string(state)}
	if err := sink.Publish(ctx, event); err != nil {
		return err
	}

	message, details := compute()
	return sink.Publish(ctx, event.Completed(message, details))
}

// processingMessage is the status line shown while a lookup stage runs.
func processingMessage(stage Stage) string {
	switch stage.Name() {
	case model.ModuleBreachLookup:
		return "Checking breach databases"
	case model.ModuleCorrelator:
		return "Probing platforms for this identifier"
	case model.ModuleImageCheck:
		return "Checking image accessibility"
	default:
		return "Running " + stage.Name()
	}
}
