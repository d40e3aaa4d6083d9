package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/exposurelab/exposurescan/internal/breach"
	"github.com/exposurelab/exposurescan/internal/correlate"
	"github.com/exposurelab/exposurescan/internal/imagecheck"
	"github.com/exposurelab/exposurescan/internal/model"
)

// BreachStage looks the scanned email up in breach databases.
// It applies only to email input.
type BreachStage struct {
	checker *breach.Checker
}

// NewBreachStage creates the breach lookup stage.
func NewBreachStage(checker *breach.Checker) *BreachStage {
	return &BreachStage{checker: checker}
}

// Name returns the stage's module name.
func (s *BreachStage) Name() string { return model.ModuleBreachLookup }

// State returns the state entered while this stage runs.
func (s *BreachStage) State() model.ScanState { return model.ScanStateBreachCheck }

// Applies reports whether the input is an email address.
func (s *BreachStage) Applies(classification model.InputClassification) bool {
	return classification.IsEmail()
}

// Run performs the lookup. Provider failures surface as a degraded result
// with a limitation note, never as a stage failure.
func (s *BreachStage) Run(ctx context.Context, scan *model.ScanResult) Outcome {
	result := s.checker.Check(ctx, scan.Classification.Value)
	scan.Breach = result

	details := map[string]any{
		"found":         result.Found,
		"breach_count":  result.BreachCount,
		"api_available": result.APIAvailable,
	}
	switch {
	case !result.APIAvailable:
		return Outcome{
			Message: "Breach lookup could not run: " + result.LimitationNote,
			Details: details,
		}
	case result.Found:
		details["severity"] = result.Severity.String()
		return Outcome{
			Message: fmt.Sprintf("Found %d known breaches (severity %s)", result.BreachCount, result.Severity),
			Details: details,
		}
	default:
		return Outcome{Message: "No known breaches found", Details: details}
	}
}

// CorrelationStage probes the platform panel for the scan's identifier.
// It applies to username input and to email input, where the email's
// local part serves as the identifier when it is probe-safe.
type CorrelationStage struct {
	correlator *correlate.Correlator
}

// NewCorrelationStage creates the platform correlation stage.
func NewCorrelationStage(correlator *correlate.Correlator) *CorrelationStage {
	return &CorrelationStage{correlator: correlator}
}

// Name returns the stage's module name.
func (s *CorrelationStage) Name() string { return model.ModuleCorrelator }

// State returns the state entered while this stage runs.
func (s *CorrelationStage) State() model.ScanState { return model.ScanStateCorrelating }

// Applies reports whether an identifier can be derived from the input.
func (s *CorrelationStage) Applies(classification model.InputClassification) bool {
	return classification.IsUsername() || classification.IsEmail()
}

// Run probes the panel. An email whose local part is not probe-safe
// yields an empty result with an explanatory note and no probes.
func (s *CorrelationStage) Run(ctx context.Context, scan *model.ScanResult) Outcome {
	identifier, _ := correlate.DeriveIdentifier(scan.Classification)
	result := s.correlator.Correlate(ctx, identifier)
	scan.Correlation = result

	found := result.FoundCount()
	details := map[string]any{
		"found_count":       found,
		"checked_platforms": len(result.CheckedPlatforms),
		"risk":              result.Risk.String(),
	}
	if len(result.CheckedPlatforms) == 0 {
		return Outcome{
			Message: "Platform correlation could not run: " + result.LimitationNote,
			Details: details,
		}
	}
	message := fmt.Sprintf("Found matching accounts on %d of %d platforms", found, len(result.CheckedPlatforms))
	if found > 0 {
		names := make([]string, 0, found)
		for _, platform := range result.FoundPlatforms() {
			names = append(names, correlate.DisplayName(platform))
		}
		details["platforms"] = names
		message = fmt.Sprintf("%s (%s)", message, strings.Join(names, ", "))
	}
	return Outcome{Message: message, Details: details}
}

// ImageStage checks whether the scanned image URL is publicly accessible.
// It applies only to image URL input.
type ImageStage struct {
	checker *imagecheck.Checker
}

// NewImageStage creates the image accessibility stage.
func NewImageStage(checker *imagecheck.Checker) *ImageStage {
	return &ImageStage{checker: checker}
}

// Name returns the stage's module name.
func (s *ImageStage) Name() string { return model.ModuleImageCheck }

// State returns the state entered while this stage runs.
func (s *ImageStage) State() model.ScanState { return model.ScanStateImageCheck }

// Applies reports whether the input is an image URL.
func (s *ImageStage) Applies(classification model.InputClassification) bool {
	return classification.IsImageURL()
}

// Run performs the accessibility check. Unreachable or non-image URLs
// degrade into an unanalyzed result with a limitation note.
func (s *ImageStage) Run(ctx context.Context, scan *model.ScanResult) Outcome {
	result := s.checker.Check(ctx, scan.Classification.Value)
	scan.Image = result

	details := map[string]any{
		"analyzed":   result.Analyzed,
		"indicators": len(result.ExposureIndicators),
	}
	if result.SourceDomain != "" {
		details["source_domain"] = result.SourceDomain
	}
	if !result.Analyzed {
		return Outcome{
			Message: "Image could not be analyzed: " + result.LimitationNote,
			Details: details,
		}
	}
	return Outcome{Message: "Image is publicly accessible", Details: details}
}
