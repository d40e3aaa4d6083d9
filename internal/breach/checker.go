package breach

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/exposurelab/exposurescan/internal/model"
)

// recentBreachYears is the window within which a breach counts as recent
// for severity purposes.
const recentBreachYears = 2

// sensitiveDataClasses are the breach data categories that escalate
// severity on their own. Matching is case-insensitive on the normalized
// class name. The set is intentionally small and explicit; extend it here
// when providers introduce new category names.
var sensitiveDataClasses = map[string]struct{}{
	"passwords":               {},
	"credit cards":            {},
	"social security numbers": {},
	"bank account numbers":    {},
}

// Checker performs breach lookups and never fails: every provider error
// becomes a degraded result with a limitation note.
type Checker struct {
	provider Provider
	logger   *slog.Logger
}

// CheckerOption configures a Checker.
type CheckerOption func(*Checker)

// WithCheckerLogger sets the logger.
func WithCheckerLogger(logger *slog.Logger) CheckerOption {
	return func(c *Checker) {
		c.logger = logger
	}
}

// NewChecker creates a Checker over the given provider. A nil provider is
// allowed and yields unavailable results.
func NewChecker(provider Provider, opts ...CheckerOption) *Checker {
	checker := &Checker{
		provider: provider,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(checker)
	}
	return checker
}

// Check looks up the email and returns a BreachResult describing what was
// found, or a degraded result explaining why nothing could be looked up.
func (c *Checker) Check(ctx context.Context, email string) *model.BreachResult {
	if c.provider == nil {
		return model.NewUnavailableBreachResult("no breach data provider configured")
	}

	sources, err := c.provider.Lookup(ctx, email)
	if err != nil {
		c.logger.Warn("breach lookup degraded", "provider", c.provider.Name(), "error", err)
		return model.NewUnavailableBreachResult(limitationNoteFor(err))
	}

	if len(sources) == 0 {
		return model.NewCleanBreachResult(c.provider.Name())
	}

	return &model.BreachResult{
		Found:        true,
		BreachCount:  len(sources),
		Sources:      sources,
		Severity:     computeSeverity(sources, time.Now().UTC()),
		APIAvailable: true,
		Provider:     c.provider.Name(),
	}
}

// limitationNoteFor translates a provider error into the user-facing note
// on the degraded result. Details stay in the log.
func limitationNoteFor(err error) string {
	switch {
	case errors.Is(err, ErrNoCredential):
		return "no breach API credential configured; breach databases were not queried"
	case errors.Is(err, ErrUnauthorized):
		return "the breach provider rejected the configured credential"
	case errors.Is(err, ErrRateLimited):
		return "the breach provider rate limit was reached; try again later"
	default:
		return "the breach data provider could not be reached"
	}
}

// computeSeverity derives the categorical severity from the breach list.
// The tiers are a ranked fallthrough: each condition is checked from most
// to least severe and the first hit wins.
func computeSeverity(sources []model.BreachSource, now time.Time) model.Severity {
	count := len(sources)
	sensitive := hasSensitiveDataClass(sources)
	recent := hasRecentBreach(sources, now)

	switch {
	case count >= 10:
		return model.SeverityCritical
	case sensitive && recent:
		return model.SeverityCritical
	case count >= 5 || sensitive:
		return model.SeverityHigh
	case count >= 2 || recent:
		return model.SeverityMedium
	default:
		return model.SeverityLow
	}
}

// hasSensitiveDataClass reports whether any breach exposed a sensitive
// data category.
func hasSensitiveDataClass(sources []model.BreachSource) bool {
	for _, source := range sources {
		for _, class := range source.DataClasses {
			normalized := strings.ToLower(strings.TrimSpace(class))
			if _, ok := sensitiveDataClasses[normalized]; ok {
				return true
			}
		}
	}
	return false
}

// hasRecentBreach reports whether any breach occurred within the recency
// window. Unknown dates never count as recent.
func hasRecentBreach(sources []model.BreachSource, now time.Time) bool {
	cutoff := now.AddDate(-recentBreachYears, 0, 0)
	for _, source := range sources {
		if !source.BreachDate.IsZero() && source.BreachDate.After(cutoff) {
			return true
		}
	}
	return false
}
