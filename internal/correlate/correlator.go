package correlate

import (
	"context"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/exposurelab/exposurescan/internal/model"
)

const (
	// DefaultProbeTimeout bounds each platform probe. Probes run
	// concurrently, so total stage latency stays near this value even
	// when every platform is slow.
	DefaultProbeTimeout = 5 * time.Second

	// DefaultConcurrency is the probe fan-out width. It matches the
	// default panel size so a default scan probes everything at once.
	DefaultConcurrency = 8

	// minIdentifierLength is the shortest identifier worth probing.
	// Shorter strings collide with too many unrelated accounts.
	minIdentifierLength = 3
)

// Probe outcome confidences. The values grade how much a status code
// actually says about account existence: a 200 profile page is strong
// evidence, a timeout says almost nothing.
const (
	confidenceExists      = 0.8
	confidenceNotFound    = 0.7
	confidenceAmbiguous   = 0.3
	confidenceUnreachable = 0.2
)

// Risk aggregation thresholds over confident found matches.
const (
	// minConfidentMatch is the confidence floor for a found match to
	// count toward the risk tier.
	minConfidentMatch = 0.5

	highRiskMatches   = 4
	mediumRiskMatches = 2
)

// identifierPattern is the charset an identifier must fit to be probed.
var identifierPattern = regexp.MustCompile(`^[A-Za-z0-9._\-]+$`)

// Correlator probes the platform panel for an identifier and aggregates
// the per-platform outcomes into a CorrelationResult.
type Correlator struct {
	prober       Prober
	panel        []Platform
	probeTimeout time.Duration
	concurrency  int
	logger       *slog.Logger
}

// Option configures a Correlator.
type Option func(*Correlator)

// WithPanel replaces the platform panel.
func WithPanel(panel []Platform) Option {
	return func(c *Correlator) {
		c.panel = panel
	}
}

// WithProbeTimeout sets the per-platform probe deadline.
func WithProbeTimeout(timeout time.Duration) Option {
	return func(c *Correlator) {
		c.probeTimeout = timeout
	}
}

// WithConcurrency sets the probe fan-out width.
func WithConcurrency(concurrency int) Option {
	return func(c *Correlator) {
		if concurrency > 0 {
			c.concurrency = concurrency
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Correlator) {
		c.logger = logger
	}
}

// NewCorrelator creates a Correlator. A nil prober gets the production
// HTTP prober; the zero panel gets the built-in default.
func NewCorrelator(prober Prober, opts ...Option) *Correlator {
	correlator := &Correlator{
		prober:       prober,
		panel:        DefaultPanel(),
		probeTimeout: DefaultProbeTimeout,
		concurrency:  DefaultConcurrency,
		logger:       slog.Default(),
	}
	if correlator.prober == nil {
		correlator.prober = NewHTTPProber()
	}
	for _, opt := range opts {
		opt(correlator)
	}
	return correlator
}

// DeriveIdentifier extracts a probe-safe identifier from a classification.
// Usernames pass through; emails contribute their local part when it is
// long enough and fits the identifier charset. The second return is false
// when no safe identifier exists.
func DeriveIdentifier(classification model.InputClassification) (string, bool) {
	switch classification.Type {
	case model.InputTypeUsername:
		return classification.Value, true
	case model.InputTypeEmail:
		local, _, found := strings.Cut(classification.Value, "@")
		if !found {
			return "", false
		}
		if len(local) < minIdentifierLength || !identifierPattern.MatchString(local) {
			return "", false
		}
		return local, true
	default:
		return "", false
	}
}

// Correlate probes every panel platform for the identifier. An identifier
// that is empty or outside the safe charset yields an empty result with an
// explanatory note and no probes.
func (c *Correlator) Correlate(ctx context.Context, identifier string) *model.CorrelationResult {
	if len(identifier) < minIdentifierLength || !identifierPattern.MatchString(identifier) {
		return &model.CorrelationResult{
			Username:         identifier,
			Matches:          []model.PlatformMatch{},
			Risk:             model.RiskLevelLow,
			CheckedPlatforms: []string{},
			LimitationNote:   "no probe-safe identifier could be derived; platforms were not checked",
		}
	}

	checked := make([]string, len(c.panel))
	matches := make([]model.PlatformMatch, len(c.panel))

	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for i, platform := range c.panel {
		i, platform := i, platform
		checked[i] = platform.Name
		g.Go(func() error {
			probeCtx, cancel := context.WithTimeout(groupCtx, c.probeTimeout)
			defer cancel()

			matches[i] = c.probePlatform(probeCtx, platform, identifier)
			return nil
		})
	}
	// Probes record their failures inside the match entries, so the
	// group itself never returns an error.
	_ = g.Wait()

	return &model.CorrelationResult{
		Username:         identifier,
		Matches:          matches,
		Risk:             riskFor(matches),
		CheckedPlatforms: checked,
	}
}

// probePlatform issues a single probe and maps its outcome onto
// (available, confidence) registration semantics.
func (c *Correlator) probePlatform(ctx context.Context, platform Platform, identifier string) model.PlatformMatch {
	match := model.PlatformMatch{
		Platform: platform.Name,
		URL:      platform.URLFor(identifier),
	}

	status, err := c.prober.Probe(ctx, match.URL)
	switch {
	case err != nil:
		// Unreachable platforms are presumed free at low confidence;
		// a timeout must never surface as an error or a found match.
		match.Available = true
		match.Confidence = confidenceUnreachable
		c.logger.Debug("platform probe failed", "platform", platform.Name, "error", err)
	case status == http.StatusOK:
		match.Available = false
		match.Confidence = confidenceExists
	case status == http.StatusNotFound:
		match.Available = true
		match.Confidence = confidenceNotFound
	default:
		match.Available = true
		match.Confidence = confidenceAmbiguous
	}
	return match
}

// riskFor aggregates confident found matches into a risk tier.
func riskFor(matches []model.PlatformMatch) model.RiskLevel {
	confident := 0
	for _, match := range matches {
		if match.Found() && match.Confidence >= minConfidentMatch {
			confident++
		}
	}

	switch {
	case confident >= highRiskMatches:
		return model.RiskLevelHigh
	case confident >= mediumRiskMatches:
		return model.RiskLevelMedium
	default:
		return model.RiskLevelLow
	}
}
