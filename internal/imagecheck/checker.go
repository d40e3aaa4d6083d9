package imagecheck

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"

	"github.com/exposurelab/exposurescan/internal/model"
)

const (
	// DefaultCheckTimeout bounds the accessibility probe. It is longer
	// than the platform probe timeout because image hosts are often CDNs
	// with slower cold paths.
	DefaultCheckTimeout = 10 * time.Second

	checkerUserAgent = "exposurescan"
)

// Checker performs the image accessibility check.
type Checker struct {
	client  *http.Client
	timeout time.Duration
	logger  *slog.Logger
}

// CheckerOption configures a Checker.
type CheckerOption func(*Checker)

// WithCheckerHTTPClient replaces the HTTP client.
func WithCheckerHTTPClient(client *http.Client) CheckerOption {
	return func(c *Checker) {
		if client != nil {
			c.client = client
		}
	}
}

// WithCheckTimeout sets the probe deadline.
func WithCheckTimeout(timeout time.Duration) CheckerOption {
	return func(c *Checker) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithCheckerLogger sets the logger.
func WithCheckerLogger(logger *slog.Logger) CheckerOption {
	return func(c *Checker) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewChecker creates a Checker with production defaults.
func NewChecker(opts ...CheckerOption) *Checker {
	checker := &Checker{
		client:  &http.Client{},
		timeout: DefaultCheckTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(checker)
	}
	return checker
}

// Check probes the image URL and reports its public accessibility. It
// never returns an error: unreachable URLs, non-2xx statuses, and
// non-image content types all degrade to an unanalyzed result whose
// limitation note explains why.
func (c *Checker) Check(ctx context.Context, imageURL string) *model.ImageRiskResult {
	parsed, err := url.Parse(imageURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return model.NewUnanalyzedImageResult("the URL could not be parsed as an http(s) address")
	}

	checkCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(checkCtx, http.MethodHead, imageURL, nil)
	if err != nil {
		return model.NewUnanalyzedImageResult("the URL could not be turned into a request")
	}
	req.Header.Set("User-Agent", checkerUserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Debug("image probe failed", "error", err)
		return withDomain(model.NewUnanalyzedImageResult("the image URL could not be reached before the timeout"), parsed)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		note := fmt.Sprintf("the image URL responded with status %d and was not analyzed", resp.StatusCode)
		return withDomain(model.NewUnanalyzedImageResult(note), parsed)
	}

	contentType := resp.Header.Get("Content-Type")
	if !isImageContentType(contentType) {
		note := fmt.Sprintf("the URL serves %q, not an image content type", contentType)
		return withDomain(model.NewUnanalyzedImageResult(note), parsed)
	}

	return withDomain(&model.ImageRiskResult{
		Analyzed:           true,
		PerceptualHash:     metadataHash(imageURL, contentType, resp.ContentLength),
		ExposureIndicators: []model.ExposureIndicator{},
		RiskLevel:          model.RiskLevelLow,
		Disclaimer:         model.ImageCheckDisclaimer,
	}, parsed)
}

// isImageContentType reports whether the Content-Type header declares an
// image. Parameters such as charset are ignored.
func isImageContentType(contentType string) bool {
	mediaType, _, _ := strings.Cut(contentType, ";")
	return strings.HasPrefix(strings.TrimSpace(strings.ToLower(mediaType)), "image/")
}

// metadataHash derives the content identifier from response metadata. It
// is stable for an unchanged resource and cheap to compute, but it is not
// a visual fingerprint.
func metadataHash(imageURL, contentType string, contentLength int64) string {
	digest := sha256.Sum256(fmt.Appendf(nil, "%s|%s|%d", imageURL, contentType, contentLength))
	return hex.EncodeToString(digest[:16])
}

// withDomain annotates the result with the registrable domain hosting the
// image. Hosts without a derivable registrable domain, such as IP
// addresses, leave the field empty.
func withDomain(result *model.ImageRiskResult, parsed *url.URL) *model.ImageRiskResult {
	host := parsed.Hostname()
	if host == "" {
		return result
	}
	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return result
	}
	result.SourceDomain = domain
	return result
}
