package correlate

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// proberUserAgent identifies probe traffic to the platforms.
const proberUserAgent = "exposurescan"

// Prober issues one existence probe and reports the HTTP status.
type Prober interface {
	// Probe performs a HEAD-style fetch of the URL and returns the
	// response status code. The context carries the per-probe deadline.
	Probe(ctx context.Context, probeURL string) (int, error)
}

// HTTPProber probes profile URLs with HEAD requests.
//
// The client deliberately has no global timeout; the correlator applies a
// per-probe deadline through the context so one configuration knob governs
// all probes.
type HTTPProber struct {
	httpClient *http.Client
	userAgent  string
}

// HTTPProberOption configures an HTTPProber.
type HTTPProberOption func(*HTTPProber)

// WithProberHTTPClient sets a custom HTTP client.
func WithProberHTTPClient(client *http.Client) HTTPProberOption {
	return func(p *HTTPProber) {
		p.httpClient = client
	}
}

// WithProberUserAgent overrides the probe user agent.
func WithProberUserAgent(userAgent string) HTTPProberOption {
	return func(p *HTTPProber) {
		p.userAgent = userAgent
	}
}

// NewHTTPProber creates the production prober.
func NewHTTPProber(opts ...HTTPProberOption) *HTTPProber {
	prober := &HTTPProber{
		httpClient: &http.Client{},
		userAgent:  proberUserAgent,
	}
	for _, opt := range opts {
		opt(prober)
	}
	return prober
}

// Probe performs the HEAD request and returns the status code.
func (p *HTTPProber) Probe(ctx context.Context, probeURL string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, probeURL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create probe request: %w", err)
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("probe failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // HEAD responses carry no body

	// Drain whatever is there so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode, nil
}
