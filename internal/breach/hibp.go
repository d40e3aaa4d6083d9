package breach

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/exposurelab/exposurescan/internal/model"
)

const (
	// DefaultHIBPBaseURL is the production Have I Been Pwned v3 API.
	DefaultHIBPBaseURL = "https://haveibeenpwned.com/api/v3"

	// defaultHIBPTimeout bounds one breach lookup. The breach API is a
	// single request, so this also bounds the whole breach stage.
	defaultHIBPTimeout = 10 * time.Second

	// hibpUserAgent identifies this client; the API rejects requests
	// without a user agent.
	hibpUserAgent = "exposurescan"

	// maxResponseSize caps how much of a provider response is read (1MB).
	maxResponseSize = 1 * 1024 * 1024

	// hibpDateLayout is the date-only format used by breach records.
	hibpDateLayout = "2006-01-02"
)

// HIBPClient queries a Have I Been Pwned compatible breach API.
type HIBPClient struct {
	// baseURL is the API root, overridable for tests and mirrors.
	baseURL string

	// apiKey authenticates breached-account lookups. Empty means
	// lookups fail with ErrNoCredential without touching the network.
	apiKey string

	// httpClient performs the requests.
	httpClient *http.Client
}

// HIBPOption configures an HIBPClient.
type HIBPOption func(*HIBPClient)

// WithHIBPBaseURL overrides the API root.
func WithHIBPBaseURL(baseURL string) HIBPOption {
	return func(c *HIBPClient) {
		c.baseURL = baseURL
	}
}

// WithHIBPHTTPClient sets a custom HTTP client.
func WithHIBPHTTPClient(client *http.Client) HIBPOption {
	return func(c *HIBPClient) {
		c.httpClient = client
	}
}

// WithHIBPTimeout sets the per-lookup timeout.
func WithHIBPTimeout(timeout time.Duration) HIBPOption {
	return func(c *HIBPClient) {
		c.httpClient.Timeout = timeout
	}
}

// NewHIBPClient creates a breach provider backed by the HIBP v3 API.
func NewHIBPClient(apiKey string, opts ...HIBPOption) *HIBPClient {
	client := &HIBPClient{
		baseURL: DefaultHIBPBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: defaultHIBPTimeout,
		},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Name returns the provider's display name.
func (c *HIBPClient) Name() string {
	return "Have I Been Pwned"
}

// hibpBreach mirrors the API's breach record shape.
type hibpBreach struct {
	Name        string   `json:"Name"`        //nolint:tagliatelle // upstream API uses PascalCase
	Title       string   `json:"Title"`       //nolint:tagliatelle // upstream API uses PascalCase
	Domain      string   `json:"Domain"`      //nolint:tagliatelle // upstream API uses PascalCase
	BreachDate  string   `json:"BreachDate"`  //nolint:tagliatelle // upstream API uses PascalCase
	PwnCount    int      `json:"PwnCount"`    //nolint:tagliatelle // upstream API uses PascalCase
	DataClasses []string `json:"DataClasses"` //nolint:tagliatelle // upstream API uses PascalCase
}

// Lookup returns the breaches the email appears in. A 404 from the API
// means the address is clean and returns an empty slice with no error.
func (c *HIBPClient) Lookup(ctx context.Context, email string) ([]model.BreachSource, error) {
	if c.apiKey == "" {
		return nil, ErrNoCredential
	}

	endpoint := fmt.Sprintf("%s/breachedaccount/%s?truncateResponse=false",
		c.baseURL, url.PathEscape(email))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create breach lookup request: %w", err)
	}
	req.Header.Set("hibp-api-key", c.apiKey)
	req.Header.Set("User-Agent", hibpUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only response body

	switch resp.StatusCode {
	case http.StatusOK:
		return c.parseBreaches(resp.Body)
	case http.StatusNotFound:
		// Not found in any breach.
		return []model.BreachSource{}, nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrUnauthorized
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	default:
		return nil, fmt.Errorf("%w: unexpected status %d", ErrUnavailable, resp.StatusCode)
	}
}

// parseBreaches decodes the API's breach array into model sources.
func (c *HIBPClient) parseBreaches(body io.Reader) ([]model.BreachSource, error) {
	var records []hibpBreach
	if err := json.NewDecoder(io.LimitReader(body, maxResponseSize)).Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", ErrUnavailable, err)
	}

	sources := make([]model.BreachSource, 0, len(records))
	for _, record := range records {
		source := model.BreachSource{
			Name:        record.Title,
			Domain:      record.Domain,
			DataClasses: record.DataClasses,
			PwnCount:    record.PwnCount,
		}
		if source.Name == "" {
			source.Name = record.Name
		}
		if record.BreachDate != "" {
			// Unparseable dates stay zero; recency checks skip them.
			if date, err := time.Parse(hibpDateLayout, record.BreachDate); err == nil {
				source.BreachDate = date
			}
		}
		sources = append(sources, source)
	}
	return sources, nil
}
