package breach

import (
	"bufio"
	"context"
	"crypto/sha1" //nolint:gosec // the range protocol is defined over SHA-1
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultRangeBaseURL is the production pwned-passwords range API.
	DefaultRangeBaseURL = "https://api.pwnedpasswords.com"

	// defaultRangeTimeout bounds one range lookup.
	defaultRangeTimeout = 10 * time.Second

	// hashPrefixLen is how many hex characters of the SHA-1 digest are
	// sent upstream. Only the prefix ever leaves the process.
	hashPrefixLen = 5
)

// RangeClient checks passwords against a pwned-passwords range API using
// k-anonymity: the request carries a five-character hash prefix, the
// response lists every known suffix under that prefix, and the match is
// made locally. The service never sees the password or its full hash.
type RangeClient struct {
	baseURL    string
	httpClient *http.Client
}

// RangeOption configures a RangeClient.
type RangeOption func(*RangeClient)

// WithRangeBaseURL overrides the API root.
func WithRangeBaseURL(baseURL string) RangeOption {
	return func(c *RangeClient) {
		c.baseURL = baseURL
	}
}

// WithRangeHTTPClient sets a custom HTTP client.
func WithRangeHTTPClient(client *http.Client) RangeOption {
	return func(c *RangeClient) {
		c.httpClient = client
	}
}

// NewRangeClient creates a password range client.
func NewRangeClient(opts ...RangeOption) *RangeClient {
	client := &RangeClient{
		baseURL: DefaultRangeBaseURL,
		httpClient: &http.Client{
			Timeout: defaultRangeTimeout,
		},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// CompromisedCount returns how many times the password appears in known
// breach corpora. Zero means the password was not found.
func (c *RangeClient) CompromisedCount(ctx context.Context, password string) (int, error) {
	sum := sha1.Sum([]byte(password)) //nolint:gosec // protocol-mandated digest
	digest := strings.ToUpper(hex.EncodeToString(sum[:]))
	prefix, suffix := digest[:hashPrefixLen], digest[hashPrefixLen:]

	endpoint := fmt.Sprintf("%s/range/%s", c.baseURL, prefix)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create range request: %w", err)
	}
	req.Header.Set("User-Agent", hibpUserAgent)
	// Padding hides the true bucket size from traffic observers; padded
	// rows report a zero count and never match a real suffix.
	req.Header.Set("Add-Padding", "true")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("password range lookup failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only response body

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("password range lookup: unexpected status %d", resp.StatusCode)
	}

	return matchSuffix(resp.Body, suffix)
}

// matchSuffix scans SUFFIX:COUNT lines for the local hash suffix.
func matchSuffix(body io.Reader, suffix string) (int, error) {
	scanner := bufio.NewScanner(io.LimitReader(body, maxResponseSize))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		candidate, countText, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		if !strings.EqualFold(candidate, suffix) {
			continue
		}
		count, err := strconv.Atoi(strings.TrimSpace(countText))
		if err != nil {
			return 0, fmt.Errorf("malformed range response line %q: %w", line, err)
		}
		return count, nil
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("failed to read range response: %w", err)
	}
	return 0, nil
}
