package breach

import "errors"

// Sentinel errors returned by providers. The Checker maps each one to a
// limitation note on the degraded result; they never escape to callers of
// Check.
var (
	// ErrNoCredential is returned when no API credential is configured.
	ErrNoCredential = errors.New("breach provider credential not configured")

	// ErrUnauthorized is returned when the provider rejects the
	// configured credential.
	ErrUnauthorized = errors.New("breach provider rejected credential")

	// ErrRateLimited is returned when the provider throttled the lookup.
	ErrRateLimited = errors.New("breach provider rate limited")

	// ErrUnavailable is returned for network failures and unexpected
	// upstream responses.
	ErrUnavailable = errors.New("breach provider unavailable")
)
