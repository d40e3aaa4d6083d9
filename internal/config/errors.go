package config

import "errors"

// Configuration validation errors.
// These errors are returned by Validate and ValidateServer and name the
// specific value that is wrong.
//
// Design decision: package-level sentinel errors rather than new error
// instances inside Validate. Callers can use errors.Is for programmatic
// handling while the messages stay human-readable.
var (
	// ErrNoInput is returned when no input is specified. It occurs when
	// neither --list nor a positional argument provides something to scan.
	ErrNoInput = errors.New("no input specified: provide an email address, username, or image URL, or use --list")

	// ErrInvalidTimeout is returned when a probe or image-check timeout
	// is not positive. A zero timeout would fail every network check
	// immediately.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidConcurrency is returned when the probe concurrency is
	// not positive. Zero concurrency would stall correlation entirely.
	ErrInvalidConcurrency = errors.New("invalid probe concurrency: must be positive")

	// ErrInvalidBatchSize is returned when the batch size is not
	// positive. A batch size of zero would mean no scans run at all.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are specified. Only one output format can be used at a
	// time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidCacheAge is returned when the breach cache age is
	// negative. Use 0 to disable caching.
	ErrInvalidCacheAge = errors.New("invalid breach cache age: must be non-negative")

	// ErrInvalidRateLimit is returned when the server rate limit is not
	// positive.
	ErrInvalidRateLimit = errors.New("invalid rate limit: must be positive")

	// ErrInvalidRateWindow is returned when the server rate window is
	// not positive.
	ErrInvalidRateWindow = errors.New("invalid rate window: must be positive")
)
