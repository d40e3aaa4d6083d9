package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/exposurelab/exposurescan/internal/breach"
	"github.com/exposurelab/exposurescan/internal/correlate"
	"github.com/exposurelab/exposurescan/internal/imagecheck"
	"github.com/exposurelab/exposurescan/internal/limiter"
)

// Default configuration values. Component packages own the defaults for
// their own timeouts and limits; this package re-exports them so that a
// Config can be built in one place.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "exposurescan"

	// DefaultServerAddr is the listen address of the scan server.
	// Binding all interfaces on a well-known development port keeps the
	// server usable from containers without extra flags.
	DefaultServerAddr = ":8080"

	// DefaultBatchSize is the number of concurrent scans when processing
	// an input list. Each scan already fans out its platform probes, so a
	// small batch keeps the total connection count reasonable.
	DefaultBatchSize = 4
)

// Config holds all configuration options for exposurescan.
// It is populated from CLI flags and an optional YAML file and passed
// through the application via dependency injection rather than global
// state.
//
// Design decision: a single flat struct instead of nested sub-structs.
// The number of options is manageable, and nesting would add complexity
// without significant benefit.
type Config struct {
	// HIBPAPIKey is the Have I Been Pwned API key. When empty, breach
	// lookups degrade to an unavailable result instead of failing the
	// scan.
	HIBPAPIKey string

	// ProbeTimeout is the per-platform timeout for username probes.
	ProbeTimeout time.Duration

	// ProbeConcurrency is the number of platform probes in flight at
	// once during correlation.
	ProbeConcurrency int

	// ImageTimeout is the timeout for the image accessibility check.
	ImageTimeout time.Duration

	// BreachCacheAge is how long cached breach lookups stay valid.
	// Zero disables the cache.
	BreachCacheAge time.Duration

	// Platforms is the panel of platforms probed during correlation.
	Platforms []correlate.Platform

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// BatchSize is the number of concurrent scans when processing
	// multiple inputs.
	BatchSize int

	// ConfigFilePath is the path to the configuration file. If empty,
	// the tool searches the standard locations (see FindConfigFile).
	ConfigFilePath string

	// JSONReport enables JSON report output instead of the
	// human-readable format. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of the
	// human-readable format. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report. When set, the
	// report is written to this file instead of stdout.
	ReportFile string

	// StreamNDJSON switches the scan command to raw NDJSON output:
	// progress events and the terminal result are written to stdout as
	// they happen, and no report is rendered. Mutually exclusive with
	// JSONReport and MarkdownReport.
	StreamNDJSON bool

	// Inputs is the list of inputs to scan: email addresses, usernames,
	// or image URLs.
	Inputs []string

	// ServerAddr is the listen address for the serve command.
	ServerAddr string

	// RateLimit is the number of scan requests each client may start
	// per RateWindow on the server.
	RateLimit int

	// RateWindow is the sliding window the server's rate limit applies
	// over.
	RateWindow time.Duration

	// DBDir is the directory for the SQLite database. When set, scan
	// results are persisted and breach lookups are cached. When empty,
	// nothing is written to disk.
	DBDir string

	// SaveToDB indicates whether to persist scan results. Automatically
	// set to true when DBDir is configured.
	SaveToDB bool
}

// NewConfig creates a new Config with default values. All fields are set
// to safe defaults that work without any flags or file.
//
// Design decision: a constructor instead of relying on zero values,
// because most defaults are non-zero (timeouts, limits, the platform
// panel). The constructor also documents what the defaults are.
func NewConfig() *Config {
	return &Config{
		ProbeTimeout:     correlate.DefaultProbeTimeout,
		ProbeConcurrency: correlate.DefaultConcurrency,
		ImageTimeout:     imagecheck.DefaultCheckTimeout,
		BreachCacheAge:   breach.DefaultCacheMaxAge,
		Platforms:        correlate.DefaultPanel(),
		BatchSize:        DefaultBatchSize,
		ServerAddr:       DefaultServerAddr,
		RateLimit:        limiter.DefaultLimit,
		RateWindow:       limiter.DefaultWindow,
	}
}

// XDGDataDir returns the XDG data directory for exposurescan.
// On Linux: ~/.local/share/exposurescan
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for exposurescan.
// On Linux: ~/.config/exposurescan
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for exposurescan.
// On Linux: ~/.cache/exposurescan
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// Validate checks the configuration for the scan command. It returns a
// specific error describing the first invalid value found.
//
// Design decision: validate once after CLI parsing rather than at each
// point of use, so bad values fail fast with a clear message. The first
// error is returned rather than collecting all errors, because fixing
// one often makes the others irrelevant.
func (c *Config) Validate() error {
	if len(c.Inputs) == 0 {
		return ErrNoInput
	}
	return c.validateCommon()
}

// ValidateServer checks the configuration for the serve command, which
// takes no inputs but requires valid rate-limit settings.
func (c *Config) ValidateServer() error {
	if c.RateLimit <= 0 {
		return ErrInvalidRateLimit
	}
	if c.RateWindow <= 0 {
		return ErrInvalidRateWindow
	}
	return c.validateCommon()
}

func (c *Config) validateCommon() error {
	if c.ProbeTimeout <= 0 || c.ImageTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.ProbeConcurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	if c.StreamNDJSON && (c.JSONReport || c.MarkdownReport) {
		return ErrConflictingReportFormats
	}
	if c.BreachCacheAge < 0 {
		return ErrInvalidCacheAge
	}
	for _, platform := range c.Platforms {
		if err := platform.Validate(); err != nil {
			return err
		}
	}
	return nil
}
