package config

import (
	"time"

	"github.com/exposurelab/exposurescan/internal/correlate"
)

// File represents the structure of the exposurescan configuration file.
// Every field is optional; absent fields leave the corresponding Config
// value untouched.
type File struct {
	// HIBPAPIKey is the Have I Been Pwned API key. Keeping the key in
	// the config file keeps it out of shell history and process lists.
	HIBPAPIKey string `yaml:"hibp_api_key,omitempty"`

	// Platforms replaces the built-in platform panel when non-empty.
	Platforms []correlate.Platform `yaml:"platforms,omitempty"`

	// ServerAddr is the listen address for the serve command.
	ServerAddr string `yaml:"server_addr,omitempty"`

	// RateLimit is the per-client scan limit for the serve command.
	RateLimit int `yaml:"rate_limit,omitempty"`

	// RateWindowSeconds is the rate-limit window in seconds.
	RateWindowSeconds int `yaml:"rate_window_seconds,omitempty"`

	// BreachCacheHours is how long cached breach lookups stay valid,
	// in hours.
	BreachCacheHours int `yaml:"breach_cache_hours,omitempty"`
}

// Apply merges the file's settings into a Config. Only fields the file
// actually sets are applied, so CLI flags processed afterwards can still
// override them and defaults survive an empty file.
func (f *File) Apply(c *Config) {
	if f.HIBPAPIKey != "" {
		c.HIBPAPIKey = f.HIBPAPIKey
	}
	if len(f.Platforms) > 0 {
		c.Platforms = f.Platforms
	}
	if f.ServerAddr != "" {
		c.ServerAddr = f.ServerAddr
	}
	if f.RateLimit > 0 {
		c.RateLimit = f.RateLimit
	}
	if f.RateWindowSeconds > 0 {
		c.RateWindow = time.Duration(f.RateWindowSeconds) * time.Second
	}
	if f.BreachCacheHours > 0 {
		c.BreachCacheAge = time.Duration(f.BreachCacheHours) * time.Hour
	}
}
