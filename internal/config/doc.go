// Package config holds the runtime configuration for exposurescan,
// populated from defaults, an optional YAML file, and CLI flags in
// that order of precedence.
package config
