// Package log provides secure logging with automatic sanitization of
// credentials and personal data, built on top of the standard slog package.
//
// This package extends slog to provide:
//   - Automatic masking of email addresses in any log attribute
//   - Sanitization of credentials (API keys, tokens, auth headers)
//   - Configurable log levels with verbose mode support
//
// # Privacy Features
//
// A tool that scans personal identifiers must not leak them through its
// own logs. The SecureHandler masks:
//   - Email addresses, keeping only the first character of the local
//     part ("jane.doe@example.com" becomes "j***@example.com")
//   - Attribute keys that name credentials (api_key, authorization,
//     password and variants)
//   - Values that look like credentials regardless of key (JWT tokens,
//     Bearer/Basic auth strings, long alphanumeric API keys)
//
// Even in verbose mode, these values are masked so debug logs can be
// shared without exposing scan subjects or the operator's API keys.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, true) // verbose=true
//
//	logger.Info("scan started",
//	    "input", "jane.doe@example.com", // logged as "j***@example.com"
//	    "input_type", "email",
//	)
//
//	slog.SetDefault(logger)
package log
