package classify

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/exposurelab/exposurescan/internal/model"
)

// Confidence levels per match rule. The values express how ambiguous each
// pattern is: an email match is nearly certain, a URL without an image
// extension is a guess.
const (
	confidenceEmail          = 0.95
	confidenceImageExtension = 0.9
	confidenceImageHint      = 0.7
	confidenceImageSpeculate = 0.5
	confidenceUsername       = 0.85
	confidenceLooseUsername  = 0.6
)

var (
	// emailPattern matches standard local@domain.tld addresses.
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

	// usernamePattern matches handles in the common cross-platform
	// charset at the length most platforms accept.
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.\-]{3,30}$`)

	// looseUsernamePattern matches the same charset at any length, for
	// the best-effort fallback.
	looseUsernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.\-]+$`)
)

// imageExtensions are the file extensions treated as definite image URLs.
var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg", ".bmp"}

// imageHints are substrings that make a non-image-extension URL likely to
// reference an image anyway (CDN paths, avatar endpoints).
var imageHints = []string{"image", "photo", "avatar", "img"}

// Classify detects what kind of value the raw input is. First match wins,
// in this order: empty, email, image-extension URL, other URL, username,
// loose username, unknown.
func Classify(raw string) model.InputClassification {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return model.InputClassification{
			Type:       model.InputTypeUnknown,
			Value:      "",
			Confidence: 0,
			Valid:      false,
			Message:    "Input is required",
		}
	}

	if emailPattern.MatchString(trimmed) {
		return model.InputClassification{
			Type:       model.InputTypeEmail,
			Value:      strings.ToLower(trimmed),
			Confidence: confidenceEmail,
			Valid:      true,
		}
	}

	if isHTTPURL(trimmed) {
		if hasImageExtension(trimmed) {
			return model.InputClassification{
				Type:       model.InputTypeImageURL,
				Value:      trimmed,
				Confidence: confidenceImageExtension,
				Valid:      true,
			}
		}

		// A URL without an image extension is still scanned as an
		// image URL, at reduced confidence.
		if containsImageHint(trimmed) {
			return model.InputClassification{
				Type:       model.InputTypeImageURL,
				Value:      trimmed,
				Confidence: confidenceImageHint,
				Valid:      true,
			}
		}
		return model.InputClassification{
			Type:       model.InputTypeImageURL,
			Value:      trimmed,
			Confidence: confidenceImageSpeculate,
			Valid:      true,
			Message:    "URL has no image extension; treating it as an image URL speculatively",
		}
	}

	if usernamePattern.MatchString(trimmed) {
		return model.InputClassification{
			Type:       model.InputTypeUsername,
			Value:      trimmed,
			Confidence: confidenceUsername,
			Valid:      true,
		}
	}

	if looseUsernamePattern.MatchString(trimmed) {
		return model.InputClassification{
			Type:       model.InputTypeUsername,
			Value:      trimmed,
			Confidence: confidenceLooseUsername,
			Valid:      true,
			Message:    "Input length is unusual for a handle; treating as username",
		}
	}

	return model.InputClassification{
		Type:       model.InputTypeUnknown,
		Value:      trimmed,
		Confidence: 0,
		Valid:      false,
		Message:    "Input does not look like an email address, URL, or username",
	}
}

// isHTTPURL reports whether the input is a parseable http(s) URL with a host.
func isHTTPURL(s string) bool {
	lowered := strings.ToLower(s)
	if !strings.HasPrefix(lowered, "http://") && !strings.HasPrefix(lowered, "https://") {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.Host != ""
}

// hasImageExtension reports whether the URL path ends in a known image
// extension. Query strings are ignored via url.Parse.
func hasImageExtension(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	path := strings.ToLower(u.Path)
	for _, ext := range imageExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// containsImageHint reports whether the URL text mentions an image-related
// word anywhere (path, host, or query).
func containsImageHint(s string) bool {
	lowered := strings.ToLower(s)
	for _, hint := range imageHints {
		if strings.Contains(lowered, hint) {
			return true
		}
	}
	return false
}
