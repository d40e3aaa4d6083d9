package correlate

import (
	"errors"
	"net/url"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// usernamePlaceholder is the substitution token in profile URL templates.
const usernamePlaceholder = "{username}"

// Sentinel errors for panel validation.
var (
	// ErrPlatformName is returned for a panel entry without a name.
	ErrPlatformName = errors.New("platform name must not be empty")

	// ErrPlatformTemplate is returned when a profile URL template is not
	// an http(s) URL containing the {username} placeholder.
	ErrPlatformTemplate = errors.New("platform profile_url must be an http(s) URL containing {username}")
)

// Platform is one entry in the correlation panel: a platform name and the
// URL template its public profiles live under.
type Platform struct {
	// Name is the platform's lowercase slug, e.g. "github".
	Name string `json:"name" yaml:"name"`

	// ProfileURL is the profile URL template with a {username}
	// placeholder, e.g. "https://github.com/{username}".
	ProfileURL string `json:"profile_url" yaml:"profile_url"`
}

// URLFor returns the probe URL for an identifier, with the identifier
// path-escaped so panel templates cannot be steered to other paths.
func (p Platform) URLFor(identifier string) string {
	return strings.ReplaceAll(p.ProfileURL, usernamePlaceholder, url.PathEscape(identifier))
}

// DisplayName returns the platform name in title case for human-readable
// text.
func (p Platform) DisplayName() string {
	return DisplayName(p.Name)
}

// DisplayName returns a platform slug in title case. Result consumers hold
// only the slug, so the helper is exported alongside the Platform method.
func DisplayName(name string) string {
	return cases.Title(language.English).String(name)
}

// Validate checks that the panel entry is usable.
func (p Platform) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrPlatformName
	}
	lowered := strings.ToLower(p.ProfileURL)
	if !strings.HasPrefix(lowered, "http://") && !strings.HasPrefix(lowered, "https://") {
		return ErrPlatformTemplate
	}
	if !strings.Contains(p.ProfileURL, usernamePlaceholder) {
		return ErrPlatformTemplate
	}
	return nil
}

// DefaultPanel returns the built-in correlation panel. The set favors
// platforms whose profile pages are public and answer unauthenticated
// requests with meaningful status codes.
func DefaultPanel() []Platform {
	return []Platform{
		{Name: "github", ProfileURL: "https://github.com/{username}"},
		{Name: "gitlab", ProfileURL: "https://gitlab.com/{username}"},
		{Name: "reddit", ProfileURL: "https://www.reddit.com/user/{username}"},
		{Name: "twitter", ProfileURL: "https://twitter.com/{username}"},
		{Name: "instagram", ProfileURL: "https://www.instagram.com/{username}/"},
		{Name: "tiktok", ProfileURL: "https://www.tiktok.com/@{username}"},
		{Name: "twitch", ProfileURL: "https://www.twitch.tv/{username}"},
		{Name: "pinterest", ProfileURL: "https://www.pinterest.com/{username}/"},
	}
}
