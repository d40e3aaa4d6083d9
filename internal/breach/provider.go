package breach

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/exposurelab/exposurescan/internal/model"
)

// Provider is a breach data source.
//
// Lookup returns the breaches the email appears in, an empty slice when the
// address is clean, or an error (one of the package sentinels, possibly
// wrapped) when the source could not answer. Implementations must not
// return partial results alongside an error.
type Provider interface {
	// Name returns the provider's display name for transparency
	// reporting, e.g. "Have I Been Pwned".
	Name() string

	// Lookup returns the breaches for a normalized email address.
	Lookup(ctx context.Context, email string) ([]model.BreachSource, error)
}

// HashEmail returns the SHA-256 hex digest of the normalized (trimmed,
// lowercased) email address. The cache layer keys rows by this hash so
// plaintext addresses never reach disk.
func HashEmail(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}
