package breach

import (
	"context"
	"log/slog"
	"time"

	"github.com/exposurelab/exposurescan/internal/model"
)

// DefaultCacheMaxAge is how long cached breach lookups stay fresh. Breach
// disclosures change slowly; a day-old answer is still useful.
const DefaultCacheMaxAge = 24 * time.Hour

// CacheStore is the persistence surface the caching provider needs. The
// database package implements it; tests supply fakes.
//
// Rows are keyed by the email's SHA-256 hash, never by the address itself.
type CacheStore interface {
	// CachedBreaches returns the stored sources for an email hash when a
	// lookup no older than maxAge exists. The second return reports
	// whether a fresh cached lookup was found at all, which is distinct
	// from a cached empty (clean) result.
	CachedBreaches(ctx context.Context, emailHash string, maxAge time.Duration) ([]model.BreachSource, bool, error)

	// StoreBreaches records a completed lookup. Upserts are idempotent;
	// retrying a lookup never duplicates rows.
	StoreBreaches(ctx context.Context, emailHash, provider string, sources []model.BreachSource) error
}

// CachingProvider serves breach lookups from a local store before asking
// the wrapped provider, and records successful answers for reuse. Failed
// lookups are never cached, so transient provider outages do not poison
// later scans.
type CachingProvider struct {
	inner  Provider
	store  CacheStore
	maxAge time.Duration
	logger *slog.Logger
}

// CacheOption configures a CachingProvider.
type CacheOption func(*CachingProvider)

// WithCacheMaxAge sets how long cached lookups stay fresh.
func WithCacheMaxAge(maxAge time.Duration) CacheOption {
	return func(p *CachingProvider) {
		p.maxAge = maxAge
	}
}

// WithCacheLogger sets the logger for cache bookkeeping failures.
func WithCacheLogger(logger *slog.Logger) CacheOption {
	return func(p *CachingProvider) {
		p.logger = logger
	}
}

// NewCachingProvider wraps a provider with the store-backed cache.
func NewCachingProvider(inner Provider, store CacheStore, opts ...CacheOption) *CachingProvider {
	provider := &CachingProvider{
		inner:  inner,
		store:  store,
		maxAge: DefaultCacheMaxAge,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(provider)
	}
	return provider
}

// Name returns the wrapped provider's display name.
func (p *CachingProvider) Name() string {
	return p.inner.Name()
}

// Lookup serves from cache when fresh, otherwise queries the wrapped
// provider and records its answer. Cache write failures are logged and
// swallowed; the lookup result is what matters.
func (p *CachingProvider) Lookup(ctx context.Context, email string) ([]model.BreachSource, error) {
	emailHash := HashEmail(email)

	cached, ok, err := p.store.CachedBreaches(ctx, emailHash, p.maxAge)
	if err != nil {
		p.logger.Warn("breach cache read failed", "error", err)
	} else if ok {
		p.logger.Debug("breach cache hit", "breaches", len(cached))
		return cached, nil
	}

	sources, err := p.inner.Lookup(ctx, email)
	if err != nil {
		return nil, err
	}

	if storeErr := p.store.StoreBreaches(ctx, emailHash, p.inner.Name(), sources); storeErr != nil {
		p.logger.Warn("breach cache write failed", "error", storeErr)
	}
	return sources, nil
}
