package breach

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/exposurelab/exposurescan/internal/model"
)

// mockCacheStore is a CacheStore with canned behavior.
type mockCacheStore struct {
	cached     []model.BreachSource
	cacheHit   bool
	readErr    error
	writeErr   error
	readCalls  int
	writeCalls int
	storedHash string
}

func (m *mockCacheStore) CachedBreaches(_ context.Context, _ string, _ time.Duration) ([]model.BreachSource, bool, error) {
	m.readCalls++
	return m.cached, m.cacheHit, m.readErr
}

func (m *mockCacheStore) StoreBreaches(_ context.Context, emailHash, _ string, _ []model.BreachSource) error {
	m.writeCalls++
	m.storedHash = emailHash
	return m.writeErr
}

// TestCachingProviderLookup tests the cache-then-provider flow.
func TestCachingProviderLookup(t *testing.T) {
	t.Parallel()

	t.Run("fresh cache hit skips the provider", func(t *testing.T) {
		t.Parallel()

		inner := &mockProvider{sources: []model.BreachSource{{Name: "Remote"}}}
		store := &mockCacheStore{
			cached:   []model.BreachSource{{Name: "Cached"}},
			cacheHit: true,
		}
		provider := NewCachingProvider(inner, store)

		sources, err := provider.Lookup(context.Background(), "user@example.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(sources) != 1 || sources[0].Name != "Cached" {
			t.Errorf("expected cached sources, got %+v", sources)
		}
		if inner.calls != 0 {
			t.Errorf("expected no provider calls, got %d", inner.calls)
		}
	})

	t.Run("cache miss queries and stores", func(t *testing.T) {
		t.Parallel()

		inner := &mockProvider{sources: []model.BreachSource{{Name: "Remote"}}}
		store := &mockCacheStore{}
		provider := NewCachingProvider(inner, store)

		sources, err := provider.Lookup(context.Background(), "user@example.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(sources) != 1 || sources[0].Name != "Remote" {
			t.Errorf("expected provider sources, got %+v", sources)
		}
		if inner.calls != 1 {
			t.Errorf("expected one provider call, got %d", inner.calls)
		}
		if store.writeCalls != 1 {
			t.Errorf("expected one cache write, got %d", store.writeCalls)
		}
		if store.storedHash != HashEmail("user@example.com") {
			t.Error("expected the cache keyed by the email hash")
		}
	})

	t.Run("provider errors are not cached", func(t *testing.T) {
		t.Parallel()

		inner := &mockProvider{err: ErrRateLimited}
		store := &mockCacheStore{}
		provider := NewCachingProvider(inner, store)

		_, err := provider.Lookup(context.Background(), "user@example.com")
		if !errors.Is(err, ErrRateLimited) {
			t.Errorf("got error %v, expected ErrRateLimited", err)
		}
		if store.writeCalls != 0 {
			t.Errorf("expected no cache writes, got %d", store.writeCalls)
		}
	})

	t.Run("cache read failure falls through to the provider", func(t *testing.T) {
		t.Parallel()

		inner := &mockProvider{sources: []model.BreachSource{}}
		store := &mockCacheStore{readErr: errors.New("disk full")}
		provider := NewCachingProvider(inner, store)

		_, err := provider.Lookup(context.Background(), "user@example.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if inner.calls != 1 {
			t.Errorf("expected one provider call, got %d", inner.calls)
		}
	})

	t.Run("cache write failure does not fail the lookup", func(t *testing.T) {
		t.Parallel()

		inner := &mockProvider{sources: []model.BreachSource{{Name: "Remote"}}}
		store := &mockCacheStore{writeErr: errors.New("disk full")}
		provider := NewCachingProvider(inner, store)

		sources, err := provider.Lookup(context.Background(), "user@example.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(sources) != 1 {
			t.Errorf("expected the provider result despite the write failure, got %+v", sources)
		}
	})

	t.Run("name delegates to the wrapped provider", func(t *testing.T) {
		t.Parallel()

		provider := NewCachingProvider(&mockProvider{name: "Have I Been Pwned"}, &mockCacheStore{})
		if provider.Name() != "Have I Been Pwned" {
			t.Errorf("got name %q", provider.Name())
		}
	})
}
