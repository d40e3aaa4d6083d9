package limiter

import (
	"log/slog"
	"sync"
	"time"
)

const (
	// DefaultLimit is the default number of requests allowed per key and
	// window.
	DefaultLimit = 10

	// DefaultWindow is the default sliding window length.
	DefaultWindow = time.Minute

	// defaultSweepInterval is how often idle keys are evicted.
	defaultSweepInterval = time.Minute
)

// Limiter is a sliding-window rate limiter keyed by client identifier.
// It is safe for concurrent use. Close stops the background sweeper.
type Limiter struct {
	mu   sync.Mutex
	seen map[string][]time.Time

	limit         int
	window        time.Duration
	sweepInterval time.Duration
	logger        *slog.Logger

	done      chan struct{}
	closeOnce sync.Once
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithSweepInterval sets how often idle keys are evicted.
func WithSweepInterval(interval time.Duration) Option {
	return func(l *Limiter) {
		if interval > 0 {
			l.sweepInterval = interval
		}
	}
}

// WithLimiterLogger sets the logger.
func WithLimiterLogger(logger *slog.Logger) Option {
	return func(l *Limiter) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New creates a Limiter allowing limit requests per window for each key
// and starts its background sweeper. Non-positive limit or window fall
// back to the defaults.
func New(limit int, window time.Duration, opts ...Option) *Limiter {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}

	l := &Limiter{
		seen:          make(map[string][]time.Time),
		limit:         limit,
		window:        window,
		sweepInterval: defaultSweepInterval,
		logger:        slog.Default(),
		done:          make(chan struct{}),
	}

	for _, opt := range opts {
		opt(l)
	}

	go l.sweep()
	return l
}

// Allow reports whether the key may make another request now, recording
// the request when allowed.
func (l *Limiter) Allow(key string) bool {
	now := time.Now()
	cutoff := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	recent := pruneBefore(l.seen[key], cutoff)
	if len(recent) >= l.limit {
		l.seen[key] = recent
		return false
	}
	l.seen[key] = append(recent, now)
	return true
}

// Remaining returns how many requests the key has left in the current
// window.
func (l *Limiter) Remaining(key string) int {
	cutoff := time.Now().Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	used := len(pruneBefore(l.seen[key], cutoff))
	if used >= l.limit {
		return 0
	}
	return l.limit - used
}

// ClientCount returns how many keys currently hold state.
func (l *Limiter) ClientCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.seen)
}

// Reset drops all recorded requests for all keys.
func (l *Limiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seen = make(map[string][]time.Time)
}

// Close stops the background sweeper. Safe to call more than once.
func (l *Limiter) Close() {
	l.closeOnce.Do(func() {
		close(l.done)
	})
}

// sweep periodically evicts keys whose requests all aged out of the
// window, keeping the map bounded by recently active clients.
func (l *Limiter) sweep() {
	ticker := time.NewTicker(l.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-l.done:
			return
		case <-ticker.C:
			l.evictIdle()
		}
	}
}

func (l *Limiter) evictIdle() {
	cutoff := time.Now().Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	evicted := 0
	for key, stamps := range l.seen {
		recent := pruneBefore(stamps, cutoff)
		if len(recent) == 0 {
			delete(l.seen, key)
			evicted++
			continue
		}
		l.seen[key] = recent
	}
	if evicted > 0 {
		l.logger.Debug("evicted idle limiter keys", "count", evicted, "remaining", len(l.seen))
	}
}

// pruneBefore drops timestamps at or before the cutoff. Timestamps are
// appended in order, so the first retained index bounds the copy.
func pruneBefore(stamps []time.Time, cutoff time.Time) []time.Time {
	idx := 0
	for idx < len(stamps) && !stamps[idx].After(cutoff) {
		idx++
	}
	if idx == 0 {
		return stamps
	}
	return append([]time.Time(nil), stamps[idx:]...)
}
