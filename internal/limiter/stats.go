package limiter

import (
	"sync/atomic"
	"time"
)

// Stats aggregates process-wide scan counters. All methods are safe for
// concurrent use.
type Stats struct {
	startedAt time.Time
	total     atomic.Int64
	completed atomic.Int64
	aborted   atomic.Int64
	throttled atomic.Int64
}

// NewStats creates a Stats anchored at the current time.
func NewStats() *Stats {
	return &Stats{startedAt: time.Now().UTC()}
}

// RecordScan counts an accepted scan request.
func (s *Stats) RecordScan() {
	s.total.Add(1)
}

// RecordCompleted counts a scan that produced a result.
func (s *Stats) RecordCompleted() {
	s.completed.Add(1)
}

// RecordAborted counts a scan that terminated without a result.
func (s *Stats) RecordAborted() {
	s.aborted.Add(1)
}

// RecordThrottled counts a request rejected by the rate limiter.
func (s *Stats) RecordThrottled() {
	s.throttled.Add(1)
}

// Snapshot captures the current counter values.
func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		TotalScans:        s.total.Load(),
		CompletedScans:    s.completed.Load(),
		AbortedScans:      s.aborted.Load(),
		ThrottledRequests: s.throttled.Load(),
		UptimeSeconds:     int64(time.Since(s.startedAt).Seconds()),
	}
}

// Snapshot is a point-in-time view of the counters.
type Snapshot struct {
	// TotalScans counts accepted scan requests.
	TotalScans int64 `json:"total_scans"`

	// CompletedScans counts scans that produced a result.
	CompletedScans int64 `json:"completed_scans"`

	// AbortedScans counts scans terminated without a result.
	AbortedScans int64 `json:"aborted_scans"`

	// ThrottledRequests counts requests rejected by the rate limiter.
	ThrottledRequests int64 `json:"throttled_requests"`

	// UptimeSeconds is how long the process has been serving.
	UptimeSeconds int64 `json:"uptime_seconds"`
}
