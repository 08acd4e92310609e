package http

import (
	"sync/atomic"
	"time"
)

// Stats tracks process-level counters reported by the root status endpoint.
type Stats struct {
	startedAt time.Time
	responses atomic.Int64
}

// NewStats creates a Stats anchored at the current time.
func NewStats() *Stats {
	return &Stats{startedAt: time.Now().UTC()}
}

// Uptime returns how long the server has been running.
func (s *Stats) Uptime() time.Duration {
	return time.Since(s.startedAt)
}

// ResponsesHandled returns the number of responses written so far.
func (s *Stats) ResponsesHandled() int64 {
	return s.responses.Load()
}

func (s *Stats) countResponse() {
	s.responses.Add(1)
}
