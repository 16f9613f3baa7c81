package worker

import (
	"fmt"
	"sync"
	"time"
)

// Stats counts terminal outcomes process-wide. All counters are guarded by
// one mutex; contention is irrelevant next to upload I/O.
type Stats struct {
	mu sync.Mutex

	discovered int64
	uploaded   int64
	duplicates int64
	archived   int64
	rejected   int64
	failed     int64

	started      time.Time
	lastActivity time.Time
}

// StatsSnapshot is a point-in-time copy of the counters.
type StatsSnapshot struct {
	Discovered int64
	Uploaded   int64
	Duplicates int64
	Archived   int64
	Rejected   int64
	Failed     int64
	Runtime    time.Duration
}

func NewStats() *Stats {
	now := time.Now()
	return &Stats{started: now, lastActivity: now}
}

func (s *Stats) touch() {
	s.lastActivity = time.Now()
}

func (s *Stats) Discovered() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.discovered++
	s.touch()
}

func (s *Stats) Uploaded() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploaded++
	s.touch()
}

func (s *Stats) Duplicate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.duplicates++
	s.touch()
}

func (s *Stats) Archived() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.archived++
	s.touch()
}

func (s *Stats) Rejected() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rejected++
	s.touch()
}

func (s *Stats) Failed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failed++
	s.touch()
}

// Snapshot returns a copy of the current counters.
func (s *Stats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return StatsSnapshot{
		Discovered: s.discovered,
		Uploaded:   s.uploaded,
		Duplicates: s.duplicates,
		Archived:   s.archived,
		Rejected:   s.rejected,
		Failed:     s.failed,
		Runtime:    time.Since(s.started),
	}
}

// Summary renders a one-line human-readable report.
func (s *Stats) Summary() string {
	snap := s.Snapshot()
	return fmt.Sprintf(
		"discovered=%d uploaded=%d duplicates=%d archived=%d rejected=%d failed=%d runtime=%s",
		snap.Discovered, snap.Uploaded, snap.Duplicates, snap.Archived,
		snap.Rejected, snap.Failed, snap.Runtime.Round(time.Second))
}
