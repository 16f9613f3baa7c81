// Package dedup tracks which paths are currently being processed so the same
// file is never uploaded twice concurrently.
package dedup

import "sync"

// Tracker is a process-lifetime set of in-flight path claims. One mutex
// guards the whole set; acquire/release are O(1) and rare next to upload I/O.
type Tracker struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
}

func New() *Tracker {
	return &Tracker{inFlight: make(map[string]struct{})}
}

// TryAcquire claims path for the caller. It returns false when another
// worker already owns it. Check-and-set under one lock closes the race
// between the watcher seeing an event and a worker picking the file up.
func (t *Tracker) TryAcquire(path string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.inFlight[path]; ok {
		return false
	}
	t.inFlight[path] = struct{}{}
	return true
}

// Release drops the claim on path. Idempotent; releasing an absent path is a
// no-op.
func (t *Tracker) Release(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.inFlight, path)
}

// Owned reports whether path is currently claimed.
func (t *Tracker) Owned(path string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.inFlight[path]
	return ok
}

// Len returns the number of in-flight claims.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.inFlight)
}
