// Package stability decides whether a file has finished being written by
// sampling its size until two consecutive samples agree.
package stability

import (
	"context"
	"os"
	"time"
)

// Result of one stability round.
type Result int

const (
	// Stable means two consecutive size samples were equal.
	Stable Result = iota
	// StillChanging means the size kept moving through the whole window.
	// The caller should run another round rather than fail the file.
	StillChanging
	// Gone means the path disappeared mid-poll. The caller drops the
	// candidate silently.
	Gone
)

func (r Result) String() string {
	switch r {
	case Stable:
		return "stable"
	case StillChanging:
		return "still-changing"
	case Gone:
		return "gone"
	default:
		return "unknown"
	}
}

// Check samples the size of path every interval for at most wait total.
// It returns Stable as soon as two consecutive samples are equal, including
// two zero samples; rejecting empty files is a validation concern, not a
// stability one. Cancellation counts as Gone so callers drop the candidate.
func Check(ctx context.Context, path string, wait, interval time.Duration) Result {
	info, err := os.Stat(path)
	if err != nil {
		return Gone
	}
	lastSize := info.Size()

	deadline := time.Now().Add(wait)

	for {
		select {
		case <-ctx.Done():
			return Gone
		case <-time.After(interval):
		}

		info, err := os.Stat(path)
		if err != nil {
			return Gone
		}

		size := info.Size()
		if size == lastSize {
			return Stable
		}
		lastSize = size

		if !time.Now().Before(deadline) {
			return StillChanging
		}
	}
}
