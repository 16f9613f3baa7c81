package fs

import (
	"context"
	"fmt"
	"time"
)

// retry runs one archive-move step until it succeeds or the attempt budget
// is spent. Only transient errors (a busy or briefly locked file) earn
// another attempt; everything else fails the operation immediately.
func retry(ctx context.Context, opName string, fn func() error) error {
	const maxAttempts = 5

	backoff := 100 * time.Millisecond
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if !isTransient(lastErr) {
			return fmt.Errorf("%s failed permanently: %w", opName, lastErr)
		}

		if attempt < maxAttempts {
			time.Sleep(backoff)
			backoff *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", opName, maxAttempts, lastErr)
}
