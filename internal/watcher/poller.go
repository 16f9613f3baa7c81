package watcher

import (
	"context"
	"time"
)

// runPolling rescans one root on a fixed interval. The seen-mtime map keeps
// an unchanged file from being emitted again on every tick.
func (w *Watcher) runPolling(ctx context.Context, root string) {
	w.log.Info("polling directory", "dir", root, "interval", w.cfg.Watch.PollInterval)

	ticker := time.NewTicker(w.cfg.Watch.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.scanDir(ctx, root, root)
		}
	}
}
