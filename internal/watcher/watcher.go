// Package watcher monitors the configured directories and emits validated
// candidate files once they have stopped changing.
package watcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ohare93/immich-auto-uploader/internal/candidate"
	"github.com/ohare93/immich-auto-uploader/internal/config"
	"github.com/ohare93/immich-auto-uploader/internal/dedup"
	"github.com/ohare93/immich-auto-uploader/internal/fsprobe"
	"github.com/ohare93/immich-auto-uploader/internal/logging"
)

// EmitFunc hands a stable, validated candidate to the pipeline. It returns
// false when the candidate was not accepted (shutdown in progress).
type EmitFunc func(ctx context.Context, c candidate.Candidate) bool

// Watcher observes every configured root and pushes candidates downstream.
// Event-driven and polling roots share the same scan, filter, and stability
// logic; only the trigger differs.
type Watcher struct {
	cfg     *config.Config
	tracker *dedup.Tracker
	log     logging.Logger
	emit    EmitFunc

	mu   sync.Mutex
	seen map[string]time.Time // path → last emitted mtime

	wg sync.WaitGroup
}

func New(cfg *config.Config, tracker *dedup.Tracker, emit EmitFunc, log logging.Logger) *Watcher {
	return &Watcher{
		cfg:     cfg,
		tracker: tracker,
		log:     log,
		emit:    emit,
		seen:    make(map[string]time.Time),
	}
}

// Start binds every watch root using the configured strategy and performs
// the initial scan of pre-existing files. Roots that cannot be bound are
// logged and skipped; it is an error only when no root could be bound at
// all.
func (w *Watcher) Start(ctx context.Context) error {
	bound := 0

	for _, root := range w.cfg.Watch.Directories {
		if err := w.startRoot(ctx, root); err != nil {
			w.log.Warn("cannot watch directory", "dir", root, "error", err)
			continue
		}
		bound++
	}

	if bound == 0 {
		return fmt.Errorf("no watch directory could be bound")
	}

	// pick up files that were already there before we started
	w.Rescan(ctx)

	return nil
}

// startRoot chooses the watching strategy for one root.
func (w *Watcher) startRoot(ctx context.Context, root string) error {
	mode := w.cfg.Watch.Mode

	if mode == "auto" {
		res := fsprobe.Probe(root)
		if res.FsnotifySupported {
			mode = "fsnotify"
		} else {
			w.log.Warn("fsnotify disabled for root, polling instead",
				"dir", root, "reason", res.Reason)
			mode = "poll"
		}
	}

	switch mode {
	case "fsnotify":
		return w.startFsNotify(ctx, root)

	case "poll":
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			w.runPolling(ctx, root)
		}()
		return nil

	default:
		return fmt.Errorf("unknown mode %q", mode)
	}
}

// Wait blocks until every watch loop and in-flight stability round is done.
func (w *Watcher) Wait() {
	w.wg.Wait()
}

// markSeen records the mtime for path and reports whether it is newer than
// what was recorded before. This re-derives "did this path change" from our
// own stat instead of trusting event granularity, so coalesced or duplicate
// events collapse into one emission.
func (w *Watcher) markSeen(path string, mtime time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	last, ok := w.seen[path]
	if ok && !mtime.After(last) {
		return false
	}
	w.seen[path] = mtime
	return true
}

// forget drops the recorded mtime so a future event for the path is treated
// as fresh. Used when a stability round finds the file gone.
func (w *Watcher) forget(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.seen, path)
}
