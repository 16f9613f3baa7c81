package watcher

import (
	"context"
	"os"

	"github.com/ohare93/immich-auto-uploader/internal/candidate"
	"github.com/ohare93/immich-auto-uploader/internal/stability"
)

// handlePath runs a changed path through the filter chain and, when it
// claims the dedup slot, starts a stability round for it. It returns
// quickly; stability polling never blocks the watch loop.
func (w *Watcher) handlePath(ctx context.Context, path, root string) {
	if !w.allowed(path) {
		return
	}

	st, err := os.Stat(path)
	if err != nil || st.IsDir() {
		return
	}

	if !w.tracker.TryAcquire(path) {
		// already being stabilized or uploaded; the mtime stays unrecorded
		// so a rewrite landing mid-flight surfaces again after release
		return
	}

	if !w.markSeen(path, st.ModTime()) {
		w.tracker.Release(path)
		return
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.stabilize(ctx, path, root)
	}()
}

// stabilize runs stability rounds until the file settles, disappears, or
// shutdown begins. The dedup slot is held throughout; on emission it passes
// to the worker, otherwise it is released here.
func (w *Watcher) stabilize(ctx context.Context, path, root string) {
	log := w.log.With("file", path)

	for {
		res := stability.Check(ctx, path, w.cfg.Watch.StabilityWait, w.cfg.Watch.StabilityInterval)

		switch res {
		case stability.Gone:
			// moved or deleted mid-poll; drop silently
			log.Debug("file disappeared during stability check")
			w.tracker.Release(path)
			w.forget(path)
			return

		case stability.StillChanging:
			if ctx.Err() != nil {
				w.tracker.Release(path)
				return
			}
			// a slow download should eventually settle; run another round
			log.Debug("file still changing, rechecking")
			continue

		case stability.Stable:
			st, err := os.Stat(path)
			if err != nil {
				w.tracker.Release(path)
				w.forget(path)
				return
			}
			cand := candidate.FromFileInfo(path, root, st)
			cand.State = candidate.Stable
			w.markSeen(path, st.ModTime())

			log.Debug("file stable, queueing", "size", cand.Size)
			if !w.emit(ctx, cand) {
				w.tracker.Release(path)
			}
			return
		}
	}
}
