package watcher

import (
	"context"
	"os"
	"path/filepath"
)

// contains the directory scanning logic shared by the initial scan, the
// polling fallback, and the periodic rescan.

// Rescan walks every watch root once and runs each file through the normal
// emission path. It backstops lost or coalesced filesystem events; files
// already emitted at their current mtime are skipped by the seen map.
func (w *Watcher) Rescan(ctx context.Context) {
	for _, root := range w.cfg.Watch.Directories {
		w.scanDir(ctx, root, root)
	}
}

func (w *Watcher) scanDir(ctx context.Context, dir, root string) {
	if ctx.Err() != nil {
		return
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		// temporarily unreadable roots are warnings; other roots keep going
		w.log.Warn("cannot read directory", "dir", dir, "error", err)
		return
	}

	for _, e := range entries {
		full := filepath.Join(dir, e.Name())

		if e.IsDir() {
			if w.cfg.Watch.Recursive && !w.cfg.IsInArchive(full) {
				w.scanDir(ctx, full, root)
			}
			continue
		}

		w.handlePath(ctx, full, root)
	}
}
