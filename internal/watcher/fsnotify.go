package watcher

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// startFsNotify binds one root with fsnotify and spawns its event loop.
// In recursive mode every existing subdirectory is watched too, and newly
// created subdirectories are added on the fly.
func (w *Watcher) startFsNotify(ctx context.Context, root string) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	if err := w.addWatches(fw, root); err != nil {
		fw.Close()
		return err
	}

	w.log.Info("watching directory", "dir", root, "recursive", w.cfg.Watch.Recursive)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer fw.Close()
		w.runFsNotify(ctx, fw, root)
	}()

	return nil
}

func (w *Watcher) addWatches(fw *fsnotify.Watcher, root string) error {
	if !w.cfg.Watch.Recursive {
		return fw.Add(root)
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// the root itself must be walkable or the bind fails; an
			// unreadable subtree is only a warning
			if path == root {
				return err
			}
			w.log.Warn("cannot walk directory", "dir", path, "error", err)
			return fs.SkipDir
		}
		if !d.IsDir() {
			return nil
		}
		if w.cfg.IsInArchive(path) {
			return fs.SkipDir
		}
		return fw.Add(path)
	})
}

func (w *Watcher) runFsNotify(ctx context.Context, fw *fsnotify.Watcher, root string) {
	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-fw.Events:
			if !ok {
				w.log.Warn("events channel closed", "dir", root)
				return
			}

			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}

			if st, err := os.Stat(ev.Name); err == nil && st.IsDir() {
				if ev.Op&fsnotify.Create != 0 && w.cfg.Watch.Recursive && !w.cfg.IsInArchive(ev.Name) {
					if err := fw.Add(ev.Name); err != nil {
						w.log.Warn("cannot watch new subdirectory", "dir", ev.Name, "error", err)
					} else {
						w.log.Debug("watching new subdirectory", "dir", ev.Name)
						// files may have landed before the watch was in place
						w.scanDir(ctx, ev.Name, root)
					}
				}
				continue
			}

			w.handlePath(ctx, ev.Name, root)

		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.log.Warn("fsnotify error", "dir", root, "error", err)
		}
	}
}
