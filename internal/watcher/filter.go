package watcher

import (
	"path/filepath"
	"strings"
)

// suffixes used by browsers and download managers for files still being
// written
var partialSuffixes = []string{".part", ".partial", ".crdownload", ".download", ".tmp"}

// allowed applies the emission filter, in order: archive-dir exclusion
// (loop prevention), extension allow-list, hidden/partial names. Dedup
// ownership is checked separately, after this filter passes.
func (w *Watcher) allowed(path string) bool {
	if w.cfg.IsInArchive(path) {
		return false
	}
	if !w.cfg.IsSupportedFile(filepath.Base(path)) {
		return false
	}
	if isHiddenOrPartial(filepath.Base(path)) {
		return false
	}
	return true
}

func isHiddenOrPartial(name string) bool {
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~") {
		return true
	}
	lower := strings.ToLower(name)
	for _, suffix := range partialSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}
