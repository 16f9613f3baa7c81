package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ohare93/immich-auto-uploader/internal/candidate"
)

// archive moves an uploaded file under the archive root, mirroring its
// relative subpath below the watch root it was discovered in. Destination
// directories are created as needed. On any failure the source stays intact
// at its original path.
func (w *Worker) archive(ctx context.Context, cand candidate.Candidate) (string, error) {
	dst := filepath.Join(w.cfg.Archive.Directory, cand.RelPath())

	if err := w.fs.MkdirAll(filepath.Dir(dst)); err != nil {
		return "", fmt.Errorf("creating archive directory: %w", err)
	}

	dst = resolveCollision(dst)

	if err := w.fs.MoveFile(ctx, cand.Path, dst); err != nil {
		return "", err
	}
	return dst, nil
}

// resolveCollision returns a destination that does not exist yet. An
// occupied name gets a timestamp suffix; existing files are never
// overwritten.
func resolveCollision(dst string) string {
	if _, err := os.Stat(dst); os.IsNotExist(err) {
		return dst
	}

	ext := filepath.Ext(dst)
	base := strings.TrimSuffix(dst, ext)
	stamp := time.Now().UTC().Format("20060102T150405.000000000")

	renamed := fmt.Sprintf("%s_%s%s", base, stamp, ext)
	for i := 1; ; i++ {
		if _, err := os.Stat(renamed); os.IsNotExist(err) {
			return renamed
		}
		renamed = fmt.Sprintf("%s_%s_%d%s", base, stamp, i, ext)
	}
}
