// Package worker processes candidate files: validate, upload, archive.
// Every candidate ends in exactly one terminal state and releases its dedup
// slot there, so a later re-creation of the same path can be retried.
package worker

import (
	"context"
	"os"

	"github.com/ohare93/immich-auto-uploader/internal/candidate"
	"github.com/ohare93/immich-auto-uploader/internal/config"
	"github.com/ohare93/immich-auto-uploader/internal/dedup"
	"github.com/ohare93/immich-auto-uploader/internal/fs"
	"github.com/ohare93/immich-auto-uploader/internal/immich"
	"github.com/ohare93/immich-auto-uploader/internal/logging"
)

// Uploader is the slice of the Immich client the worker needs.
type Uploader interface {
	Upload(ctx context.Context, cand candidate.Candidate) immich.UploadResult
}

// Notifier receives upload completions for user-facing notifications.
type Notifier interface {
	UploadSucceeded(name string)
}

// Worker handles one candidate at a time from validation through archiving.
type Worker struct {
	cfg      *config.Config
	fs       fs.FS
	uploader Uploader
	tracker  *dedup.Tracker
	stats    *Stats
	notifier Notifier
	log      logging.Logger
}

// New creates a worker. filesystem may be nil for the OS default; notifier
// may be nil when notifications are disabled.
func New(cfg *config.Config, uploader Uploader, tracker *dedup.Tracker, stats *Stats,
	notifier Notifier, log logging.Logger, filesystem fs.FS) *Worker {
	if filesystem == nil {
		filesystem = fs.New()
	}
	return &Worker{
		cfg:      cfg,
		fs:       filesystem,
		uploader: uploader,
		tracker:  tracker,
		stats:    stats,
		notifier: notifier,
		log:      log,
	}
}

// Process drives one candidate to a terminal state. Errors never escape:
// they only update stats, logs, and the candidate's outcome.
func (w *Worker) Process(ctx context.Context, cand candidate.Candidate) {
	defer w.tracker.Release(cand.Path)

	log := w.log.With("file", cand.Path)

	if !w.revalidate(&cand, log) {
		return
	}

	cand.State = candidate.Uploading
	res := w.uploader.Upload(ctx, cand)

	if !res.OK() {
		cand.State = candidate.Failed
		w.stats.Failed()
		log.Error("upload failed", "outcome", res.Outcome.String(),
			"attempts", res.Attempts, "detail", res.Message)
		return
	}

	if res.Outcome == immich.Duplicate {
		w.stats.Duplicate()
		log.Info("asset already on server", "attempts", res.Attempts)
	} else {
		w.stats.Uploaded()
		log.Info("uploaded", "assetId", res.AssetID, "attempts", res.Attempts)
	}

	// archive moves always run to completion, shutdown or not: a file must
	// never be observable half-moved
	dst, err := w.archive(context.WithoutCancel(ctx), cand)
	if err != nil {
		cand.State = candidate.Failed
		w.stats.Failed()
		log.Error("archive move failed, file left in place", "error", err)
		return
	}

	cand.State = candidate.Archived
	w.stats.Archived()
	log.Info("archived", "to", dst)

	if w.notifier != nil {
		w.notifier.UploadSucceeded(cand.Name())
	}
}

// revalidate re-checks the file just before upload. The watcher already
// filtered by extension, but size can change between discovery and pickup.
func (w *Worker) revalidate(cand *candidate.Candidate, log logging.Logger) bool {
	st, err := os.Stat(cand.Path)
	if err != nil {
		// moved or deleted since discovery; drop silently
		log.Debug("file gone before processing")
		return false
	}
	cand.Size = st.Size()
	cand.ModTime = st.ModTime()

	if cand.Size == 0 {
		cand.State = candidate.Rejected
		w.stats.Rejected()
		log.Warn("rejecting empty file")
		return false
	}
	if cand.Size > w.cfg.MaxFileSizeBytes() {
		cand.State = candidate.Rejected
		w.stats.Rejected()
		log.Warn("rejecting oversized file", "size", cand.Size, "limit", w.cfg.MaxFileSizeBytes())
		return false
	}
	if !w.cfg.IsSupportedFile(cand.Name()) {
		cand.State = candidate.Rejected
		w.stats.Rejected()
		log.Warn("rejecting unsupported file")
		return false
	}
	return true
}
