// Package notify sends batched desktop notifications for completed uploads.
// Uploads are counted as they finish and flushed as a single "N files
// uploaded" message once the batch timeout elapses, so a burst of imports
// does not spam the desktop.
package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gen2brain/beeep"

	"github.com/ohare93/immich-auto-uploader/internal/config"
	"github.com/ohare93/immich-auto-uploader/internal/logging"
	"github.com/ohare93/immich-auto-uploader/internal/mailbox"
)

const title = "Immich Auto-Uploader"

type Notifier struct {
	enabled      bool
	batchTimeout time.Duration
	log          logging.Logger

	mu             sync.Mutex
	pending        int
	firstName      string // first file of the current batch
	lastSent       time.Time
	sessionStarted bool

	// coalescing wake-up: many completions collapse into one pending signal
	wake *mailbox.Mailbox[struct{}]
}

func New(cfg config.NotifyConfig, log logging.Logger) *Notifier {
	return &Notifier{
		enabled:      cfg.Enabled,
		batchTimeout: cfg.BatchTimeout,
		log:          log,
		lastSent:     time.Now(),
		wake:         mailbox.New[struct{}](),
	}
}

// UploadSucceeded records one completed upload. The first completion of a
// session additionally announces that uploading has begun. Never blocks the
// calling worker.
func (n *Notifier) UploadSucceeded(name string) {
	if !n.enabled {
		return
	}

	n.mu.Lock()
	if n.pending == 0 {
		n.firstName = name
	}
	n.pending++
	first := !n.sessionStarted
	n.sessionStarted = true
	n.mu.Unlock()

	if first {
		go n.send("Uploading assets...")
	}
	n.wake.Put(struct{}{})
}

// Run flushes batches until ctx is cancelled, then flushes whatever is left.
func (n *Notifier) Run(ctx context.Context) {
	if !n.enabled {
		return
	}

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			n.Flush()
			return
		case <-ticker.C:
		}

		if n.wake.TryTake() == nil && !n.due() {
			continue
		}
		if n.due() {
			n.Flush()
		}
	}
}

func (n *Notifier) due() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.pending > 0 && time.Since(n.lastSent) >= n.batchTimeout
}

// Flush sends any pending batch immediately.
func (n *Notifier) Flush() {
	n.mu.Lock()
	count := n.pending
	first := n.firstName
	n.pending = 0
	n.firstName = ""
	n.lastSent = time.Now()
	n.mu.Unlock()

	if count == 0 {
		return
	}

	n.send(batchMessage(count, first))
}

// batchMessage names the file for a single upload and counts otherwise.
func batchMessage(count int, first string) string {
	if count == 1 {
		return fmt.Sprintf("%s uploaded to Immich", first)
	}
	return fmt.Sprintf("%d files uploaded to Immich", count)
}

func (n *Notifier) send(msg string) {
	if err := beeep.Notify(title, msg, ""); err != nil {
		// a headless box has no notification daemon; not worth more than debug
		n.log.Debug("notification failed", "error", err)
	}
}
