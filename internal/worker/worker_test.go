package worker

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ohare93/immich-auto-uploader/internal/candidate"
	"github.com/ohare93/immich-auto-uploader/internal/config"
	"github.com/ohare93/immich-auto-uploader/internal/dedup"
	"github.com/ohare93/immich-auto-uploader/internal/immich"
	"github.com/ohare93/immich-auto-uploader/internal/logging"
)

type fakeUploader struct {
	res   immich.UploadResult
	calls int
}

func (f *fakeUploader) Upload(_ context.Context, _ candidate.Candidate) immich.UploadResult {
	f.calls++
	return f.res
}

type env struct {
	cfg     *config.Config
	tracker *dedup.Tracker
	stats   *Stats
	watch   string
	archive string
}

func newEnv(t *testing.T) *env {
	t.Helper()
	base := t.TempDir()
	watch := filepath.Join(base, "watch")
	archive := filepath.Join(base, "archive")
	require.NoError(t, os.MkdirAll(watch, 0o755))
	require.NoError(t, os.MkdirAll(archive, 0o755))

	cfg := &config.Config{
		Watch: config.WatchConfig{
			Directories: []string{watch},
			Recursive:   true,
			Extensions:  []string{"jpg", "mp4"},
		},
		Archive: config.ArchiveConfig{Directory: archive},
		Upload:  config.UploadConfig{MaxFileSizeMB: 1},
	}

	return &env{
		cfg:     cfg,
		tracker: dedup.New(),
		stats:   NewStats(),
		watch:   watch,
		archive: archive,
	}
}

func (e *env) worker(t *testing.T, up Uploader) *Worker {
	t.Helper()
	return New(e.cfg, up, e.tracker, e.stats, nil, logging.Nop(), nil)
}

func (e *env) addFile(t *testing.T, rel string, data []byte) candidate.Candidate {
	t.Helper()
	path := filepath.Join(e.watch, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
	st, err := os.Stat(path)
	require.NoError(t, err)

	require.True(t, e.tracker.TryAcquire(path), "test setup: slot must be free")
	return candidate.FromFileInfo(path, e.watch, st)
}

func TestProcess_SuccessArchivesMirroringRelativePath(t *testing.T) {
	e := newEnv(t)
	cand := e.addFile(t, filepath.Join("camera", "photo.jpg"), []byte("jpeg"))
	up := &fakeUploader{res: immich.UploadResult{Outcome: immich.Success, AssetID: "a1", Attempts: 1}}

	e.worker(t, up).Process(context.Background(), cand)

	archived := filepath.Join(e.archive, "camera", "photo.jpg")
	assert.FileExists(t, archived)
	assert.NoFileExists(t, cand.Path)

	snap := e.stats.Snapshot()
	assert.Equal(t, int64(1), snap.Uploaded)
	assert.Equal(t, int64(1), snap.Archived)
	assert.Equal(t, int64(0), snap.Failed)

	assert.False(t, e.tracker.Owned(cand.Path), "slot must be released on success")
}

func TestProcess_DuplicateCountsSeparatelyAndArchives(t *testing.T) {
	e := newEnv(t)
	cand := e.addFile(t, "photo.jpg", []byte("jpeg"))
	up := &fakeUploader{res: immich.UploadResult{Outcome: immich.Duplicate, Attempts: 1}}

	e.worker(t, up).Process(context.Background(), cand)

	assert.FileExists(t, filepath.Join(e.archive, "photo.jpg"))
	assert.NoFileExists(t, cand.Path)

	snap := e.stats.Snapshot()
	assert.Equal(t, int64(0), snap.Uploaded)
	assert.Equal(t, int64(1), snap.Duplicates)
	assert.Equal(t, int64(1), snap.Archived)
}

func TestProcess_FatalFailureLeavesFileAndReleasesSlot(t *testing.T) {
	e := newEnv(t)
	cand := e.addFile(t, "photo.jpg", []byte("jpeg"))
	up := &fakeUploader{res: immich.UploadResult{Outcome: immich.FatalFailure, Message: "HTTP 400", Attempts: 1}}

	e.worker(t, up).Process(context.Background(), cand)

	assert.FileExists(t, cand.Path, "failed file stays at its original path")
	assert.NoFileExists(t, filepath.Join(e.archive, "photo.jpg"))

	snap := e.stats.Snapshot()
	assert.Equal(t, int64(1), snap.Failed)

	// a later rewrite of the same path can be retried
	assert.True(t, e.tracker.TryAcquire(cand.Path))
}

func TestProcess_RetryableFailureCountsAsFailed(t *testing.T) {
	e := newEnv(t)
	cand := e.addFile(t, "photo.jpg", []byte("jpeg"))
	up := &fakeUploader{res: immich.UploadResult{Outcome: immich.RetryableFailure, Attempts: 4}}

	e.worker(t, up).Process(context.Background(), cand)

	assert.FileExists(t, cand.Path)
	assert.Equal(t, int64(1), e.stats.Snapshot().Failed)
	assert.False(t, e.tracker.Owned(cand.Path))
}

func TestProcess_RejectsOversizedFile(t *testing.T) {
	e := newEnv(t)
	cand := e.addFile(t, "huge.mp4", bytes.Repeat([]byte("x"), 2<<20))
	up := &fakeUploader{res: immich.UploadResult{Outcome: immich.Success}}

	e.worker(t, up).Process(context.Background(), cand)

	assert.Equal(t, 0, up.calls, "oversized files must not be uploaded")
	assert.FileExists(t, cand.Path)
	assert.Equal(t, int64(1), e.stats.Snapshot().Rejected)
	assert.False(t, e.tracker.Owned(cand.Path))
}

func TestProcess_RejectsEmptyFile(t *testing.T) {
	e := newEnv(t)
	cand := e.addFile(t, "empty.jpg", nil)
	up := &fakeUploader{res: immich.UploadResult{Outcome: immich.Success}}

	e.worker(t, up).Process(context.Background(), cand)

	assert.Equal(t, 0, up.calls)
	assert.Equal(t, int64(1), e.stats.Snapshot().Rejected)
}

func TestProcess_DropsVanishedFileSilently(t *testing.T) {
	e := newEnv(t)
	cand := e.addFile(t, "gone.jpg", []byte("jpeg"))
	require.NoError(t, os.Remove(cand.Path))
	up := &fakeUploader{res: immich.UploadResult{Outcome: immich.Success}}

	e.worker(t, up).Process(context.Background(), cand)

	assert.Equal(t, 0, up.calls)
	snap := e.stats.Snapshot()
	assert.Equal(t, int64(0), snap.Rejected)
	assert.Equal(t, int64(0), snap.Failed)
	assert.False(t, e.tracker.Owned(cand.Path))
}

func TestProcess_CollisionGetsDistinctName(t *testing.T) {
	e := newEnv(t)
	cand := e.addFile(t, "photo.jpg", []byte("new-content"))

	occupied := filepath.Join(e.archive, "photo.jpg")
	require.NoError(t, os.WriteFile(occupied, []byte("old-content"), 0o644))

	up := &fakeUploader{res: immich.UploadResult{Outcome: immich.Success}}
	e.worker(t, up).Process(context.Background(), cand)

	// the occupied name is untouched
	old, err := os.ReadFile(occupied)
	require.NoError(t, err)
	assert.Equal(t, []byte("old-content"), old)

	// the new file landed under a distinct name next to it
	entries, err := os.ReadDir(e.archive)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.NoFileExists(t, cand.Path)
}

func TestQueue_PushPopAndShutdown(t *testing.T) {
	q := NewQueue(1)
	ctx := context.Background()

	assert.True(t, q.Push(ctx, candidate.Candidate{Path: "/a.jpg"}))
	assert.Equal(t, 1, q.Len())

	c, ok := q.Pop(ctx)
	assert.True(t, ok)
	assert.Equal(t, "/a.jpg", c.Path)

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	_, ok = q.Pop(cancelled)
	assert.False(t, ok)
}

func TestQueue_PushBlocksWhenFull(t *testing.T) {
	q := NewQueue(1)
	require.True(t, q.Push(context.Background(), candidate.Candidate{Path: "/a.jpg"}))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	// queue is full: backpressure blocks until the context gives up
	start := time.Now()
	assert.False(t, q.Push(ctx, candidate.Candidate{Path: "/b.jpg"}))
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestStatsSummary(t *testing.T) {
	s := NewStats()
	s.Discovered()
	s.Uploaded()
	s.Archived()

	assert.Contains(t, s.Summary(), "discovered=1")
	assert.Contains(t, s.Summary(), "uploaded=1")
	assert.Contains(t, s.Summary(), "archived=1")
	assert.Contains(t, s.Summary(), "failed=0")
}
