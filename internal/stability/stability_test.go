package stability

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestCheck_StableFileReturnsAfterTwoEqualSamples(t *testing.T) {
	path := writeFile(t, t.TempDir(), "photo.jpg", []byte("finished"))

	start := time.Now()
	res := Check(context.Background(), path, 2*time.Second, 20*time.Millisecond)
	elapsed := time.Since(start)

	assert.Equal(t, Stable, res)
	// short-circuits after the first equal pair instead of waiting the full window
	assert.Less(t, elapsed, time.Second)
}

func TestCheck_ZeroByteFileIsStable(t *testing.T) {
	path := writeFile(t, t.TempDir(), "empty.jpg", nil)

	res := Check(context.Background(), path, time.Second, 10*time.Millisecond)

	// two equal zero samples count as stable; rejecting empty files is a
	// validation concern downstream
	assert.Equal(t, Stable, res)
}

func TestCheck_MissingFileIsGone(t *testing.T) {
	res := Check(context.Background(), filepath.Join(t.TempDir(), "nope.jpg"), time.Second, 10*time.Millisecond)
	assert.Equal(t, Gone, res)
}

func TestCheck_FileDeletedMidPollIsGone(t *testing.T) {
	path := writeFile(t, t.TempDir(), "fleeting.jpg", []byte("x"))

	go func() {
		time.Sleep(10 * time.Millisecond)
		os.Remove(path)
	}()

	res := Check(context.Background(), path, time.Second, 50*time.Millisecond)
	assert.Equal(t, Gone, res)
}

func TestCheck_GrowingFileReturnsStillChanging(t *testing.T) {
	path := writeFile(t, t.TempDir(), "download.mp4", []byte("start"))

	done := make(chan struct{})
	defer close(done)

	go func() {
		ticker := time.NewTicker(5 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
				if err != nil {
					return
				}
				f.Write([]byte("more"))
				f.Close()
			}
		}
	}()

	res := Check(context.Background(), path, 150*time.Millisecond, 25*time.Millisecond)
	assert.Equal(t, StillChanging, res)
}

func TestCheck_CancelledContextIsGone(t *testing.T) {
	path := writeFile(t, t.TempDir(), "photo.jpg", []byte("data"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := Check(ctx, path, time.Second, 10*time.Millisecond)
	assert.Equal(t, Gone, res)
}
