package dedup

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTryAcquire_ExactlyOneWinnerUnderContention(t *testing.T) {
	tr := New()

	const goroutines = 64
	var wins atomic.Int64
	var start, done sync.WaitGroup

	start.Add(1)
	done.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer done.Done()
			start.Wait()
			if tr.TryAcquire("/photos/img.jpg") {
				wins.Add(1)
			}
		}()
	}
	start.Done()
	done.Wait()

	assert.Equal(t, int64(1), wins.Load())
	assert.Equal(t, 1, tr.Len())
}

func TestRelease_AllowsReacquire(t *testing.T) {
	tr := New()

	assert.True(t, tr.TryAcquire("/photos/img.jpg"))
	assert.False(t, tr.TryAcquire("/photos/img.jpg"))

	tr.Release("/photos/img.jpg")
	assert.True(t, tr.TryAcquire("/photos/img.jpg"))
}

func TestRelease_IsIdempotent(t *testing.T) {
	tr := New()

	tr.Release("/never/acquired.jpg")
	tr.Release("/never/acquired.jpg")
	assert.Equal(t, 0, tr.Len())

	assert.True(t, tr.TryAcquire("/never/acquired.jpg"))
}

func TestOwned(t *testing.T) {
	tr := New()

	assert.False(t, tr.Owned("/a.jpg"))
	tr.TryAcquire("/a.jpg")
	assert.True(t, tr.Owned("/a.jpg"))
	tr.Release("/a.jpg")
	assert.False(t, tr.Owned("/a.jpg"))
}
