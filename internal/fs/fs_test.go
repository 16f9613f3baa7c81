package fs

import (
	"context"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.bin")
	require.NoError(t, os.WriteFile(path, []byte("12345"), 0o644))

	info, err := New().Stat(path)
	require.NoError(t, err)

	assert.Equal(t, path, info.Path)
	assert.Equal(t, int64(5), info.Size)
	assert.WithinDuration(t, time.Now(), info.MTime, time.Minute)
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "dst.bin")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0o644))

	require.NoError(t, New().CopyFile(context.Background(), src, dst))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), got)

	// source untouched
	assert.FileExists(t, src)
}

func TestMoveFile_SameVolume(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "sub", "dst.bin")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Dir(dst), 0o755))

	require.NoError(t, New().MoveFile(context.Background(), src, dst))

	assert.NoFileExists(t, src)
	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), got)
}

func TestRename(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "dst.bin")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0o644))

	require.NoError(t, New().Rename(context.Background(), src, dst))

	assert.NoFileExists(t, src)
	assert.FileExists(t, dst)
}

func TestRename_MissingSourceFailsPermanently(t *testing.T) {
	dir := t.TempDir()
	err := New().Rename(context.Background(), filepath.Join(dir, "nope"), filepath.Join(dir, "dst"))
	require.Error(t, err)
	assert.ErrorContains(t, err, "permanently")
}

func TestMoveFile_MissingSource(t *testing.T) {
	dir := t.TempDir()
	err := New().MoveFile(context.Background(), filepath.Join(dir, "nope"), filepath.Join(dir, "dst"))
	assert.Error(t, err)
}

func TestSourceChanged(t *testing.T) {
	base := FileInfo{Size: 10, MTime: time.Unix(1000, 0), Inode: 7}

	assert.False(t, sourceChanged(base, base))
	assert.True(t, sourceChanged(base, FileInfo{Size: 11, MTime: base.MTime, Inode: 7}))
	assert.True(t, sourceChanged(base, FileInfo{Size: 10, MTime: base.MTime.Add(time.Second), Inode: 7}))
	assert.True(t, sourceChanged(base, FileInfo{Size: 10, MTime: base.MTime, Inode: 8}))

	// zero inodes (platforms without them) do not trigger a change
	assert.False(t, sourceChanged(
		FileInfo{Size: 10, MTime: base.MTime, Inode: 0},
		FileInfo{Size: 10, MTime: base.MTime, Inode: 0}))
}

func TestIsTransient(t *testing.T) {
	assert.True(t, isTransient(syscall.EAGAIN))
	assert.True(t, isTransient(syscall.EBUSY))
	assert.True(t, isTransient(syscall.ETIMEDOUT))
	assert.False(t, isTransient(syscall.ENOENT))
	assert.False(t, isTransient(os.ErrPermission))
}

func TestIsCrossDevice(t *testing.T) {
	assert.True(t, isCrossDevice(&os.LinkError{Op: "rename", Old: "a", New: "b", Err: syscall.EXDEV}))
	assert.False(t, isCrossDevice(&os.LinkError{Op: "rename", Old: "a", New: "b", Err: syscall.ENOENT}))
}
