package fs

import (
	"errors"
	"syscall"
)

// defines helpers for classifying filesystem errors.
// These determine whether an operation should retry, fail immediately, or
// fall back to a copy-based move.

func isTransient(err error) bool {
	if errors.Is(err, syscall.EAGAIN) ||
		errors.Is(err, syscall.EBUSY) ||
		errors.Is(err, syscall.ETIMEDOUT) {
		return true
	}

	return false
}

// isCrossDevice reports whether a rename failed because source and
// destination live on different volumes.
func isCrossDevice(err error) bool {
	return errors.Is(err, syscall.EXDEV)
}
