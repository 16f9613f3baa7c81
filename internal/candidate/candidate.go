// Package candidate defines the unit of work flowing from the watcher to the
// upload workers.
package candidate

import (
	"os"
	"path/filepath"
	"time"
)

// State tracks where a candidate is in its lifecycle. Transitions are strictly
// sequential within one file; terminal states are Archived, Rejected, Failed.
type State int

const (
	Discovered State = iota
	Stabilizing
	Stable
	Uploading
	Archived
	Rejected
	Failed
)

func (s State) String() string {
	switch s {
	case Discovered:
		return "discovered"
	case Stabilizing:
		return "stabilizing"
	case Stable:
		return "stable"
	case Uploading:
		return "uploading"
	case Archived:
		return "archived"
	case Rejected:
		return "rejected"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Candidate is a discovered file believed to be a completed, uploadable asset.
type Candidate struct {
	Path       string // absolute path, identity key
	WatchRoot  string // the configured root this path was discovered under
	Size       int64
	ModTime    time.Time
	DetectedAt time.Time
	State      State
}

// FromFileInfo builds a Candidate from a stat result.
func FromFileInfo(path, root string, info os.FileInfo) Candidate {
	return Candidate{
		Path:       path,
		WatchRoot:  root,
		Size:       info.Size(),
		ModTime:    info.ModTime(),
		DetectedAt: time.Now(),
		State:      Discovered,
	}
}

// Name returns the base filename.
func (c Candidate) Name() string {
	return filepath.Base(c.Path)
}

// RelPath returns the candidate's path relative to its watch root. When the
// relation cannot be computed the base name is used, so archiving still
// produces a sane destination.
func (c Candidate) RelPath() string {
	rel, err := filepath.Rel(c.WatchRoot, c.Path)
	if err != nil || rel == "." {
		return c.Name()
	}
	return rel
}
