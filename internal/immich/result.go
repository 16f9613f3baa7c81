package immich

// Outcome is the terminal classification of an upload call.
type Outcome int

const (
	// Success means the server accepted the asset.
	Success Outcome = iota
	// Duplicate means the server already has this asset. Callers treat it
	// as success for archiving purposes.
	Duplicate
	// RetryableFailure means every attempt failed with a transient error.
	RetryableFailure
	// FatalFailure means the request itself was rejected; retrying would
	// only hide a real validation bug.
	FatalFailure
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case Duplicate:
		return "duplicate"
	case RetryableFailure:
		return "retryable-failure"
	case FatalFailure:
		return "fatal-failure"
	default:
		return "unknown"
	}
}

// UploadResult reports what happened to one upload, including how many
// attempts it took.
type UploadResult struct {
	Outcome  Outcome
	AssetID  string
	Message  string
	Attempts int
}

// OK reports whether the file may be archived.
func (r UploadResult) OK() bool {
	return r.Outcome == Success || r.Outcome == Duplicate
}
