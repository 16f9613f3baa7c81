package immich

import "time"

// attemptClass is the classification of a single upload attempt. The retry
// decision is a pure function of this class and the attempt count, so it can
// be tested without any network I/O.
type attemptClass int

const (
	classAccepted attemptClass = iota
	classDuplicate
	classTransient
	classFatal
)

// classifyStatus maps an HTTP status code to an attempt class.
//
// 409 is the duplicate-asset signal; 429 and 5xx are transient; every other
// non-2xx code, payload-too-large included, is fatal because server-side
// limits may differ from the client-side pre-check.
func classifyStatus(status int) attemptClass {
	switch {
	case status >= 200 && status < 300:
		return classAccepted
	case status == 409:
		return classDuplicate
	case status == 429:
		return classTransient
	case status >= 500:
		return classTransient
	default:
		return classFatal
	}
}

// shouldRetry decides whether another attempt is allowed. attempt is
// 1-based and counts the attempt that just failed.
func shouldRetry(class attemptClass, attempt, maxAttempts int) bool {
	return class == classTransient && attempt < maxAttempts
}

// backoffDelay returns the sleep before the given (1-based) retry attempt.
// Delays grow as base, 2*base, 4*base, ...
func backoffDelay(base time.Duration, attempt int) time.Duration {
	d := base
	for i := 1; i < attempt; i++ {
		d *= 2
	}
	return d
}
