package result

import (
	"errors"
)

// ─── Error Taxonomy ──────────────────────────────────────────────────────────

var (
	// ErrNotFound marks a candidate that vanished between discovery and probe.
	ErrNotFound = errors.New("not found")

	// ErrMeasurementFailed marks a path (or a descendant) that could not be sized.
	ErrMeasurementFailed = errors.New("size check failed")

	// ErrDeleteFailed marks an I/O error during removal.
	ErrDeleteFailed = errors.New("delete failed")

	// ErrNoSpaceFreed marks a delete that reported success while the path
	// still occupies the same space.
	ErrNoSpaceFreed = errors.New("no space freed")

	// ErrSafetyExcluded marks the active temporary directory and temp roots.
	ErrSafetyExcluded = errors.New("active system temporary directory")

	// ErrProtectedPath marks a location on the never-delete list.
	ErrProtectedPath = errors.New("protected system location")
)

// ─── Outcomes ────────────────────────────────────────────────────────────────

// Outcome is the terminal classification of one path in a run. The set of
// implementations is closed: Success, Failure and Skip.
type Outcome interface {
	OutcomePath() string
	outcome()
}

// Success records a path that was (or, in a dry run, would be) removed.
type Success struct {
	Path     string
	Category string
	Bytes    int64
	// Dir is true when the path was a directory at probe time.
	Dir bool
}

// Failure records an actionable problem with a path.
type Failure struct {
	Path     string
	Category string
	Err      error
}

// Skip records a path left alone on purpose or for a benign reason.
type Skip struct {
	Path     string
	Category string
	Err      error
}

func (s Success) OutcomePath() string { return s.Path }
func (f Failure) OutcomePath() string { return f.Path }
func (s Skip) OutcomePath() string    { return s.Path }

func (Success) outcome() {}
func (Failure) outcome() {}
func (Skip) outcome()    {}

// Reason returns the human-readable error description.
func (f Failure) Reason() string { return describe(f.Err) }

// Reason returns the human-readable skip reason.
func (s Skip) Reason() string { return describe(s.Err) }

func describe(err error) string {
	if err == nil {
		return "unknown"
	}
	return err.Error()
}
