// Package ports defines the interfaces (contracts) that adapters must implement.
// These are the boundaries of the hexagonal architecture. The search core and
// the app layer depend only on these interfaces, never on concrete adapters.
package ports

import "time"

// History persists completed search runs to durable storage.
// The backing store (bbolt) is project-scoped: each projectID gets its own
// namespace. Concurrent reads are safe; writes are serialized by the adapter.
//
// Crash safety: SaveRun must be transactional. A crash mid-write must not
// corrupt previously committed runs.
type History interface {
	// SaveRun appends a run for a project and returns its assigned ID.
	// IDs increase monotonically within a project.
	SaveRun(projectID string, run *Run) (uint64, error)

	// ListRuns returns up to limit runs, newest first. limit <= 0 means all.
	// Returns an empty slice for a fresh project.
	ListRuns(projectID string, limit int) ([]*Run, error)

	// PruneRuns deletes all but the newest keep runs and returns how many
	// were removed.
	PruneRuns(projectID string, keep int) (int, error)

	// DeleteProject removes all runs for a project.
	// Idempotent: deleting a nonexistent project is not an error.
	DeleteProject(projectID string) error
}

// Run is one recorded search.
type Run struct {
	ID         uint64    `json:"id"`
	Time       time.Time `json:"time"`
	Pattern    string    `json:"pattern"`
	Source     string    `json:"source"` // file path, "-" for stdin, "<text>" for --text
	TextLen    int       `json:"text_len"`
	Alphabet   string    `json:"alphabet"`
	Steps      int       `json:"steps"`
	Skipped    int       `json:"skipped"`
	Degenerate string    `json:"degenerate,omitempty"`
	Matches    []int     `json:"matches"`
}
