// Package store holds the process-scoped mutable state for tickets:
// the status overlay, cached checklists, and chat histories.
package store

import "errors"

// Sentinel errors for ticket state operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrNotFound indicates the requested ticket id is unknown.
	ErrNotFound = errors.New("ticket not found")

	// ErrInvalidStatus indicates a status value outside the four
	// recognized lifecycle states.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrNoChecklist indicates no checklist has been generated for the
	// ticket yet. Distinct from a generated-but-empty checklist, which
	// the engine never produces.
	ErrNoChecklist = errors.New("checklist not generated")

	// ErrIndexOutOfRange indicates a checklist item index outside the
	// cached checklist's bounds.
	ErrIndexOutOfRange = errors.New("checklist index out of range")
)
