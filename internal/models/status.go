package models

// StatusEvent is an internal trigger that may advance a ticket's status.
// Explicit status updates through the API bypass this machine entirely.
type StatusEvent int

const (
	// EventChecklistGenerated fires after the first successful checklist
	// generation for a ticket.
	EventChecklistGenerated StatusEvent = iota

	// EventChecklistCompleted fires when every checklist item is checked.
	EventChecklistCompleted

	// EventChecklistReopened fires when an item is unchecked while the
	// checklist was fully complete.
	EventChecklistReopened
)

// DeriveStatus computes the next ticket status for an internal event.
// Both the checklist-generation path and the item-mutation path go through
// this single function so the two call sites cannot drift apart.
//
// Offline is never derived here; it is reachable only via an explicit update.
func DeriveStatus(current Status, event StatusEvent) Status {
	switch event {
	case EventChecklistGenerated:
		if current == StatusInProgress || current == StatusCompleted {
			return current
		}
		return StatusInProgress
	case EventChecklistCompleted:
		return StatusCompleted
	case EventChecklistReopened:
		if current == StatusCompleted {
			return StatusInProgress
		}
		return current
	}
	return current
}
