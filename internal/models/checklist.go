package models

// ChecklistItem is one repair step within a ticket's checklist. Items are
// identified by their index in the checklist; the sequence is never
// reordered or resized after creation.
type ChecklistItem struct {
	Task      string `json:"task"`
	Completed bool   `json:"completed"`
	Notes     string `json:"notes"`
}

// AllCompleted reports whether every item in the list is checked off.
// An empty list is never complete.
func AllCompleted(items []ChecklistItem) bool {
	if len(items) == 0 {
		return false
	}
	for _, item := range items {
		if !item.Completed {
			return false
		}
	}
	return true
}
