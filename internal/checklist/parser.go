// Package checklist generates, caches, and updates per-ticket repair
// checklists.
package checklist

import (
	"strings"

	"github.com/datapigeon/fixity/internal/models"
)

// Parse converts raw LLM output into checklist items. Lines whose trimmed
// form starts with a digit or a "-" or "*" marker become tasks with the
// marker stripped. If no line matches, every non-blank trimmed line becomes
// a task, so a non-empty reply always yields at least one item.
func Parse(text string) []models.ChecklistItem {
	lines := strings.Split(text, "\n")

	var items []models.ChecklistItem
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		task, ok := stripMarker(trimmed)
		if !ok || task == "" {
			continue
		}
		items = append(items, models.ChecklistItem{Task: task})
	}

	if len(items) > 0 {
		return items
	}

	// Fallback: the model ignored the numbering instruction.
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		items = append(items, models.ChecklistItem{Task: trimmed})
	}
	return items
}

// stripMarker removes a leading list marker. Numbered markers are a digit
// run followed by "." or ")"; bullet markers are "-" or "*".
func stripMarker(line string) (string, bool) {
	if line[0] == '-' || line[0] == '*' {
		return strings.TrimSpace(line[1:]), true
	}
	if line[0] < '0' || line[0] > '9' {
		return "", false
	}

	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	rest := line[i:]
	if strings.HasPrefix(rest, ".") || strings.HasPrefix(rest, ")") {
		rest = rest[1:]
	}
	return strings.TrimSpace(rest), true
}
