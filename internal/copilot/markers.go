package copilot

import (
	"regexp"
	"strconv"
	"strings"
)

// markerPattern matches in-band step completion tokens the model emits,
// e.g. "[STEP_COMPLETE:2]". Indices are base 10 and zero-based.
var markerPattern = regexp.MustCompile(`\[STEP_COMPLETE:(\d+)\]`)

// ExtractMarkers returns every step index referenced by a completion
// marker in the reply, in order of appearance, duplicates included.
// Range checking is the caller's job.
func ExtractMarkers(reply string) []int {
	matches := markerPattern.FindAllStringSubmatch(reply, -1)
	if len(matches) == 0 {
		return nil
	}

	indices := make([]int, 0, len(matches))
	for _, m := range matches {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			// \d+ can overflow int on absurd input; skip it.
			continue
		}
		indices = append(indices, n)
	}
	return indices
}

// StripMarkers removes all completion markers from the reply text shown
// to the technician.
func StripMarkers(reply string) string {
	return strings.TrimSpace(markerPattern.ReplaceAllString(reply, ""))
}
