package copilot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractMarkers(t *testing.T) {
	assert.Nil(t, ExtractMarkers("Coolant level looks fine, keep going."))
	assert.Equal(t, []int{2}, ExtractMarkers("Great, that step is done. [STEP_COMPLETE:2]"))
	assert.Equal(t, []int{0, 3}, ExtractMarkers("[STEP_COMPLETE:0] and later [STEP_COMPLETE:3]"))

	// Duplicates are preserved; de-duplication is the caller's job.
	assert.Equal(t, []int{1, 1}, ExtractMarkers("[STEP_COMPLETE:1][STEP_COMPLETE:1]"))

	// Malformed tokens never match.
	assert.Nil(t, ExtractMarkers("[STEP_COMPLETE:] [STEP_COMPLETE:abc] [step_complete:2]"))
}

func TestStripMarkers(t *testing.T) {
	assert.Equal(t, "Nice work, the radiator swap is verified.",
		StripMarkers("Nice work, the radiator swap is verified. [STEP_COMPLETE:4]"))
	assert.Equal(t, "Both done.",
		StripMarkers("[STEP_COMPLETE:0] Both done. [STEP_COMPLETE:1]"))
	assert.Equal(t, "No markers here.", StripMarkers("No markers here."))
}
