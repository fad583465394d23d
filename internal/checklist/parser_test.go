package checklist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumbered(t *testing.T) {
	text := "1. Lock out the upstream breaker\n2. Wait 5 minutes for capacitor discharge\n3) Remove the front panel\n10. Verify zero energy at the bus"

	items := Parse(text)
	require.Len(t, items, 4)
	assert.Equal(t, "Lock out the upstream breaker", items[0].Task)
	assert.Equal(t, "Remove the front panel", items[2].Task)
	assert.Equal(t, "Verify zero energy at the bus", items[3].Task)
	for _, item := range items {
		assert.False(t, item.Completed)
		assert.Empty(t, item.Notes)
	}
}

func TestParseBullets(t *testing.T) {
	text := "- Check coolant level\n* Inspect radiator fins\n-Flush the loop"

	items := Parse(text)
	require.Len(t, items, 3)
	assert.Equal(t, "Check coolant level", items[0].Task)
	assert.Equal(t, "Inspect radiator fins", items[1].Task)
	assert.Equal(t, "Flush the loop", items[2].Task)
}

func TestParseIgnoresProse(t *testing.T) {
	text := "Here is your checklist:\n\n1. Reboot the station\n2. Re-check the error code\n\nGood luck out there!"

	items := Parse(text)
	require.Len(t, items, 2)
	assert.Equal(t, "Reboot the station", items[0].Task)
	assert.Equal(t, "Re-check the error code", items[1].Task)
}

func TestParseFallback(t *testing.T) {
	// No line carries a list marker, so every non-blank line becomes a task.
	text := "Reboot the station\n\nMeasure the phase currents\nSwap the rectifier module"

	items := Parse(text)
	require.Len(t, items, 3)
	assert.Equal(t, "Reboot the station", items[0].Task)
	assert.Equal(t, "Measure the phase currents", items[1].Task)
}

func TestParseDigitPrefixWithoutSeparator(t *testing.T) {
	// A leading digit run without "." or ")" still counts as a marker.
	items := Parse("5 minute capacitor wait before opening the cabinet")
	require.Len(t, items, 1)
	assert.Equal(t, "minute capacitor wait before opening the cabinet", items[0].Task)
}

func TestParseEmpty(t *testing.T) {
	assert.Empty(t, Parse(""))
	assert.Empty(t, Parse("\n  \n\t\n"))
}
