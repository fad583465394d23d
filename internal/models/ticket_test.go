package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in    string
		want  Status
		valid bool
	}{
		{"predicted_failure", StatusPredictedFailure, true},
		{"in_progress", StatusInProgress, true},
		{"completed", StatusCompleted, true},
		{"offline", StatusOffline, true},
		{"", "", false},
		{"done", "", false},
		{"IN_PROGRESS", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseStatus(tt.in)
		assert.Equal(t, tt.valid, ok, "input %q", tt.in)
		if tt.valid {
			assert.Equal(t, tt.want, got)
		}
	}
}

func TestUrgencyRank(t *testing.T) {
	assert.Equal(t, 0, UrgencyRank("critical"))
	assert.Equal(t, 1, UrgencyRank("high"))
	assert.Equal(t, 2, UrgencyRank("medium"))
	assert.Equal(t, 3, UrgencyRank("low"))

	// Unknown urgencies sort after every known one.
	assert.Greater(t, UrgencyRank("urgent"), UrgencyRank("low"))
	assert.Greater(t, UrgencyRank(""), UrgencyRank("low"))
}

func TestTelemetrySnapshotUnmarshal(t *testing.T) {
	raw := `{"timestamp":"2024-03-18T06:00:00Z","coolant_temp_c":49.3,"fan_rpm":null,"firmware":"v2"}`

	var snap TelemetrySnapshot
	require.NoError(t, json.Unmarshal([]byte(raw), &snap))

	assert.Equal(t, "2024-03-18T06:00:00Z", snap.Timestamp)
	require.Contains(t, snap.Readings, "coolant_temp_c")
	require.NotNil(t, snap.Readings["coolant_temp_c"])
	assert.InDelta(t, 49.3, *snap.Readings["coolant_temp_c"], 0.001)

	// Null and non-numeric values both come through as nil readings.
	require.Contains(t, snap.Readings, "fan_rpm")
	assert.Nil(t, snap.Readings["fan_rpm"])
	require.Contains(t, snap.Readings, "firmware")
	assert.Nil(t, snap.Readings["firmware"])

	assert.False(t, snap.Offline())
}

func TestTelemetrySnapshotOffline(t *testing.T) {
	var snap TelemetrySnapshot
	require.NoError(t, json.Unmarshal([]byte(`{"timestamp":"t1","a":null,"b":null}`), &snap))
	assert.True(t, snap.Offline())

	var empty TelemetrySnapshot
	require.NoError(t, json.Unmarshal([]byte(`{"timestamp":"t1"}`), &empty))
	assert.True(t, empty.Offline())
}

func TestAllCompleted(t *testing.T) {
	assert.False(t, AllCompleted(nil))
	assert.False(t, AllCompleted([]ChecklistItem{{Completed: true}, {Completed: false}}))
	assert.True(t, AllCompleted([]ChecklistItem{{Completed: true}, {Completed: true}}))
}
