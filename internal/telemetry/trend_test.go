package telemetry

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datapigeon/fixity/internal/models"
)

func f(v float64) *float64 { return &v }

func snapshot(ts string, readings map[string]*float64) models.TelemetrySnapshot {
	return models.TelemetrySnapshot{Timestamp: ts, Readings: readings}
}

func TestSummarizeNoData(t *testing.T) {
	assert.Equal(t, NoDataSummary, Summarize(models.Ticket{}))
}

func TestSummarizeOffline(t *testing.T) {
	ticket := models.Ticket{
		TelemetrySnapshots: []models.TelemetrySnapshot{
			snapshot("t1", map[string]*float64{"fan_rpm": nil, "temp_c": nil}),
			snapshot("t2", map[string]*float64{"fan_rpm": nil, "temp_c": nil}),
		},
	}
	assert.Equal(t, OfflineSummary, Summarize(ticket))
}

func TestSummarizeTrend(t *testing.T) {
	ticket := models.Ticket{
		TelemetrySnapshots: []models.TelemetrySnapshot{
			snapshot("t1", map[string]*float64{"coolant_temp_c": f(10), "coolant_flow_lpm": f(12)}),
			snapshot("t2", map[string]*float64{"coolant_temp_c": f(12), "coolant_flow_lpm": f(11)}),
			snapshot("t3", map[string]*float64{"coolant_temp_c": f(15), "coolant_flow_lpm": f(9)}),
		},
	}

	out := Summarize(ticket)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)

	// Keys come out sorted, so flow precedes temp.
	assert.Contains(t, lines[0], "Coolant Flow Lpm: decreasing (25.0% change)")
	assert.Contains(t, lines[0], "first 12.00, last 9.00, min 9.00, max 12.00")
	assert.Contains(t, lines[1], "Coolant Temp C: increasing (50.0% change)")
	assert.Contains(t, lines[1], "first 10.00, last 15.00, min 10.00, max 15.00")
}

func TestSummarizeSkipsOfflineSnapshots(t *testing.T) {
	ticket := models.Ticket{
		TelemetrySnapshots: []models.TelemetrySnapshot{
			snapshot("t1", map[string]*float64{"temp_c": nil}),
			snapshot("t2", map[string]*float64{"temp_c": f(40)}),
			snapshot("t3", map[string]*float64{"temp_c": f(40)}),
		},
	}

	out := Summarize(ticket)
	assert.Contains(t, out, "Temp C: stable (0.0% change)")
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Coolant Flow Lpm", displayName("coolant_flow_lpm"))
	assert.Equal(t, "Rpm", displayName("rpm"))
}
