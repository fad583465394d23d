// Package telemetry converts raw sensor snapshots into compact textual
// trend descriptions for LLM prompt context. The output never feeds the
// retrieval query; free-running sensor prose pollutes the embedding signal.
package telemetry

import (
	"fmt"
	"sort"
	"strings"

	"github.com/datapigeon/fixity/internal/models"
)

const (
	// NoDataSummary is returned when a ticket carries no snapshots.
	NoDataSummary = "No telemetry data available for this unit."

	// OfflineSummary is returned when every snapshot has only null readings.
	OfflineSummary = "Unit appears to be offline - all telemetry readings are null."
)

// Summarize produces one human-readable trend line per sensor key present
// in the first non-offline snapshot: first/last/min/max values, percent
// change, and direction.
func Summarize(t models.Ticket) string {
	if len(t.TelemetrySnapshots) == 0 {
		return NoDataSummary
	}

	valid := make([]models.TelemetrySnapshot, 0, len(t.TelemetrySnapshots))
	for _, snap := range t.TelemetrySnapshots {
		if !snap.Offline() {
			valid = append(valid, snap)
		}
	}
	if len(valid) == 0 {
		return OfflineSummary
	}

	// Sensor set is fixed by the first valid snapshot; keys sorted for
	// deterministic output.
	keys := make([]string, 0, len(valid[0].Readings))
	for key, val := range valid[0].Readings {
		if val != nil {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	var lines []string
	for _, key := range keys {
		series := make([]float64, 0, len(valid))
		for _, snap := range valid {
			if v, ok := snap.Readings[key]; ok && v != nil {
				series = append(series, *v)
			}
		}
		if len(series) == 0 {
			continue
		}

		first, last := series[0], series[len(series)-1]
		minVal, maxVal := series[0], series[0]
		for _, v := range series[1:] {
			if v < minVal {
				minVal = v
			}
			if v > maxVal {
				maxVal = v
			}
		}

		pct := 0.0
		if first != 0 {
			pct = (last - first) / first * 100
			if pct < 0 {
				pct = -pct
			}
		}

		direction := "stable"
		if last > first {
			direction = "increasing"
		} else if last < first {
			direction = "decreasing"
		}

		lines = append(lines, fmt.Sprintf(
			"%s: %s (%.1f%% change), first %.2f, last %.2f, min %.2f, max %.2f",
			displayName(key), direction, pct, first, last, minVal, maxVal,
		))
	}

	if len(lines) == 0 {
		return OfflineSummary
	}
	return strings.Join(lines, "\n")
}

// displayName renders a sensor key like "coolant_flow_lpm" as
// "Coolant Flow Lpm".
func displayName(key string) string {
	words := strings.Split(key, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
