// Package models defines data structures for the Fixity copilot service.
package models

import "encoding/json"

// Status is the mutable lifecycle state of a ticket.
type Status string

const (
	StatusPredictedFailure Status = "predicted_failure"
	StatusInProgress       Status = "in_progress"
	StatusCompleted        Status = "completed"
	StatusOffline          Status = "offline"
)

// ParseStatus validates a status string. The second return value is false
// for anything outside the four recognized statuses.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPredictedFailure, StatusInProgress, StatusCompleted, StatusOffline:
		return Status(s), true
	}
	return "", false
}

// UrgencyRank maps an urgency label to its sort rank. Unknown labels sort last.
func UrgencyRank(urgency string) int {
	switch urgency {
	case "critical":
		return 0
	case "high":
		return 1
	case "medium":
		return 2
	case "low":
		return 3
	}
	return 4
}

// StationInfo identifies the charging station a ticket belongs to.
// Model selects which repair-manual subset is eligible for retrieval.
type StationInfo struct {
	ChargerID   string `json:"charger_id"`
	Location    string `json:"location"`
	ChargerType string `json:"charger_type"`
	Model       string `json:"model"`
}

// PredictionDetails carries the predictive-maintenance output that raised
// the ticket.
type PredictionDetails struct {
	FailingComponent   string  `json:"failing_component"`
	ExpectedErrorCode  string  `json:"expected_error_code"`
	ProbabilityScore   float64 `json:"probability_score"`
	TimeToFailureHours float64 `json:"time_to_failure_hours"`
	TelemetryContext   string  `json:"telemetry_context"`
}

// Ticket is a predicted-failure record for one charging station.
// All fields except Status are immutable after load; Status reflects the
// store's overlay at read time.
type Ticket struct {
	TicketID           string              `json:"ticket_id"`
	Timestamp          string              `json:"timestamp"`
	Urgency            string              `json:"urgency"`
	Status             Status              `json:"status"`
	StationInfo        StationInfo         `json:"station_info"`
	PredictionDetails  PredictionDetails   `json:"prediction_details"`
	TelemetrySnapshots []TelemetrySnapshot `json:"telemetry_snapshots,omitempty"`
}

// TelemetrySnapshot is one time-ordered set of sensor readings. The wire
// format is a flat object: a timestamp plus arbitrary sensor keys whose
// values are numeric or null.
type TelemetrySnapshot struct {
	Timestamp string
	Readings  map[string]*float64
}

// Offline reports whether every sensor reading in the snapshot is null.
func (s TelemetrySnapshot) Offline() bool {
	for _, v := range s.Readings {
		if v != nil {
			return false
		}
	}
	return true
}

// UnmarshalJSON decodes the flat snapshot object, splitting the timestamp
// from the sensor readings.
func (s *TelemetrySnapshot) UnmarshalJSON(data []byte) error {
	raw := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	s.Readings = make(map[string]*float64, len(raw))
	for key, val := range raw {
		if key == "timestamp" {
			if err := json.Unmarshal(val, &s.Timestamp); err != nil {
				return err
			}
			continue
		}
		var num *float64
		if err := json.Unmarshal(val, &num); err != nil {
			// Non-numeric sensor values are treated as absent readings.
			num = nil
		}
		s.Readings[key] = num
	}
	return nil
}

// MarshalJSON re-flattens the snapshot into its wire format.
func (s TelemetrySnapshot) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(s.Readings)+1)
	if s.Timestamp != "" {
		flat["timestamp"] = s.Timestamp
	}
	for key, val := range s.Readings {
		if val != nil {
			flat[key] = *val
		} else {
			flat[key] = nil
		}
	}
	return json.Marshal(flat)
}
