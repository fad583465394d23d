package store

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/datapigeon/fixity/internal/models"
)

// LoadAlerts reads the predictive alert feed from a JSON file.
// Tickets without a recognized seed status default to predicted_failure.
func LoadAlerts(path string) ([]models.Ticket, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read alerts file: %w", err)
	}

	var tickets []models.Ticket
	if err := json.Unmarshal(data, &tickets); err != nil {
		return nil, fmt.Errorf("parse alerts file: %w", err)
	}

	for i := range tickets {
		if _, ok := models.ParseStatus(string(tickets[i].Status)); !ok {
			tickets[i].Status = models.StatusPredictedFailure
		}
	}
	return tickets, nil
}
