package models

import (
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// ManualChunk is one embedded excerpt of a repair manual stored in the
// corpus. ChargerModel scopes retrieval to the correct station type.
type ManualChunk struct {
	ID           surrealmodels.RecordID `json:"id"`
	Content      string                 `json:"content"`
	ChargerModel string                 `json:"charger_model"`
	Component    string                 `json:"component"`
	Source       string                 `json:"source"`
	Section      string                 `json:"section"`
}

// ManualExcerpt is a retrieved chunk as seen by the checklist engine and
// the chat orchestrator.
type ManualExcerpt struct {
	Text         string `json:"text"`
	Source       string `json:"source"`
	Section      string `json:"section"`
	ChargerModel string `json:"charger_model"`
}

// Citation renders the excerpt's "source - section" label.
func (e ManualExcerpt) Citation() string {
	if e.Section == "" {
		return e.Source
	}
	return e.Source + " - " + e.Section
}
