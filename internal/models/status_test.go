package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveStatusGenerated(t *testing.T) {
	// First generation pulls a fresh ticket into in_progress but never
	// demotes a ticket that already moved past that point.
	assert.Equal(t, StatusInProgress, DeriveStatus(StatusPredictedFailure, EventChecklistGenerated))
	assert.Equal(t, StatusInProgress, DeriveStatus(StatusOffline, EventChecklistGenerated))
	assert.Equal(t, StatusInProgress, DeriveStatus(StatusInProgress, EventChecklistGenerated))
	assert.Equal(t, StatusCompleted, DeriveStatus(StatusCompleted, EventChecklistGenerated))
}

func TestDeriveStatusCompleted(t *testing.T) {
	for _, current := range []Status{StatusPredictedFailure, StatusInProgress, StatusCompleted, StatusOffline} {
		assert.Equal(t, StatusCompleted, DeriveStatus(current, EventChecklistCompleted), "from %s", current)
	}
}

func TestDeriveStatusReopened(t *testing.T) {
	// Unchecking only demotes a completed ticket.
	assert.Equal(t, StatusInProgress, DeriveStatus(StatusCompleted, EventChecklistReopened))
	assert.Equal(t, StatusInProgress, DeriveStatus(StatusInProgress, EventChecklistReopened))
	assert.Equal(t, StatusPredictedFailure, DeriveStatus(StatusPredictedFailure, EventChecklistReopened))
	assert.Equal(t, StatusOffline, DeriveStatus(StatusOffline, EventChecklistReopened))
}
