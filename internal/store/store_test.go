package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datapigeon/fixity/internal/models"
)

func seedTickets() []models.Ticket {
	return []models.Ticket{
		{
			TicketID: "TKT-1", Urgency: "medium", Status: models.StatusPredictedFailure,
			PredictionDetails: models.PredictionDetails{ProbabilityScore: 0.63},
		},
		{
			TicketID: "TKT-2", Urgency: "critical", Status: models.StatusPredictedFailure,
			PredictionDetails: models.PredictionDetails{ProbabilityScore: 0.94},
		},
		{
			TicketID: "TKT-3", Urgency: "high", Status: models.StatusPredictedFailure,
			PredictionDetails: models.PredictionDetails{ProbabilityScore: 0.77},
		},
		{
			TicketID: "TKT-4", Urgency: "high", Status: models.StatusOffline,
			PredictionDetails: models.PredictionDetails{ProbabilityScore: 0.81},
		},
		{
			TicketID: "TKT-5", Urgency: "escalated", Status: models.StatusPredictedFailure,
			PredictionDetails: models.PredictionDetails{ProbabilityScore: 0.99},
		},
	}
}

func TestTicketsSorted(t *testing.T) {
	s := New(seedTickets())

	got := s.Tickets(nil)
	require.Len(t, got, 5)

	// Urgency rank ascending, probability descending within a rank.
	// The unknown urgency sorts last regardless of probability.
	ids := make([]string, len(got))
	for i, tk := range got {
		ids[i] = tk.TicketID
	}
	assert.Equal(t, []string{"TKT-2", "TKT-4", "TKT-3", "TKT-1", "TKT-5"}, ids)

	for i := 1; i < len(got); i++ {
		prev, cur := got[i-1], got[i]
		rp, rc := models.UrgencyRank(prev.Urgency), models.UrgencyRank(cur.Urgency)
		assert.LessOrEqual(t, rp, rc)
		if rp == rc {
			assert.GreaterOrEqual(t, prev.PredictionDetails.ProbabilityScore, cur.PredictionDetails.ProbabilityScore)
		}
	}
}

func TestTicketsFilter(t *testing.T) {
	s := New(seedTickets())

	offline := models.StatusOffline
	got := s.Tickets(&offline)
	require.Len(t, got, 1)
	assert.Equal(t, "TKT-4", got[0].TicketID)

	completed := models.StatusCompleted
	assert.Empty(t, s.Tickets(&completed))
}

func TestGet(t *testing.T) {
	s := New(seedTickets())

	tk, err := s.Get("TKT-2")
	require.NoError(t, err)
	assert.Equal(t, "critical", tk.Urgency)

	_, err = s.Get("TKT-999")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetStatus(t *testing.T) {
	s := New(seedTickets())

	tk, err := s.SetStatus("TKT-1", models.StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, tk.Status)

	// The overlay survives subsequent reads.
	tk, err = s.Get("TKT-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, tk.Status)

	_, err = s.SetStatus("TKT-1", models.Status("broken"))
	assert.ErrorIs(t, err, ErrInvalidStatus)
	tk, _ = s.Get("TKT-1")
	assert.Equal(t, models.StatusInProgress, tk.Status, "rejected update must not change state")

	_, err = s.SetStatus("TKT-999", models.StatusCompleted)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestChecklistCopySemantics(t *testing.T) {
	s := New(seedTickets())

	_, ok := s.Checklist("TKT-1")
	assert.False(t, ok)

	items := []models.ChecklistItem{{Task: "Reboot the station"}, {Task: "Inspect the radiator"}}
	s.PutChecklist("TKT-1", items)

	got, ok := s.Checklist("TKT-1")
	require.True(t, ok)
	require.Len(t, got, 2)

	// Mutating the returned slice must not touch the cached copy.
	got[0].Completed = true
	again, _ := s.Checklist("TKT-1")
	assert.False(t, again[0].Completed)

	// Mutating the input slice after Put must not either.
	items[1].Task = "changed"
	again, _ = s.Checklist("TKT-1")
	assert.Equal(t, "Inspect the radiator", again[1].Task)
}

func TestHistoryLimit(t *testing.T) {
	s := New(seedTickets())
	now := time.Now().UTC()

	for i := 0; i < 14; i++ {
		role := models.RoleUser
		if i%2 == 1 {
			role = models.RoleAssistant
		}
		s.AppendHistory("TKT-1", models.ChatMessage{ID: string(rune('a' + i)), Role: role, Timestamp: now})
	}

	all := s.History("TKT-1", 0)
	assert.Len(t, all, 14)

	last := s.History("TKT-1", 10)
	require.Len(t, last, 10)
	assert.Equal(t, all[4].ID, last[0].ID, "limit keeps the most recent entries")

	assert.Empty(t, s.History("TKT-999", 10))
}

func TestReset(t *testing.T) {
	s := New(seedTickets())

	_, err := s.SetStatus("TKT-1", models.StatusCompleted)
	require.NoError(t, err)
	s.PutChecklist("TKT-1", []models.ChecklistItem{{Task: "Reboot"}})
	s.AppendHistory("TKT-1", models.ChatMessage{ID: "m1", Role: models.RoleUser})

	s.Reset()

	tk, err := s.Get("TKT-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPredictedFailure, tk.Status)

	tk, err = s.Get("TKT-4")
	require.NoError(t, err)
	assert.Equal(t, models.StatusOffline, tk.Status, "seed statuses are restored, not zeroed")

	_, ok := s.Checklist("TKT-1")
	assert.False(t, ok)
	assert.Empty(t, s.History("TKT-1", 0))
}

func TestLockSerializesPerTicket(t *testing.T) {
	s := New(seedTickets())

	unlock := s.Lock("TKT-1")
	done := make(chan struct{})
	go func() {
		u := s.Lock("TKT-1")
		u()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("second lock acquired while first still held")
	case <-time.After(50 * time.Millisecond):
	}

	unlock()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("second lock never acquired after release")
	}
}
