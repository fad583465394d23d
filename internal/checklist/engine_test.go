package checklist

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datapigeon/fixity/internal/copilot"
	"github.com/datapigeon/fixity/internal/models"
	"github.com/datapigeon/fixity/internal/store"
)

type fakeRetriever struct {
	calls     int
	lastQuery string
	lastModel string
	excerpts  []models.ManualExcerpt
	err       error
}

func (f *fakeRetriever) Retrieve(_ context.Context, query, chargerModel string, _ int) ([]models.ManualExcerpt, error) {
	f.calls++
	f.lastQuery = query
	f.lastModel = chargerModel
	return f.excerpts, f.err
}

type fakeGenerator struct {
	calls int
	reply string
	err   error
}

func (f *fakeGenerator) GenerateWithSystem(_ context.Context, _, _ string) (string, error) {
	f.calls++
	return f.reply, f.err
}

func engineFixture(t *testing.T, reply string) (*Engine, *store.Store, *fakeRetriever, *fakeGenerator) {
	t.Helper()
	st := store.New([]models.Ticket{{
		TicketID: "TKT-1",
		Urgency:  "critical",
		Status:   models.StatusPredictedFailure,
		StationInfo: models.StationInfo{
			Model: "Tesla_Supercharger_V3",
		},
		PredictionDetails: models.PredictionDetails{
			FailingComponent:  "Liquid Cooling Loop Radiator",
			ExpectedErrorCode: "VC-THRM-001",
		},
	}})
	r := &fakeRetriever{}
	g := &fakeGenerator{reply: reply}
	return NewEngine(st, r, g, 6, nil), st, r, g
}

func TestGetGeneratesOnce(t *testing.T) {
	e, _, r, g := engineFixture(t, "1. Lock out power\n2. Inspect radiator")

	items, err := e.Get(context.Background(), "TKT-1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Lock out power", items[0].Task)

	// Retrieval query combines model, component, and error code.
	assert.Equal(t, "Tesla_Supercharger_V3 Liquid Cooling Loop Radiator repair procedure for error VC-THRM-001", r.lastQuery)
	assert.Equal(t, "Tesla_Supercharger_V3", r.lastModel)

	// Repeat reads hit the cache, no second generation.
	again, err := e.Get(context.Background(), "TKT-1")
	require.NoError(t, err)
	assert.Equal(t, items, again)
	assert.Equal(t, 1, r.calls)
	assert.Equal(t, 1, g.calls)
}

func TestGetMovesTicketInProgress(t *testing.T) {
	e, st, _, _ := engineFixture(t, "1. Step one")

	_, err := e.Get(context.Background(), "TKT-1")
	require.NoError(t, err)

	tk, err := st.Get("TKT-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, tk.Status)
}

func TestGetUnknownTicket(t *testing.T) {
	e, _, _, _ := engineFixture(t, "1. Step one")

	_, err := e.Get(context.Background(), "TKT-404")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGetNotInitialized(t *testing.T) {
	st := store.New([]models.Ticket{{TicketID: "TKT-1", Status: models.StatusPredictedFailure}})
	e := NewEngine(st, nil, nil, 6, nil)

	_, err := e.Get(context.Background(), "TKT-1")
	assert.ErrorIs(t, err, copilot.ErrNotInitialized)

	// Without a pipeline, NotInitialized wins even for unknown tickets.
	_, err = e.Get(context.Background(), "TKT-404")
	assert.ErrorIs(t, err, copilot.ErrNotInitialized)

	// Cached reads still work without a pipeline.
	st.PutChecklist("TKT-1", []models.ChecklistItem{{Task: "Reboot"}})
	items, err := e.Get(context.Background(), "TKT-1")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestGetUpstreamFailures(t *testing.T) {
	e, st, r, _ := engineFixture(t, "1. Step one")
	r.err = errors.New("surreal timeout")

	_, err := e.Get(context.Background(), "TKT-1")
	assert.ErrorIs(t, err, copilot.ErrUpstream)

	// Failed generation must not cache anything or touch the status.
	_, ok := st.Checklist("TKT-1")
	assert.False(t, ok)
	tk, _ := st.Get("TKT-1")
	assert.Equal(t, models.StatusPredictedFailure, tk.Status)

	r.err = nil
	e2, _, _, g := engineFixture(t, "")
	g.reply = "   \n\n"
	_, err = e2.Get(context.Background(), "TKT-1")
	assert.ErrorIs(t, err, copilot.ErrUpstream)
}

func TestSetItem(t *testing.T) {
	e, _, _, _ := engineFixture(t, "1. Step one\n2. Step two")
	_, err := e.Get(context.Background(), "TKT-1")
	require.NoError(t, err)

	notes := "torqued to 6.5 Nm"
	item, status, err := e.SetItem("TKT-1", 0, true, &notes)
	require.NoError(t, err)
	assert.True(t, item.Completed)
	assert.Equal(t, "torqued to 6.5 Nm", item.Notes)
	assert.Equal(t, models.StatusInProgress, status)

	// Completing the last open item moves the ticket to completed.
	_, status, err = e.SetItem("TKT-1", 1, true, nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, status)

	// Un-checking on a completed ticket demotes it.
	item, status, err = e.SetItem("TKT-1", 1, false, nil)
	require.NoError(t, err)
	assert.False(t, item.Completed)
	assert.Equal(t, models.StatusInProgress, status)
}

func TestSetItemNotesSurviveToggle(t *testing.T) {
	e, _, _, _ := engineFixture(t, "1. Step one")
	_, err := e.Get(context.Background(), "TKT-1")
	require.NoError(t, err)

	notes := "swapped module"
	_, _, err = e.SetItem("TKT-1", 0, true, &notes)
	require.NoError(t, err)

	// A nil notes pointer leaves the existing notes alone.
	item, _, err := e.SetItem("TKT-1", 0, false, nil)
	require.NoError(t, err)
	assert.Equal(t, "swapped module", item.Notes)
}

func TestSetItemErrors(t *testing.T) {
	e, st, _, _ := engineFixture(t, "1. Step one\n2. Step two")

	_, _, err := e.SetItem("TKT-404", 0, true, nil)
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, _, err = e.SetItem("TKT-1", 0, true, nil)
	assert.ErrorIs(t, err, store.ErrNoChecklist)

	_, genErr := e.Get(context.Background(), "TKT-1")
	require.NoError(t, genErr)

	_, _, err = e.SetItem("TKT-1", 2, true, nil)
	assert.ErrorIs(t, err, store.ErrIndexOutOfRange)
	_, _, err = e.SetItem("TKT-1", -1, true, nil)
	assert.ErrorIs(t, err, store.ErrIndexOutOfRange)

	// Rejected updates leave the checklist untouched.
	items, _ := st.Checklist("TKT-1")
	for _, item := range items {
		assert.False(t, item.Completed)
	}
}

func TestMarkCompleteByIndex(t *testing.T) {
	e, st, _, _ := engineFixture(t, "1. Step one\n2. Step two")
	_, err := e.Get(context.Background(), "TKT-1")
	require.NoError(t, err)

	e.MarkCompleteByIndex("TKT-1", 0)
	items, _ := st.Checklist("TKT-1")
	assert.True(t, items[0].Completed)

	// Marker-driven completion never advances the ticket status, even when
	// it checks off the final item.
	e.MarkCompleteByIndex("TKT-1", 1)
	tk, _ := st.Get("TKT-1")
	assert.Equal(t, models.StatusInProgress, tk.Status)

	// Out-of-range and unknown tickets are silently ignored.
	e.MarkCompleteByIndex("TKT-1", 99)
	e.MarkCompleteByIndex("TKT-404", 0)
}
