package checklist

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/datapigeon/fixity/internal/copilot"
	"github.com/datapigeon/fixity/internal/models"
	"github.com/datapigeon/fixity/internal/retrieval"
	"github.com/datapigeon/fixity/internal/store"
)

// Retriever fetches manual excerpts for a query.
type Retriever interface {
	Retrieve(ctx context.Context, query, chargerModel string, k int) ([]models.ManualExcerpt, error)
}

// Generator produces text from a system and user prompt.
type Generator interface {
	GenerateWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Engine owns the generate-parse-cache checklist lifecycle for tickets.
type Engine struct {
	store     *store.Store
	retriever Retriever
	generator Generator
	k         int
	logger    *slog.Logger
}

// NewEngine creates a checklist engine. retriever and generator may be nil
// when the pipeline is not available; generation then fails with
// ErrNotInitialized while cached reads keep working.
func NewEngine(st *store.Store, retriever Retriever, generator Generator, k int, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{store: st, retriever: retriever, generator: generator, k: k, logger: logger}
}

// Get returns the ticket's checklist, generating and caching it on first
// access. Repeat calls return the cached items unchanged, including any
// completion state and notes. Generation for one ticket runs at most once
// even under concurrent callers.
func (e *Engine) Get(ctx context.Context, ticketID string) ([]models.ChecklistItem, error) {
	if items, ok := e.store.Checklist(ticketID); ok {
		return items, nil
	}

	// Pipeline availability is checked before the ticket lookup so a
	// degraded server reports NotInitialized for any uncached checklist.
	if e.retriever == nil || e.generator == nil {
		return nil, copilot.ErrNotInitialized
	}

	ticket, err := e.store.Get(ticketID)
	if err != nil {
		return nil, err
	}

	unlock := e.store.Lock(ticketID)
	defer unlock()

	// A concurrent caller may have generated while we waited on the lock.
	if items, ok := e.store.Checklist(ticketID); ok {
		return items, nil
	}

	items, err := e.generate(ctx, ticket)
	if err != nil {
		return nil, err
	}

	e.store.PutChecklist(ticketID, items)
	if st, ok := e.store.StatusOf(ticketID); ok {
		e.store.ApplyStatus(ticketID, models.DeriveStatus(st, models.EventChecklistGenerated))
	}

	e.logger.Info("checklist generated",
		"ticket_id", ticketID,
		"model", ticket.StationInfo.Model,
		"component", ticket.PredictionDetails.FailingComponent,
		"steps", len(items))
	return items, nil
}

func (e *Engine) generate(ctx context.Context, ticket models.Ticket) ([]models.ChecklistItem, error) {
	query := retrieval.ChecklistQuery(ticket)
	excerpts, err := e.retriever.Retrieve(ctx, query, ticket.StationInfo.Model, e.k)
	if err != nil {
		return nil, fmt.Errorf("%w: retrieve manuals: %s", copilot.ErrUpstream, err)
	}

	reply, err := e.generator.GenerateWithSystem(ctx,
		checklistSystemPrompt(excerpts),
		checklistInstruction(ticket))
	if err != nil {
		return nil, fmt.Errorf("%w: generate checklist: %s", copilot.ErrUpstream, err)
	}

	items := Parse(reply)
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: model returned an empty checklist", copilot.ErrUpstream)
	}
	return items, nil
}

func checklistSystemPrompt(excerpts []models.ManualExcerpt) string {
	var b strings.Builder
	b.WriteString(copilot.Persona)
	b.WriteString("\n\n")

	if len(excerpts) == 0 {
		b.WriteString("No manual excerpts were found for this failure. Produce a generic, safety-led diagnostic checklist and say which steps need the service manual.")
		return b.String()
	}

	b.WriteString("Relevant manual excerpts:\n")
	for _, ex := range excerpts {
		fmt.Fprintf(&b, "\n[%s]\n%s\n", ex.Citation(), ex.Text)
	}
	return b.String()
}

func checklistInstruction(t models.Ticket) string {
	return fmt.Sprintf(
		"Create a numbered repair checklist for this predicted failure.\n"+
			"Charger model: %s\n"+
			"Failing component: %s\n"+
			"Expected error code: %s\n"+
			"Telemetry context: %s\n\n"+
			"Output ONLY the numbered steps, one per line, starting with the safety isolation steps. No preamble, no closing remarks.",
		t.StationInfo.Model,
		t.PredictionDetails.FailingComponent,
		t.PredictionDetails.ExpectedErrorCode,
		t.PredictionDetails.TelemetryContext,
	)
}

// SetItem updates one checklist item's completion flag and/or notes, then
// recomputes the ticket status: all items done moves the ticket to
// completed, and un-checking an item on a completed ticket demotes it back
// to in_progress.
func (e *Engine) SetItem(ticketID string, index int, completed bool, notes *string) (models.ChecklistItem, models.Status, error) {
	unlock := e.store.Lock(ticketID)
	defer unlock()

	items, ok := e.store.Checklist(ticketID)
	if !ok {
		if _, err := e.store.Get(ticketID); err != nil {
			return models.ChecklistItem{}, "", err
		}
		return models.ChecklistItem{}, "", store.ErrNoChecklist
	}
	if index < 0 || index >= len(items) {
		return models.ChecklistItem{}, "", store.ErrIndexOutOfRange
	}

	items[index].Completed = completed
	if notes != nil {
		items[index].Notes = *notes
	}
	e.store.PutChecklist(ticketID, items)

	status, _ := e.store.StatusOf(ticketID)
	if models.AllCompleted(items) {
		status = models.DeriveStatus(status, models.EventChecklistCompleted)
		e.store.ApplyStatus(ticketID, status)
	} else if status == models.StatusCompleted {
		status = models.DeriveStatus(status, models.EventChecklistReopened)
		e.store.ApplyStatus(ticketID, status)
	}
	return items[index], status, nil
}

// MarkCompleteByIndex checks off a single step detected from a chat
// completion marker. Out-of-range indices are ignored, and the ticket
// status is deliberately left alone: the copilot suggests progress, only
// an explicit item update moves the ticket.
func (e *Engine) MarkCompleteByIndex(ticketID string, index int) {
	unlock := e.store.Lock(ticketID)
	defer unlock()

	items, ok := e.store.Checklist(ticketID)
	if !ok || index < 0 || index >= len(items) {
		return
	}
	items[index].Completed = true
	e.store.PutChecklist(ticketID, items)
}
