package copilot

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/datapigeon/fixity/internal/models"
	"github.com/datapigeon/fixity/internal/retrieval"
	"github.com/datapigeon/fixity/internal/store"
	"github.com/datapigeon/fixity/internal/telemetry"
)

// Retriever fetches manual excerpts for a query.
type Retriever interface {
	Retrieve(ctx context.Context, query, chargerModel string, k int) ([]models.ManualExcerpt, error)
}

// Generator produces text from a system and user prompt.
type Generator interface {
	GenerateWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// StepMarker checks off checklist steps detected in model output.
type StepMarker interface {
	MarkCompleteByIndex(ticketID string, index int)
}

// ChatResult is the outcome of one chat turn.
type ChatResult struct {
	Answer         string   `json:"answer"`
	Sources        []string `json:"sources"`
	CompletedSteps []int    `json:"completed_steps"`
}

// Orchestrator grounds each technician question in manual excerpts, ticket
// facts, telemetry trends, and checklist state, then applies the side
// effects the model's reply implies.
type Orchestrator struct {
	store     *store.Store
	retriever Retriever
	generator Generator
	marker    StepMarker
	k         int
	logger    *slog.Logger
}

// NewOrchestrator creates a chat orchestrator. retriever and generator may
// be nil when the pipeline is unavailable; Chat then fails with
// ErrNotInitialized.
func NewOrchestrator(st *store.Store, retriever Retriever, generator Generator, marker StepMarker, k int, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{store: st, retriever: retriever, generator: generator, marker: marker, k: k, logger: logger}
}

// Chat runs one turn: retrieve, generate, apply step-completion markers,
// record history. stepIndex, when non-nil, focuses the turn on one
// checklist item. The retrieval query and the prompt question are
// deliberately different strings.
func (o *Orchestrator) Chat(ctx context.Context, ticketID, message string, stepIndex *int, imageAttached bool) (ChatResult, error) {
	if o.retriever == nil || o.generator == nil {
		return ChatResult{}, ErrNotInitialized
	}

	ticket, err := o.store.Get(ticketID)
	if err != nil {
		return ChatResult{}, err
	}

	o.store.EnsureHistory(ticketID)

	items, hasChecklist := o.store.Checklist(ticketID)
	stepTask := ""
	if stepIndex != nil && hasChecklist && *stepIndex >= 0 && *stepIndex < len(items) {
		stepTask = items[*stepIndex].Task
	}

	query := retrieval.ChatQuery(message, stepTask)
	excerpts, err := o.retriever.Retrieve(ctx, query, ticket.StationInfo.Model, o.k)
	if err != nil {
		return ChatResult{}, fmt.Errorf("%w: retrieve manuals: %s", ErrUpstream, err)
	}

	history := o.store.History(ticketID, 10)
	system := buildSystemPrompt(ticket, excerpts, items, hasChecklist, history, stepIndex, imageAttached)

	reply, err := o.generator.GenerateWithSystem(ctx, system, message)
	if err != nil {
		return ChatResult{}, fmt.Errorf("%w: generate answer: %s", ErrUpstream, err)
	}

	completed := o.applyMarkers(ticketID, reply)
	answer := StripMarkers(reply)

	now := time.Now().UTC()
	o.appendTurn(ticketID,
		models.ChatMessage{ID: uuid.NewString(), Role: models.RoleUser, Content: message, Timestamp: now, StepIndex: stepIndex},
		models.ChatMessage{ID: uuid.NewString(), Role: models.RoleAssistant, Content: answer, Timestamp: now, StepIndex: stepIndex},
	)

	o.logger.Info("chat turn complete",
		"ticket_id", ticketID, "sources", len(excerpts), "steps_completed", len(completed))
	return ChatResult{
		Answer:         answer,
		Sources:        citations(excerpts),
		CompletedSteps: completed,
	}, nil
}

// applyMarkers checks off every in-range step the reply marks complete and
// returns the indices that actually flipped. Ticket status is untouched;
// only an explicit item update recomputes it.
func (o *Orchestrator) applyMarkers(ticketID, reply string) []int {
	indices := ExtractMarkers(reply)
	if len(indices) == 0 {
		return []int{}
	}

	items, ok := o.store.Checklist(ticketID)
	if !ok {
		return []int{}
	}

	completed := []int{}
	seen := make(map[int]bool)
	for _, idx := range indices {
		if seen[idx] || idx < 0 || idx >= len(items) || items[idx].Completed {
			continue
		}
		seen[idx] = true
		o.marker.MarkCompleteByIndex(ticketID, idx)
		completed = append(completed, idx)
	}
	return completed
}

func (o *Orchestrator) appendTurn(ticketID string, msgs ...models.ChatMessage) {
	unlock := o.store.Lock(ticketID)
	defer unlock()
	o.store.AppendHistory(ticketID, msgs...)
}

// buildSystemPrompt concatenates the grounding layers. Every layer is
// optional; an empty ticket still produces a usable prompt.
func buildSystemPrompt(
	ticket models.Ticket,
	excerpts []models.ManualExcerpt,
	items []models.ChecklistItem,
	hasChecklist bool,
	history []models.ChatMessage,
	stepIndex *int,
	imageAttached bool,
) string {
	var b strings.Builder
	b.WriteString(Persona)

	if len(excerpts) > 0 {
		b.WriteString("\n\nRelevant manual excerpts:\n")
		for _, ex := range excerpts {
			fmt.Fprintf(&b, "\n[%s]\n%s\n", ex.Citation(), ex.Text)
		}
	}

	fmt.Fprintf(&b, "\n\nTicket context:\nCharger model: %s\nFailing component: %s\nExpected error code: %s\nTelemetry context: %s\n",
		ticket.StationInfo.Model,
		ticket.PredictionDetails.FailingComponent,
		ticket.PredictionDetails.ExpectedErrorCode,
		ticket.PredictionDetails.TelemetryContext,
	)

	fmt.Fprintf(&b, "\nTelemetry trend:\n%s\n", telemetry.Summarize(ticket))

	if hasChecklist {
		b.WriteString("\nRepair checklist:\n")
		for i, item := range items {
			state := "PENDING"
			if item.Completed {
				state = "DONE"
			}
			current := ""
			if stepIndex != nil && *stepIndex == i {
				current = " <- current step"
			}
			fmt.Fprintf(&b, "Step %d: [%s] %s%s\n", i, state, item.Task, current)
		}
	}

	if len(history) > 0 {
		b.WriteString("\nConversation so far:\n")
		for _, msg := range history {
			speaker := "Technician"
			if msg.Role == models.RoleAssistant {
				speaker = "Copilot"
			}
			fmt.Fprintf(&b, "%s: %s\n", speaker, msg.Content)
		}
	}

	if imageAttached {
		b.WriteString("\nThe technician attached a photo of the equipment. Acknowledge it and ask for specifics you cannot see if needed.\n")
	}

	if stepIndex != nil {
		fmt.Fprintf(&b, "\nIf and only if the technician's message clearly confirms that step %d is finished, append the literal marker [STEP_COMPLETE:%d] at the very end of your reply. Otherwise do not emit any marker.\n",
			*stepIndex, *stepIndex)
	}

	return b.String()
}

// citations returns the sorted unique "source - section" labels.
func citations(excerpts []models.ManualExcerpt) []string {
	seen := make(map[string]bool)
	labels := []string{}
	for _, ex := range excerpts {
		label := ex.Citation()
		if !seen[label] {
			seen[label] = true
			labels = append(labels, label)
		}
	}
	sort.Strings(labels)
	return labels
}
