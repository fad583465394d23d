package store

import (
	"sort"
	"sync"

	"github.com/datapigeon/fixity/internal/models"
)

// Store owns all mutable per-ticket state. Seed ticket records are immutable
// after load; only the status overlay, checklists, and chat histories change.
//
// Mutations for a single ticket must be serialized: callers performing a
// read-modify-write sequence (checklist generation, item updates, chat
// side effects) hold the ticket lock from Lock() for the whole sequence.
// Reset() is exclusive relative to every locked sequence.
type Store struct {
	seeds []models.Ticket
	index map[string]int

	// global is held read-side by locked ticket sequences and write-side
	// by Reset, so a reset never interleaves with an in-flight mutation.
	global sync.RWMutex

	mu         sync.RWMutex
	status     map[string]models.Status
	checklists map[string][]models.ChecklistItem
	histories  map[string][]models.ChatMessage

	lockMu      sync.Mutex
	ticketLocks map[string]*sync.Mutex
}

// New creates a store seeded from the immutable ticket records.
func New(seeds []models.Ticket) *Store {
	s := &Store{
		seeds:       seeds,
		index:       make(map[string]int, len(seeds)),
		ticketLocks: make(map[string]*sync.Mutex),
	}
	for i, t := range seeds {
		s.index[t.TicketID] = i
	}
	s.reseed()
	return s
}

// reseed re-initializes all mutable maps from the seed records.
func (s *Store) reseed() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status = make(map[string]models.Status, len(s.seeds))
	s.checklists = make(map[string][]models.ChecklistItem)
	s.histories = make(map[string][]models.ChatMessage)
	for _, t := range s.seeds {
		s.status[t.TicketID] = t.Status
	}
}

// Reset clears all mutable state and re-seeds status from the ticket
// records. It blocks until every in-flight locked sequence completes.
func (s *Store) Reset() {
	s.global.Lock()
	defer s.global.Unlock()
	s.reseed()
}

// Lock serializes mutations for one ticket id. The returned function
// releases the lock. Different ticket ids proceed in parallel.
func (s *Store) Lock(ticketID string) func() {
	s.global.RLock()

	s.lockMu.Lock()
	l, ok := s.ticketLocks[ticketID]
	if !ok {
		l = &sync.Mutex{}
		s.ticketLocks[ticketID] = l
	}
	s.lockMu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		s.global.RUnlock()
	}
}

// withStatus returns a copy of the seed ticket with the overlay applied.
func (s *Store) withStatus(t models.Ticket) models.Ticket {
	if st, ok := s.status[t.TicketID]; ok {
		t.Status = st
	}
	return t
}

// Tickets returns all tickets with the status overlay applied, optionally
// filtered to one status, sorted by urgency rank then descending failure
// probability. The sort is stable: ties keep seed order.
func (s *Store) Tickets(filter *models.Status) []models.Ticket {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Ticket, 0, len(s.seeds))
	for _, t := range s.seeds {
		t = s.withStatus(t)
		if filter != nil && t.Status != *filter {
			continue
		}
		out = append(out, t)
	}

	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := models.UrgencyRank(out[i].Urgency), models.UrgencyRank(out[j].Urgency)
		if ri != rj {
			return ri < rj
		}
		return out[i].PredictionDetails.ProbabilityScore > out[j].PredictionDetails.ProbabilityScore
	})
	return out
}

// Get returns a single ticket with the status overlay applied.
func (s *Store) Get(ticketID string) (models.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[ticketID]
	if !ok {
		return models.Ticket{}, ErrNotFound
	}
	return s.withStatus(s.seeds[i]), nil
}

// SetStatus applies an explicit status update. Any recognized status may be
// set directly; technicians can revert manually.
func (s *Store) SetStatus(ticketID string, status models.Status) (models.Ticket, error) {
	if _, ok := models.ParseStatus(string(status)); !ok {
		return models.Ticket{}, ErrInvalidStatus
	}

	unlock := s.Lock(ticketID)
	defer unlock()

	s.mu.Lock()
	i, ok := s.index[ticketID]
	if !ok {
		s.mu.Unlock()
		return models.Ticket{}, ErrNotFound
	}
	s.status[ticketID] = status
	t := s.withStatus(s.seeds[i])
	s.mu.Unlock()
	return t, nil
}

// ApplyStatus overwrites a ticket's status without validation.
// Caller must hold the ticket lock via Lock().
func (s *Store) ApplyStatus(ticketID string, status models.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.index[ticketID]; ok {
		s.status[ticketID] = status
	}
}

// StatusOf returns the current overlay status for a ticket.
func (s *Store) StatusOf(ticketID string) (models.Status, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.status[ticketID]
	return st, ok
}

// Checklist returns a copy of the cached checklist for a ticket, if any.
func (s *Store) Checklist(ticketID string) ([]models.ChecklistItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items, ok := s.checklists[ticketID]
	if !ok {
		return nil, false
	}
	out := make([]models.ChecklistItem, len(items))
	copy(out, items)
	return out, true
}

// PutChecklist caches a checklist for a ticket, replacing any prior value.
// Caller must hold the ticket lock via Lock().
func (s *Store) PutChecklist(ticketID string, items []models.ChecklistItem) {
	stored := make([]models.ChecklistItem, len(items))
	copy(stored, items)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.checklists[ticketID] = stored
}

// History returns a copy of the chat history for a ticket. If limit > 0,
// only the most recent limit entries are returned.
func (s *Store) History(ticketID string, limit int) []models.ChatMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := s.histories[ticketID]
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	out := make([]models.ChatMessage, len(msgs))
	copy(out, msgs)
	return out
}

// EnsureHistory lazily creates an empty history for unseen ticket ids.
func (s *Store) EnsureHistory(ticketID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.histories[ticketID]; !ok {
		s.histories[ticketID] = []models.ChatMessage{}
	}
}

// AppendHistory appends messages to a ticket's history.
// Caller must hold the ticket lock via Lock().
func (s *Store) AppendHistory(ticketID string, msgs ...models.ChatMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.histories[ticketID] = append(s.histories[ticketID], msgs...)
}
