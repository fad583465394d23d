package server

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/datapigeon/fixity/internal/models"
	"github.com/datapigeon/fixity/internal/store"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListTickets(w http.ResponseWriter, r *http.Request) {
	var filter *models.Status
	if raw := r.URL.Query().Get("status"); raw != "" {
		st, ok := models.ParseStatus(raw)
		if !ok {
			writeError(w, s.logger, fmt.Errorf("%w: unknown status %q", store.ErrInvalidStatus, raw))
			return
		}
		filter = &st
	}
	writeJSON(w, http.StatusOK, s.store.Tickets(filter))
}

func (s *Server) handleGetTicket(w http.ResponseWriter, r *http.Request) {
	ticket, err := s.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, ticket)
}

type setStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	var req setStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, s.logger, fmt.Errorf("%w: malformed body", store.ErrInvalidStatus))
		return
	}

	ticket, err := s.store.SetStatus(chi.URLParam(r, "id"), models.Status(req.Status))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, ticket)
}

type checklistResponse struct {
	TicketID string                 `json:"ticket_id"`
	Items    []models.ChecklistItem `json:"items"`
}

func (s *Server) handleGetChecklist(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	items, err := s.engine.Get(r.Context(), id)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, checklistResponse{TicketID: id, Items: items})
}

type setItemRequest struct {
	Completed bool    `json:"completed"`
	Notes     *string `json:"notes,omitempty"`
}

type setItemResponse struct {
	Item         models.ChecklistItem `json:"item"`
	TicketStatus models.Status        `json:"ticket_status"`
}

func (s *Server) handleSetChecklistItem(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, s.logger, fmt.Errorf("%w: non-numeric index", store.ErrIndexOutOfRange))
		return
	}

	var req setItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, s.logger, fmt.Errorf("%w: malformed body", store.ErrIndexOutOfRange))
		return
	}

	item, status, err := s.engine.SetItem(chi.URLParam(r, "id"), index, req.Completed, req.Notes)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, setItemResponse{Item: item, TicketStatus: status})
}

type chatRequest struct {
	TicketID    string `json:"ticket_id"`
	Message     string `json:"message"`
	StepIndex   *int   `json:"step_index,omitempty"`
	ImageBase64 string `json:"image_base64,omitempty"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, s.logger, fmt.Errorf("%w: malformed body", store.ErrInvalidStatus))
		return
	}

	result, err := s.orchestrator.Chat(r.Context(), req.TicketID, req.Message, req.StepIndex, req.ImageBase64 != "")
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.store.Get(id); err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, s.store.History(id, 0))
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")

	// An empty configured key disables reset entirely.
	if s.adminKey == "" || subtle.ConstantTimeCompare([]byte(key), []byte(s.adminKey)) != 1 {
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "invalid admin key"})
		return
	}

	s.store.Reset()
	s.logger.Info("store reset by admin")
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.collector.Snapshot())
}
