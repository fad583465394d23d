package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/datapigeon/fixity/internal/copilot"
	"github.com/datapigeon/fixity/internal/store"
)

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps domain sentinel errors onto HTTP status codes.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, store.ErrNoChecklist):
		status = http.StatusNotFound
	case errors.Is(err, store.ErrInvalidStatus), errors.Is(err, store.ErrIndexOutOfRange):
		status = http.StatusBadRequest
	case errors.Is(err, copilot.ErrNotInitialized):
		status = http.StatusInternalServerError
	case errors.Is(err, copilot.ErrUpstream):
		status = http.StatusBadGateway
	}

	if status >= 500 {
		logger.Error("request failed", "status", status, "error", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
