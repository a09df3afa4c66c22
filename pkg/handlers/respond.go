package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/swapdeck/swapdeck/pkg/notifications"
	"github.com/swapdeck/swapdeck/pkg/storage"
	"github.com/swapdeck/swapdeck/pkg/swipes"
	"github.com/swapdeck/swapdeck/pkg/trades"
)

// errorResponse is the uniform failure envelope: a stable machine-readable
// code plus the human-readable reason the UI surfaces.
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the error taxonomy onto HTTP statuses. Engine operations
// return error values rather than panicking across the boundary, so this is
// the single place wire statuses are decided.
func writeError(w http.ResponseWriter, err error) {
	code := "Internal"
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, trades.ErrInvalidStateTransition):
		code, status = "InvalidStateTransition", http.StatusConflict
	case errors.Is(err, trades.ErrDuplicatePendingOffer):
		code, status = "DuplicatePendingOffer", http.StatusConflict
	case errors.Is(err, trades.ErrValidation),
		errors.Is(err, swipes.ErrValidation),
		errors.Is(err, notifications.ErrInvalidPayload):
		code, status = "ValidationError", http.StatusBadRequest
	case errors.Is(err, storage.ErrNotFound):
		code, status = "NotFound", http.StatusNotFound
	case errors.Is(err, storage.ErrUnavailable):
		code, status = "StorageUnavailable", http.StatusServiceUnavailable
	}

	writeJSON(w, status, errorResponse{Success: false, Error: code, Message: err.Error()})
}

func writeValidationError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Success: false, Error: "ValidationError", Message: err.Error()})
}
