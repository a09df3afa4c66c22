package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/swapdeck/swapdeck/pkg/middleware"
	"github.com/swapdeck/swapdeck/pkg/models"
	"github.com/swapdeck/swapdeck/pkg/trades"
)

// newTradeRequest is the body for opening a trade negotiation directly.
type newTradeRequest struct {
	ToUserID        string `json:"to_user_id" validate:"required"`
	OfferedItemID   string `json:"offered_item_id" validate:"required"`
	RequestedItemID string `json:"requested_item_id" validate:"required"`
}

// feedbackResponseRequest is the body for answering a feedback request.
type feedbackResponseRequest struct {
	Accepted bool   `json:"accepted"`
	Feedback string `json:"feedback,omitempty"`
}

// tradeResponse is the success envelope for trade operations.
type tradeResponse struct {
	Success bool               `json:"success"`
	Trade   *models.TradeOffer `json:"trade"`
}

// CreateTrade opens a negotiation on behalf of the caller.
func (h *ApiHandler) CreateTrade(w http.ResponseWriter, r *http.Request) {
	var req newTradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(w, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	offer, err := h.Trades.CreateOffer(r.Context(), middleware.UserID(r.Context()), req.ToUserID, req.OfferedItemID, req.RequestedItemID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, tradeResponse{Success: true, Trade: offer})
}

// GetTrade retrieves a single trade offer.
func (h *ApiHandler) GetTrade(w http.ResponseWriter, r *http.Request) {
	offer, err := h.Trades.GetTrade(r.Context(), chi.URLParam(r, "tradeID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tradeResponse{Success: true, Trade: offer})
}

// ListTrades retrieves the caller's trades, optionally filtered by role.
func (h *ApiHandler) ListTrades(w http.ResponseWriter, r *http.Request) {
	role := trades.TradeRole(r.URL.Query().Get("role"))
	if role == "" {
		role = trades.RoleAll
	}

	list, err := h.Trades.ListTrades(r.Context(), middleware.UserID(r.Context()), role)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "trades": list})
}

// transitionHandler adapts a single-argument engine transition to HTTP.
func (h *ApiHandler) transitionHandler(op func(r *http.Request, tradeID string) (*models.TradeOffer, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		offer, err := op(r, chi.URLParam(r, "tradeID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, tradeResponse{Success: true, Trade: offer})
	}
}

// AcceptTrade handles POST /trades/{tradeID}/accept.
func (h *ApiHandler) AcceptTrade(w http.ResponseWriter, r *http.Request) {
	h.transitionHandler(func(r *http.Request, id string) (*models.TradeOffer, error) {
		return h.Trades.Accept(r.Context(), id)
	})(w, r)
}

// DeclineTrade handles POST /trades/{tradeID}/decline.
func (h *ApiHandler) DeclineTrade(w http.ResponseWriter, r *http.Request) {
	h.transitionHandler(func(r *http.Request, id string) (*models.TradeOffer, error) {
		return h.Trades.Decline(r.Context(), id)
	})(w, r)
}

// RequestFeedback handles POST /trades/{tradeID}/feedback-request.
func (h *ApiHandler) RequestFeedback(w http.ResponseWriter, r *http.Request) {
	h.transitionHandler(func(r *http.Request, id string) (*models.TradeOffer, error) {
		return h.Trades.RequestFeedback(r.Context(), id)
	})(w, r)
}

// RespondToFeedback handles POST /trades/{tradeID}/feedback.
func (h *ApiHandler) RespondToFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackResponseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(w, fmt.Errorf("invalid request body: %w", err))
		return
	}

	offer, err := h.Trades.RespondToFeedback(r.Context(), chi.URLParam(r, "tradeID"), req.Accepted, req.Feedback)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tradeResponse{Success: true, Trade: offer})
}

// CompleteTrade handles POST /trades/{tradeID}/complete.
func (h *ApiHandler) CompleteTrade(w http.ResponseWriter, r *http.Request) {
	h.transitionHandler(func(r *http.Request, id string) (*models.TradeOffer, error) {
		return h.Trades.Complete(r.Context(), id)
	})(w, r)
}

// CancelTrade handles POST /trades/{tradeID}/cancel.
func (h *ApiHandler) CancelTrade(w http.ResponseWriter, r *http.Request) {
	h.transitionHandler(func(r *http.Request, id string) (*models.TradeOffer, error) {
		return h.Trades.Cancel(r.Context(), id)
	})(w, r)
}
