package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/swapdeck/swapdeck/pkg/middleware"
	"github.com/swapdeck/swapdeck/pkg/models"
	"github.com/swapdeck/swapdeck/pkg/storage"
)

// swipeRequest is the body for recording a swipe. When the swipe is a right
// swipe on a trade-kind item and the caller names one of their own items to
// offer, a trade negotiation is opened in the same request.
type swipeRequest struct {
	ItemID        string                `json:"item_id" validate:"required"`
	Direction     models.SwipeDirection `json:"direction" validate:"required,oneof=left right"`
	OfferedItemID string                `json:"offered_item_id,omitempty"`
}

// swipeResponse carries each step's result: the recorded swipe, and, when an
// offer was attempted, either the created trade or the reason it failed.
type swipeResponse struct {
	Success    bool                `json:"success"`
	Swipe      *models.SwipeRecord `json:"swipe"`
	Trade      *models.TradeOffer  `json:"trade,omitempty"`
	TradeError string              `json:"trade_error,omitempty"`
}

// rankRequest is the body for ordering a candidate set.
type rankRequest struct {
	CandidateIDs []string `json:"candidate_ids" validate:"required,min=1"`
}

// RecordSwipe records a swipe decision and orchestrates the follow-up: a
// right swipe on a trade-kind item with an offered item opens a TradeOffer,
// which in turn notifies the item's owner. The swipe itself stands even when
// the offer is rejected (e.g. a duplicate pending offer).
func (h *ApiHandler) RecordSwipe(w http.ResponseWriter, r *http.Request) {
	var req swipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(w, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	userID := middleware.UserID(r.Context())

	record, err := h.Swipes.RecordSwipe(r.Context(), userID, req.ItemID, req.Direction)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := swipeResponse{Success: true, Swipe: record}

	if req.Direction == models.SwipeRight && req.OfferedItemID != "" {
		item, err := h.Catalog.GetItem(r.Context(), req.ItemID)
		switch {
		case err != nil:
			resp.TradeError = err.Error()
		case item.Kind != models.ItemKindTrade:
			resp.TradeError = "item is not offered for trade"
		default:
			offer, err := h.Trades.CreateOffer(r.Context(), userID, item.OwnerID, req.OfferedItemID, item.ID)
			if err != nil {
				resp.TradeError = err.Error()
			} else {
				resp.Trade = offer
			}
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// ListSwipes retrieves the caller's swipe ledger.
func (h *ApiHandler) ListSwipes(w http.ResponseWriter, r *http.Request) {
	ledger, err := h.Swipes.Ledger(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "swipes": ledger})
}

// RankFeed orders a candidate set for the caller's browsing feed. Candidates
// the catalog no longer knows are skipped.
func (h *ApiHandler) RankFeed(w http.ResponseWriter, r *http.Request) {
	var req rankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(w, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	candidates := make([]models.Item, 0, len(req.CandidateIDs))
	for _, id := range req.CandidateIDs {
		item, err := h.Catalog.GetItem(r.Context(), id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				h.Logger.Warn("skipping unknown feed candidate", slog.String("item_id", id))
				continue
			}
			writeError(w, err)
			return
		}
		candidates = append(candidates, *item)
	}

	ranked, err := h.Swipes.Rank(r.Context(), candidates, middleware.UserID(r.Context()), h.Ranking)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "items": ranked})
}
