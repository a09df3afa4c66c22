package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/swapdeck/swapdeck/pkg/middleware"
)

// notificationActionRequest is the body for recording a UI action on a
// notification.
type notificationActionRequest struct {
	Action string `json:"action" validate:"required"`
}

// ListNotifications retrieves the caller's notifications.
func (h *ApiHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	list, err := h.Notifications.List(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "notifications": list})
}

// UnreadCount returns the caller's number of unread notifications, derived
// from the stored log on every call.
func (h *ApiHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.Notifications.UnreadCount(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "unread_count": count})
}

// MarkNotificationRead handles POST /notifications/{notificationID}/read.
func (h *ApiHandler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	err := h.Notifications.MarkRead(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "notificationID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// MarkAllNotificationsRead handles POST /notifications/read-all.
func (h *ApiHandler) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	if err := h.Notifications.MarkAllRead(r.Context(), middleware.UserID(r.Context())); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// RecordNotificationAction handles POST /notifications/{notificationID}/action.
func (h *ApiHandler) RecordNotificationAction(w http.ResponseWriter, r *http.Request) {
	var req notificationActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(w, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	err := h.Notifications.UpdateAction(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "notificationID"), req.Action)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
