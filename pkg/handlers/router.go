package handlers

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/swapdeck/swapdeck/pkg/middleware"
)

// NewRouter assembles the service's HTTP routes.
func NewRouter(h *ApiHandler, logger *slog.Logger) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimw.Recoverer)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Identity)

		r.Route("/trades", func(r chi.Router) {
			r.Post("/", h.CreateTrade)
			r.Get("/", h.ListTrades)
			r.Get("/{tradeID}", h.GetTrade)
			r.Post("/{tradeID}/accept", h.AcceptTrade)
			r.Post("/{tradeID}/decline", h.DeclineTrade)
			r.Post("/{tradeID}/feedback-request", h.RequestFeedback)
			r.Post("/{tradeID}/feedback", h.RespondToFeedback)
			r.Post("/{tradeID}/complete", h.CompleteTrade)
			r.Post("/{tradeID}/cancel", h.CancelTrade)
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", h.ListNotifications)
			r.Get("/unread-count", h.UnreadCount)
			r.Post("/read-all", h.MarkAllNotificationsRead)
			r.Post("/{notificationID}/read", h.MarkNotificationRead)
			r.Post("/{notificationID}/action", h.RecordNotificationAction)
		})

		r.Route("/swipes", func(r chi.Router) {
			r.Post("/", h.RecordSwipe)
			r.Get("/", h.ListSwipes)
		})

		r.Post("/feed/rank", h.RankFeed)
	})

	return r
}
