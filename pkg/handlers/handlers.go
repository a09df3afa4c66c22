// Package handlers exposes the trade, notification and swipe engines over
// HTTP and orchestrates the swipe → offer → notification flow. The engines
// never call each other behind the caller's back; this layer composes them
// explicitly and returns each step's result.
package handlers

import (
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/swapdeck/swapdeck/pkg/catalog"
	"github.com/swapdeck/swapdeck/pkg/notifications"
	"github.com/swapdeck/swapdeck/pkg/swipes"
	"github.com/swapdeck/swapdeck/pkg/trades"
)

// ApiHandler holds the dependencies for all HTTP handlers.
type ApiHandler struct {
	Trades        *trades.Engine
	Notifications *notifications.Dispatcher
	Swipes        *swipes.Engine
	Catalog       catalog.Catalog
	Ranking       swipes.RankingContext
	Logger        *slog.Logger

	validate *validator.Validate
}

// NewApiHandler creates a new ApiHandler.
func NewApiHandler(
	tradeEngine *trades.Engine,
	dispatcher *notifications.Dispatcher,
	swipeEngine *swipes.Engine,
	cat catalog.Catalog,
	ranking swipes.RankingContext,
	logger *slog.Logger,
) *ApiHandler {
	return &ApiHandler{
		Trades:        tradeEngine,
		Notifications: dispatcher,
		Swipes:        swipeEngine,
		Catalog:       cat,
		Ranking:       ranking,
		Logger:        logger,
		validate:      validator.New(),
	}
}
