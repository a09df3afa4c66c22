// Package trades owns the trade-offer state machine:
//
//	PENDING → ACCEPTED → {COMPLETED, CANCELED}
//	PENDING → DECLINED → FEEDBACK_REQUESTED → {FEEDBACK_ACCEPTED, FEEDBACK_DECLINED}
//
// Every transition is guarded: the engine re-reads the current status under a
// per-trade lock immediately before mutating and rejects if it no longer
// matches the expected source state. History is append-only and offers are
// never deleted once committed.
package trades

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/swapdeck/swapdeck/pkg/metrics"
	"github.com/swapdeck/swapdeck/pkg/models"
	"github.com/swapdeck/swapdeck/pkg/sharding"
	"github.com/swapdeck/swapdeck/pkg/storage"
)

// History event names.
const (
	EventOfferCreated      = "offer_created"
	EventOfferAccepted     = "offer_accepted"
	EventOfferDeclined     = "offer_declined"
	EventFeedbackRequested = "feedback_requested"
	EventFeedbackAccepted  = "feedback_accepted"
	EventFeedbackDeclined  = "feedback_declined"
	EventTradeCompleted    = "trade_completed"
	EventTradeCanceled     = "trade_canceled"
)

// Notifier is the engine's outbound side: it appends a notification to the
// recipient's log. Satisfied by notifications.Dispatcher.
type Notifier interface {
	Notify(ctx context.Context, userID string, ntype models.NotificationType, payload any) (*models.Notification, error)
}

// TradeRole filters trade listings by the side the user is on.
type TradeRole string

const (
	RoleAll      TradeRole = "all"
	RoleIncoming TradeRole = "incoming"
	RoleOutgoing TradeRole = "outgoing"
)

// Engine owns trade offers. All mutating operations for a given trade
// serialize on a per-trade lock stripe; offer creation serializes on the
// normalized item-pair key so two concurrent creations for the same pair
// cannot both pass the duplicate check.
type Engine struct {
	store    storage.TradeStore
	notifier Notifier
	locks    *sharding.StripedMutex
	logger   *slog.Logger
	now      func() time.Time
	newID    func() string
}

// NewEngine creates a new Engine.
func NewEngine(store storage.TradeStore, notifier Notifier, logger *slog.Logger) *Engine {
	return &Engine{
		store:    store,
		notifier: notifier,
		locks:    sharding.NewStripedMutex(sharding.DefaultStripeCount),
		logger:   logger,
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}
}

// CreateOffer opens a negotiation: fromUser offers offeredItem for toUser's
// requestedItem. Rejected with ErrDuplicatePendingOffer while a PENDING offer
// exists for the same unordered item pair. On success a TRADE_OFFER
// notification is appended for toUser; if that append fails the offer is
// rolled back and no partial state remains.
func (e *Engine) CreateOffer(ctx context.Context, fromUser, toUser, offeredItem, requestedItem string) (*models.TradeOffer, error) {
	switch {
	case fromUser == "" || toUser == "" || offeredItem == "" || requestedItem == "":
		return nil, fmt.Errorf("%w: all offer fields are required", ErrValidation)
	case fromUser == toUser:
		return nil, fmt.Errorf("%w: cannot open a trade with yourself", ErrValidation)
	case offeredItem == requestedItem:
		return nil, fmt.Errorf("%w: cannot trade an item for itself", ErrValidation)
	}

	pair := models.PairKey(offeredItem, requestedItem)
	e.locks.Lock("pair:" + pair)
	defer e.locks.Unlock("pair:" + pair)

	if _, err := e.store.FindPendingByPair(ctx, offeredItem, requestedItem); err == nil {
		return nil, ErrDuplicatePendingOffer
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	now := e.now().UTC()
	offer := &models.TradeOffer{
		ID:              e.newID(),
		FromUserID:      fromUser,
		ToUserID:        toUser,
		OfferedItemID:   offeredItem,
		RequestedItemID: requestedItem,
		Status:          models.PENDING,
		CreatedAt:       now,
		UpdatedAt:       now,
		History: []models.TransitionRecord{
			{Event: EventOfferCreated, To: models.PENDING, Timestamp: now},
		},
	}

	if err := e.store.PutTrade(ctx, offer); err != nil {
		return nil, err
	}

	payload := models.TradeOfferPayload{
		TradeID:         offer.ID,
		FromUserID:      fromUser,
		OfferedItemID:   offeredItem,
		RequestedItemID: requestedItem,
	}
	if _, err := e.notifier.Notify(ctx, toUser, models.NotificationTradeOffer, payload); err != nil {
		if rbErr := e.store.RemoveTrade(ctx, offer.ID); rbErr != nil {
			e.logger.Error("failed to roll back offer after notification failure",
				slog.String("trade_id", offer.ID), slog.Any("error", rbErr))
		}
		return nil, fmt.Errorf("failed to notify recipient: %w", err)
	}

	metrics.TradeTransitions.WithLabelValues(EventOfferCreated).Inc()
	return offer, nil
}

// GetTrade retrieves a trade offer by its ID.
func (e *Engine) GetTrade(ctx context.Context, tradeID string) (*models.TradeOffer, error) {
	return e.store.GetTrade(ctx, tradeID)
}

// ListTrades retrieves the trades a user participates in, optionally filtered
// to the incoming (user is recipient) or outgoing (user is offerer) side.
func (e *Engine) ListTrades(ctx context.Context, userID string, role TradeRole) ([]models.TradeOffer, error) {
	all, err := e.store.ListTradesByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	switch role {
	case RoleIncoming:
		return lo.Filter(all, func(t models.TradeOffer, _ int) bool { return t.ToUserID == userID }), nil
	case RoleOutgoing:
		return lo.Filter(all, func(t models.TradeOffer, _ int) bool { return t.FromUserID == userID }), nil
	default:
		return all, nil
	}
}
