package trades

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/swapdeck/swapdeck/pkg/metrics"
	"github.com/swapdeck/swapdeck/pkg/models"
)

// outboundNotification describes a notification to emit once a transition has
// been persisted.
type outboundNotification struct {
	userID  string
	ntype   models.NotificationType
	payload any
}

// transition performs a guarded state change: under the per-trade lock it
// re-reads the offer, verifies it is still in the expected source state,
// applies the mutation, appends a history entry and persists the result.
// If the follow-up notification cannot be appended, the prior state is
// restored so the caller observes no partial mutation. A guard mismatch
// (e.g. the second of two rapid clicks) returns ErrInvalidStateTransition.
func (e *Engine) transition(
	ctx context.Context,
	tradeID string,
	from, to models.TradeStatus,
	event string,
	mutate func(*models.TradeOffer),
	notify func(*models.TradeOffer) []outboundNotification,
) (*models.TradeOffer, error) {
	e.locks.Lock("trade:" + tradeID)
	defer e.locks.Unlock("trade:" + tradeID)

	offer, err := e.store.GetTrade(ctx, tradeID)
	if err != nil {
		return nil, err
	}

	if offer.Status != from {
		metrics.TransitionConflicts.Inc()
		return nil, fmt.Errorf("%w: %s requires status %s, offer %s is %s",
			ErrInvalidStateTransition, event, from, tradeID, offer.Status)
	}

	// Snapshot for rollback. The history slice is copied so the appended
	// entry never leaks into the prior state.
	prior := *offer
	prior.History = append([]models.TransitionRecord(nil), offer.History...)

	now := e.now().UTC()
	offer.Status = to
	if mutate != nil {
		mutate(offer)
	}
	offer.History = append(offer.History, models.TransitionRecord{
		Event:     event,
		From:      from,
		To:        to,
		Timestamp: now,
	})
	offer.UpdatedAt = now

	if err := e.store.PutTrade(ctx, offer); err != nil {
		return nil, err
	}

	for i, out := range notify(offer) {
		if _, err := e.notifier.Notify(ctx, out.userID, out.ntype, out.payload); err != nil {
			if i == 0 {
				if rbErr := e.store.PutTrade(ctx, &prior); rbErr != nil {
					e.logger.Error("failed to restore offer after notification failure",
						slog.String("trade_id", tradeID), slog.Any("error", rbErr))
				}
				return nil, fmt.Errorf("failed to notify counterparty: %w", err)
			}
			// The transition and first notification are already committed;
			// dropping a secondary notification is preferable to unwinding them.
			e.logger.Error("failed to emit secondary notification",
				slog.String("trade_id", tradeID), slog.String("type", string(out.ntype)),
				slog.Any("error", err))
		}
	}

	metrics.TradeTransitions.WithLabelValues(event).Inc()
	return offer, nil
}

// Accept moves a PENDING offer to ACCEPTED and notifies the offerer.
func (e *Engine) Accept(ctx context.Context, tradeID string) (*models.TradeOffer, error) {
	return e.transition(ctx, tradeID, models.PENDING, models.ACCEPTED, EventOfferAccepted, nil,
		func(t *models.TradeOffer) []outboundNotification {
			return []outboundNotification{{
				userID: t.FromUserID,
				ntype:  models.NotificationTradeAccepted,
				payload: models.TradeAcceptedPayload{
					TradeID:  t.ID,
					ByUserID: t.ToUserID,
				},
			}}
		})
}

// Decline moves a PENDING offer to DECLINED and notifies the offerer, who may
// then ask the decliner why via RequestFeedback.
func (e *Engine) Decline(ctx context.Context, tradeID string) (*models.TradeOffer, error) {
	return e.transition(ctx, tradeID, models.PENDING, models.DECLINED, EventOfferDeclined, nil,
		func(t *models.TradeOffer) []outboundNotification {
			return []outboundNotification{{
				userID: t.FromUserID,
				ntype:  models.NotificationTradeDeclined,
				payload: models.TradeDeclinedPayload{
					TradeID:  t.ID,
					ByUserID: t.ToUserID,
				},
			}}
		})
}

// RequestFeedback asks the decliner why they declined. Valid only from
// DECLINED; notifies the decliner.
func (e *Engine) RequestFeedback(ctx context.Context, tradeID string) (*models.TradeOffer, error) {
	return e.transition(ctx, tradeID, models.DECLINED, models.FEEDBACK_REQUESTED, EventFeedbackRequested, nil,
		func(t *models.TradeOffer) []outboundNotification {
			return []outboundNotification{{
				userID: t.ToUserID,
				ntype:  models.NotificationFeedbackRequest,
				payload: models.FeedbackRequestPayload{
					TradeID:    t.ID,
					FromUserID: t.FromUserID,
				},
			}}
		})
}

// RespondToFeedback resolves a feedback request. Accepting requires feedback
// text, which is stored on the offer; declining discards any text.
func (e *Engine) RespondToFeedback(ctx context.Context, tradeID string, accepted bool, feedbackText string) (*models.TradeOffer, error) {
	to := models.FEEDBACK_DECLINED
	event := EventFeedbackDeclined
	var mutate func(*models.TradeOffer)

	if accepted {
		if feedbackText == "" {
			return nil, fmt.Errorf("%w: feedback text is required when accepting a feedback request", ErrValidation)
		}
		to = models.FEEDBACK_ACCEPTED
		event = EventFeedbackAccepted
		mutate = func(t *models.TradeOffer) { t.Feedback = feedbackText }
	}

	return e.transition(ctx, tradeID, models.FEEDBACK_REQUESTED, to, event, mutate,
		func(t *models.TradeOffer) []outboundNotification {
			msg := "The other party declined to share feedback on your trade offer."
			if accepted {
				msg = "The other party shared feedback on your trade offer."
			}
			return []outboundNotification{{
				userID:  t.FromUserID,
				ntype:   models.NotificationSystem,
				payload: models.SystemPayload{Message: msg, TradeID: t.ID},
			}}
		})
}

// Complete finalizes an ACCEPTED trade. Both parties are notified.
func (e *Engine) Complete(ctx context.Context, tradeID string) (*models.TradeOffer, error) {
	return e.transition(ctx, tradeID, models.ACCEPTED, models.COMPLETED, EventTradeCompleted, nil,
		func(t *models.TradeOffer) []outboundNotification {
			payload := models.SystemPayload{Message: "Your trade was completed.", TradeID: t.ID}
			return []outboundNotification{
				{userID: t.FromUserID, ntype: models.NotificationSystem, payload: payload},
				{userID: t.ToUserID, ntype: models.NotificationSystem, payload: payload},
			}
		})
}

// Cancel abandons an ACCEPTED trade before handover. Both parties are notified.
func (e *Engine) Cancel(ctx context.Context, tradeID string) (*models.TradeOffer, error) {
	return e.transition(ctx, tradeID, models.ACCEPTED, models.CANCELED, EventTradeCanceled, nil,
		func(t *models.TradeOffer) []outboundNotification {
			payload := models.SystemPayload{Message: "Your trade was canceled.", TradeID: t.ID}
			return []outboundNotification{
				{userID: t.FromUserID, ntype: models.NotificationSystem, payload: payload},
				{userID: t.ToUserID, ntype: models.NotificationSystem, payload: payload},
			}
		})
}
