package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// NotificationType defines the kind of a notification. Each type carries
// exactly one payload shape; the pairing is enforced at construction time.
type NotificationType string

const (
	NotificationTradeOffer      NotificationType = "TRADE_OFFER"
	NotificationTradeAccepted   NotificationType = "TRADE_ACCEPTED"
	NotificationTradeDeclined   NotificationType = "TRADE_DECLINED"
	NotificationFeedbackRequest NotificationType = "FEEDBACK_REQUEST"
	NotificationMessageReceived NotificationType = "MESSAGE_RECEIVED"
	NotificationSystem          NotificationType = "SYSTEM"
)

// TradeOfferPayload accompanies a TRADE_OFFER notification.
type TradeOfferPayload struct {
	TradeID         string `json:"trade_id"`
	FromUserID      string `json:"from_user_id"`
	OfferedItemID   string `json:"offered_item_id"`
	RequestedItemID string `json:"requested_item_id"`
}

// TradeAcceptedPayload accompanies a TRADE_ACCEPTED notification.
type TradeAcceptedPayload struct {
	TradeID  string `json:"trade_id"`
	ByUserID string `json:"by_user_id"`
}

// TradeDeclinedPayload accompanies a TRADE_DECLINED notification.
type TradeDeclinedPayload struct {
	TradeID  string `json:"trade_id"`
	ByUserID string `json:"by_user_id"`
}

// FeedbackRequestPayload accompanies a FEEDBACK_REQUEST notification.
type FeedbackRequestPayload struct {
	TradeID    string `json:"trade_id"`
	FromUserID string `json:"from_user_id"`
}

// MessageReceivedPayload accompanies a MESSAGE_RECEIVED notification.
type MessageReceivedPayload struct {
	FromUserID string `json:"from_user_id"`
	Preview    string `json:"preview"`
}

// SystemPayload accompanies a SYSTEM notification.
type SystemPayload struct {
	Message string `json:"message"`
	TradeID string `json:"trade_id,omitempty"`
}

// Notification informs a user of a state change relevant to them. It is
// immutable once stored, except for Read, ActionTaken and Action, which may
// only move from unset to set.
type Notification struct {
	ID              string           `json:"id"`
	UserID          string           `json:"user_id"`
	Type            NotificationType `json:"type"`
	Payload         any              `json:"payload"`
	Read            bool             `json:"read"`
	ActionTaken     bool             `json:"action_taken"`
	Action          string           `json:"action,omitempty"`
	Timestamp       time.Time        `json:"timestamp"`
	ActionTimestamp *time.Time       `json:"action_timestamp,omitempty"`
}

// ValidatePayload checks that a payload value matches its declared type.
func ValidatePayload(ntype NotificationType, payload any) error {
	var ok bool
	switch ntype {
	case NotificationTradeOffer:
		_, ok = payload.(TradeOfferPayload)
	case NotificationTradeAccepted:
		_, ok = payload.(TradeAcceptedPayload)
	case NotificationTradeDeclined:
		_, ok = payload.(TradeDeclinedPayload)
	case NotificationFeedbackRequest:
		_, ok = payload.(FeedbackRequestPayload)
	case NotificationMessageReceived:
		_, ok = payload.(MessageReceivedPayload)
	case NotificationSystem:
		_, ok = payload.(SystemPayload)
	default:
		return fmt.Errorf("unknown notification type %q", ntype)
	}
	if !ok {
		return fmt.Errorf("payload %T does not match notification type %q", payload, ntype)
	}
	return nil
}

// notificationEnvelope mirrors Notification with a raw payload so the typed
// payload can be decoded after the type tag is known.
type notificationEnvelope struct {
	ID              string           `json:"id"`
	UserID          string           `json:"user_id"`
	Type            NotificationType `json:"type"`
	Payload         json.RawMessage  `json:"payload"`
	Read            bool             `json:"read"`
	ActionTaken     bool             `json:"action_taken"`
	Action          string           `json:"action,omitempty"`
	Timestamp       time.Time        `json:"timestamp"`
	ActionTimestamp *time.Time       `json:"action_timestamp,omitempty"`
}

// UnmarshalJSON decodes the envelope first, then the payload according to the
// declared type, so stored notifications round-trip with concrete payloads.
func (n *Notification) UnmarshalJSON(data []byte) error {
	var env notificationEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}

	payload, err := decodePayload(env.Type, env.Payload)
	if err != nil {
		return err
	}

	n.ID = env.ID
	n.UserID = env.UserID
	n.Type = env.Type
	n.Payload = payload
	n.Read = env.Read
	n.ActionTaken = env.ActionTaken
	n.Action = env.Action
	n.Timestamp = env.Timestamp
	n.ActionTimestamp = env.ActionTimestamp
	return nil
}

func decodePayload(ntype NotificationType, raw json.RawMessage) (any, error) {
	unmarshal := func(dst any) error {
		if len(raw) == 0 {
			return fmt.Errorf("notification type %q has no payload", ntype)
		}
		return json.Unmarshal(raw, dst)
	}

	var payload any
	switch ntype {
	case NotificationTradeOffer:
		var p TradeOfferPayload
		if err := unmarshal(&p); err != nil {
			return nil, err
		}
		payload = p
	case NotificationTradeAccepted:
		var p TradeAcceptedPayload
		if err := unmarshal(&p); err != nil {
			return nil, err
		}
		payload = p
	case NotificationTradeDeclined:
		var p TradeDeclinedPayload
		if err := unmarshal(&p); err != nil {
			return nil, err
		}
		payload = p
	case NotificationFeedbackRequest:
		var p FeedbackRequestPayload
		if err := unmarshal(&p); err != nil {
			return nil, err
		}
		payload = p
	case NotificationMessageReceived:
		var p MessageReceivedPayload
		if err := unmarshal(&p); err != nil {
			return nil, err
		}
		payload = p
	case NotificationSystem:
		var p SystemPayload
		if err := unmarshal(&p); err != nil {
			return nil, err
		}
		payload = p
	default:
		return nil, fmt.Errorf("unknown notification type %q", ntype)
	}
	return payload, nil
}
