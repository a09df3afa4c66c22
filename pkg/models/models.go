package models

import (
	"strings"
	"time"
)

// TradeStatus defines the possible states of a trade offer.
type TradeStatus string

const (
	PENDING            TradeStatus = "PENDING"
	ACCEPTED           TradeStatus = "ACCEPTED"
	DECLINED           TradeStatus = "DECLINED"
	COMPLETED          TradeStatus = "COMPLETED"
	CANCELED           TradeStatus = "CANCELED"
	FEEDBACK_REQUESTED TradeStatus = "FEEDBACK_REQUESTED"
	FEEDBACK_ACCEPTED  TradeStatus = "FEEDBACK_ACCEPTED"
	FEEDBACK_DECLINED  TradeStatus = "FEEDBACK_DECLINED"
)

// Terminal reports whether a trade in this status can transition any further.
func (s TradeStatus) Terminal() bool {
	switch s {
	case COMPLETED, CANCELED, FEEDBACK_ACCEPTED, FEEDBACK_DECLINED:
		return true
	}
	return false
}

// TransitionRecord is a single append-only entry in a trade's history.
type TransitionRecord struct {
	Event     string      `json:"event"`
	From      TradeStatus `json:"from,omitempty"`
	To        TradeStatus `json:"to"`
	Timestamp time.Time   `json:"timestamp"`
}

// TradeOffer represents a proposed exchange of one item for another between
// two users. It is owned exclusively by the trade engine: history is
// append-only and offers are never deleted, terminal states are kept for audit.
type TradeOffer struct {
	ID              string             `json:"id"`
	FromUserID      string             `json:"from_user_id"`
	ToUserID        string             `json:"to_user_id"`
	OfferedItemID   string             `json:"offered_item_id"`
	RequestedItemID string             `json:"requested_item_id"`
	Status          TradeStatus        `json:"status"`
	Feedback        string             `json:"feedback,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
	History         []TransitionRecord `json:"history"`
}

// PairKey returns the normalized key for an unordered item pair. At most one
// PENDING offer may exist per pair, regardless of which side offered which.
func PairKey(itemA, itemB string) string {
	if strings.Compare(itemA, itemB) > 0 {
		itemA, itemB = itemB, itemA
	}
	return itemA + "|" + itemB
}

// SwipeDirection defines the two possible swipe decisions.
type SwipeDirection string

const (
	SwipeLeft  SwipeDirection = "left"
	SwipeRight SwipeDirection = "right"
)

// SwipeRecord is the latest decision a user made on a given item. The ledger
// holds at most one record per (UserID, ItemID) pair; a later swipe on the
// same item overwrites direction and timestamp in place.
type SwipeRecord struct {
	UserID    string         `json:"user_id"`
	ItemID    string         `json:"item_id"`
	Direction SwipeDirection `json:"direction"`
	Timestamp time.Time      `json:"timestamp"`
}

// ItemKind distinguishes listings offered for trade from plain sale listings.
type ItemKind string

const (
	ItemKindTrade ItemKind = "trade"
	ItemKindSale  ItemKind = "sale"
)

// Item is the minimal listing shape the core needs: identity, ownership and
// whether a right swipe on it should open a trade negotiation. Full listing
// data (photos, descriptions) lives with the catalog collaborator.
type Item struct {
	ID      string   `json:"id"`
	OwnerID string   `json:"owner_id"`
	Kind    ItemKind `json:"kind"`
	Title   string   `json:"title,omitempty"`
}
