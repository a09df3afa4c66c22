package storage

import (
	"context"

	"github.com/swapdeck/swapdeck/pkg/models"
)

// TradeReader defines the interface for reading trade offer data.
type TradeReader interface {
	// GetTrade retrieves a trade offer by its ID.
	GetTrade(ctx context.Context, tradeID string) (*models.TradeOffer, error)

	// FindPendingByPair retrieves the PENDING offer for an unordered item
	// pair, or ErrNotFound if no pending offer exists for that pair.
	FindPendingByPair(ctx context.Context, itemA, itemB string) (*models.TradeOffer, error)

	// ListTradesByUserID retrieves all trade offers a user participates in,
	// on either side.
	ListTradesByUserID(ctx context.Context, userID string) ([]models.TradeOffer, error)
}

// TradeWriter defines the interface for persisting trade offers.
type TradeWriter interface {
	// PutTrade inserts or replaces a trade offer record.
	PutTrade(ctx context.Context, trade *models.TradeOffer) error

	// RemoveTrade deletes a trade record. Committed offers are never deleted;
	// this exists solely so the engine can roll back a creation whose
	// notification could not be emitted.
	RemoveTrade(ctx context.Context, tradeID string) error
}

// TradeStore combines the reader and writer interfaces.
type TradeStore interface {
	TradeReader
	TradeWriter
}
