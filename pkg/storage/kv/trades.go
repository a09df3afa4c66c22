package kv

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"github.com/swapdeck/swapdeck/pkg/models"
	"github.com/swapdeck/swapdeck/pkg/storage"
)

// GetTrade retrieves a trade offer by its ID.
func (s *Store) GetTrade(ctx context.Context, tradeID string) (*models.TradeOffer, error) {
	trades, err := s.loadTrades(ctx)
	if err != nil {
		return nil, err
	}

	for i := range trades {
		if trades[i].ID == tradeID {
			return &trades[i], nil
		}
	}
	return nil, fmt.Errorf("trade %s: %w", tradeID, storage.ErrNotFound)
}

// FindPendingByPair retrieves the PENDING offer for an unordered item pair.
func (s *Store) FindPendingByPair(ctx context.Context, itemA, itemB string) (*models.TradeOffer, error) {
	trades, err := s.loadTrades(ctx)
	if err != nil {
		return nil, err
	}

	pair := models.PairKey(itemA, itemB)
	for i := range trades {
		t := &trades[i]
		if t.Status == models.PENDING && models.PairKey(t.OfferedItemID, t.RequestedItemID) == pair {
			return t, nil
		}
	}
	return nil, fmt.Errorf("pending offer for pair %s: %w", pair, storage.ErrNotFound)
}

// ListTradesByUserID retrieves all trade offers a user participates in.
func (s *Store) ListTradesByUserID(ctx context.Context, userID string) ([]models.TradeOffer, error) {
	trades, err := s.loadTrades(ctx)
	if err != nil {
		return nil, err
	}

	return lo.Filter(trades, func(t models.TradeOffer, _ int) bool {
		return t.FromUserID == userID || t.ToUserID == userID
	}), nil
}

// PutTrade inserts or replaces a trade offer record.
func (s *Store) PutTrade(ctx context.Context, trade *models.TradeOffer) error {
	s.tradesMu.Lock()
	defer s.tradesMu.Unlock()

	trades, err := s.loadTrades(ctx)
	if err != nil {
		return err
	}

	replaced := false
	for i := range trades {
		if trades[i].ID == trade.ID {
			trades[i] = *trade
			replaced = true
			break
		}
	}
	if !replaced {
		trades = append(trades, *trade)
	}

	return s.saveCollection(ctx, storage.ScopeTrades, storage.TradesKey, trades)
}

// RemoveTrade deletes a trade record. Rollback of uncommitted creations only.
func (s *Store) RemoveTrade(ctx context.Context, tradeID string) error {
	s.tradesMu.Lock()
	defer s.tradesMu.Unlock()

	trades, err := s.loadTrades(ctx)
	if err != nil {
		return err
	}

	kept := lo.Filter(trades, func(t models.TradeOffer, _ int) bool {
		return t.ID != tradeID
	})
	if len(kept) == len(trades) {
		return fmt.Errorf("trade %s: %w", tradeID, storage.ErrNotFound)
	}

	return s.saveCollection(ctx, storage.ScopeTrades, storage.TradesKey, kept)
}
