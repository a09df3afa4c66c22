package kv

import (
	"context"

	"github.com/swapdeck/swapdeck/pkg/models"
	"github.com/swapdeck/swapdeck/pkg/storage"
)

// ListSwipes retrieves all swipe records for a user.
func (s *Store) ListSwipes(ctx context.Context, userID string) ([]models.SwipeRecord, error) {
	var ledger []models.SwipeRecord
	if err := s.loadCollection(ctx, storage.SwipesScope(userID), storage.SwipesKey, &ledger); err != nil {
		return nil, err
	}
	return ledger, nil
}

// PutSwipe inserts or replaces the record for (record.UserID, record.ItemID).
// The ledger holds at most one record per user-item pair.
func (s *Store) PutSwipe(ctx context.Context, record *models.SwipeRecord) error {
	ledger, err := s.ListSwipes(ctx, record.UserID)
	if err != nil {
		return err
	}

	replaced := false
	for i := range ledger {
		if ledger[i].ItemID == record.ItemID {
			ledger[i] = *record
			replaced = true
			break
		}
	}
	if !replaced {
		ledger = append(ledger, *record)
	}

	return s.saveCollection(ctx, storage.SwipesScope(record.UserID), storage.SwipesKey, ledger)
}
