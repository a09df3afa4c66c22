package storage

import (
	"context"

	"github.com/swapdeck/swapdeck/pkg/models"
)

// SwipeStore defines the interface for a user's swipe ledger.
type SwipeStore interface {
	// ListSwipes retrieves all swipe records for a user.
	ListSwipes(ctx context.Context, userID string) ([]models.SwipeRecord, error)

	// PutSwipe inserts or replaces the record for (record.UserID, record.ItemID).
	PutSwipe(ctx context.Context, record *models.SwipeRecord) error
}
