// Package swipes records swipe decisions and orders candidate items for a
// user's browsing feed. A user is never shown something they already rejected
// before exhausting fresh and previously-liked candidates.
package swipes

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/swapdeck/swapdeck/pkg/metrics"
	"github.com/swapdeck/swapdeck/pkg/models"
	"github.com/swapdeck/swapdeck/pkg/sharding"
	"github.com/swapdeck/swapdeck/pkg/storage"
)

// ErrValidation is returned for malformed swipe input.
var ErrValidation = errors.New("validation failed")

// RankingContext supplies the external per-item modifiers used to order
// unseen candidates. Both lookups are expected to be cheap; see CachedContext.
type RankingContext interface {
	// HasActiveBoost reports whether the item currently holds a boost.
	HasActiveBoost(itemID string) bool

	// SellerLevel returns the reputation tier of the item's owner.
	SellerLevel(ownerID string) int
}

// Engine owns the swipe ledger and the feed ordering.
type Engine struct {
	store storage.SwipeStore
	locks *sharding.StripedMutex
	now   func() time.Time
}

// NewEngine creates a new Engine.
func NewEngine(store storage.SwipeStore) *Engine {
	return &Engine{
		store: store,
		locks: sharding.NewStripedMutex(sharding.DefaultStripeCount),
		now:   time.Now,
	}
}

// RecordSwipe upserts the ledger record for (userID, itemID). However many
// times an item is swiped, exactly one record exists for the pair; direction
// and timestamp reflect the latest call.
func (e *Engine) RecordSwipe(ctx context.Context, userID, itemID string, direction models.SwipeDirection) (*models.SwipeRecord, error) {
	if userID == "" || itemID == "" {
		return nil, fmt.Errorf("%w: user and item are required", ErrValidation)
	}
	if direction != models.SwipeLeft && direction != models.SwipeRight {
		return nil, fmt.Errorf("%w: unknown swipe direction %q", ErrValidation, direction)
	}

	record := &models.SwipeRecord{
		UserID:    userID,
		ItemID:    itemID,
		Direction: direction,
		Timestamp: e.now().UTC(),
	}

	e.locks.Lock(userID)
	defer e.locks.Unlock(userID)

	if err := e.store.PutSwipe(ctx, record); err != nil {
		return nil, err
	}

	metrics.SwipesRecorded.WithLabelValues(string(direction)).Inc()
	return record, nil
}

// Ledger retrieves all swipe records for a user.
func (e *Engine) Ledger(ctx context.Context, userID string) ([]models.SwipeRecord, error) {
	return e.store.ListSwipes(ctx, userID)
}

// Rank partitions candidates into three buckets, in this precedence:
//
//  1. items the user has never swiped, boosted items first, then by
//     descending seller level;
//  2. items the user previously liked;
//  3. items the user previously passed on.
//
// Ties keep their relative input order throughout (stable sort).
func (e *Engine) Rank(ctx context.Context, candidates []models.Item, userID string, rctx RankingContext) ([]models.Item, error) {
	ledger, err := e.store.ListSwipes(ctx, userID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]models.SwipeDirection, len(ledger))
	for _, rec := range ledger {
		seen[rec.ItemID] = rec.Direction
	}

	type scored struct {
		item  models.Item
		boost bool
		level int
	}

	var fresh []scored
	var liked, passed []models.Item
	for _, item := range candidates {
		switch seen[item.ID] {
		case models.SwipeRight:
			liked = append(liked, item)
		case models.SwipeLeft:
			passed = append(passed, item)
		default:
			fresh = append(fresh, scored{
				item:  item,
				boost: rctx.HasActiveBoost(item.ID),
				level: rctx.SellerLevel(item.OwnerID),
			})
		}
	}

	sort.SliceStable(fresh, func(i, j int) bool {
		if fresh[i].boost != fresh[j].boost {
			return fresh[i].boost
		}
		return fresh[i].level > fresh[j].level
	})

	ranked := make([]models.Item, 0, len(candidates))
	for _, s := range fresh {
		ranked = append(ranked, s.item)
	}
	ranked = append(ranked, liked...)
	ranked = append(ranked, passed...)
	return ranked, nil
}
