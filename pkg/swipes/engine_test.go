package swipes_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swapdeck/swapdeck/pkg/models"
	"github.com/swapdeck/swapdeck/pkg/storage/kv"
	"github.com/swapdeck/swapdeck/pkg/storage/memory"
	"github.com/swapdeck/swapdeck/pkg/swipes"
)

// staticContext is a fixed RankingContext for tests.
type staticContext struct {
	boosts map[string]bool
	levels map[string]int
}

func (c staticContext) HasActiveBoost(itemID string) bool { return c.boosts[itemID] }
func (c staticContext) SellerLevel(ownerID string) int    { return c.levels[ownerID] }

func newEngine() *swipes.Engine {
	return swipes.NewEngine(kv.New(memory.New()))
}

func TestRecordSwipe(t *testing.T) {
	ctx := context.Background()

	t.Run("Idempotent Ledger", func(t *testing.T) {
		e := newEngine()

		// Swipe the same item repeatedly in arbitrary directions.
		directions := []models.SwipeDirection{
			models.SwipeRight, models.SwipeLeft, models.SwipeLeft, models.SwipeRight, models.SwipeLeft,
		}
		for _, dir := range directions {
			_, err := e.RecordSwipe(ctx, "alice", "item-1", dir)
			require.NoError(t, err)
		}

		ledger, err := e.Ledger(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, ledger, 1)
		assert.Equal(t, models.SwipeLeft, ledger[0].Direction)
	})

	t.Run("One Record Per Item", func(t *testing.T) {
		e := newEngine()

		_, err := e.RecordSwipe(ctx, "alice", "item-1", models.SwipeRight)
		require.NoError(t, err)
		_, err = e.RecordSwipe(ctx, "alice", "item-2", models.SwipeLeft)
		require.NoError(t, err)

		ledger, err := e.Ledger(ctx, "alice")
		require.NoError(t, err)
		assert.Len(t, ledger, 2)
	})

	t.Run("Unknown Direction Rejected", func(t *testing.T) {
		e := newEngine()
		_, err := e.RecordSwipe(ctx, "alice", "item-1", "up")
		assert.ErrorIs(t, err, swipes.ErrValidation)
	})
}

func TestRank(t *testing.T) {
	ctx := context.Background()

	items := func(ids ...string) []models.Item {
		out := make([]models.Item, len(ids))
		for i, id := range ids {
			out[i] = models.Item{ID: id, OwnerID: "owner-" + id, Kind: models.ItemKindTrade}
		}
		return out
	}

	ids := func(ranked []models.Item) []string {
		out := make([]string, len(ranked))
		for i, item := range ranked {
			out[i] = item.ID
		}
		return out
	}

	t.Run("Boost Then Seller Level Among Unseen", func(t *testing.T) {
		e := newEngine()
		rctx := staticContext{
			boosts: map[string]bool{"B": true},
			levels: map[string]int{"owner-A": 1, "owner-B": 0, "owner-C": 2},
		}

		ranked, err := e.Rank(ctx, items("A", "B", "C"), "alice", rctx)

		require.NoError(t, err)
		assert.Equal(t, []string{"B", "C", "A"}, ids(ranked))
	})

	t.Run("Passed Items Sink Below Liked", func(t *testing.T) {
		e := newEngine()
		_, err := e.RecordSwipe(ctx, "alice", "A", models.SwipeLeft)
		require.NoError(t, err)
		_, err = e.RecordSwipe(ctx, "alice", "B", models.SwipeRight)
		require.NoError(t, err)

		ranked, err := e.Rank(ctx, items("A", "B", "C"), "alice", staticContext{})

		require.NoError(t, err)
		assert.Equal(t, []string{"C", "B", "A"}, ids(ranked))
	})

	t.Run("Stable For Equal Modifiers", func(t *testing.T) {
		e := newEngine()

		ranked, err := e.Rank(ctx, items("X", "Y", "Z"), "alice", staticContext{})

		require.NoError(t, err)
		assert.Equal(t, []string{"X", "Y", "Z"}, ids(ranked))
	})

	t.Run("Bucket Order Preserves Input Order", func(t *testing.T) {
		e := newEngine()
		for _, id := range []string{"L1", "L2"} {
			_, err := e.RecordSwipe(ctx, "alice", id, models.SwipeRight)
			require.NoError(t, err)
		}
		for _, id := range []string{"P1", "P2"} {
			_, err := e.RecordSwipe(ctx, "alice", id, models.SwipeLeft)
			require.NoError(t, err)
		}

		ranked, err := e.Rank(ctx, items("P1", "L1", "N1", "P2", "L2", "N2"), "alice", staticContext{})

		require.NoError(t, err)
		assert.Equal(t, []string{"N1", "N2", "L1", "L2", "P1", "P2"}, ids(ranked))
	})
}

func TestCachedContext(t *testing.T) {
	boostCalls := 0
	levelCalls := 0

	rctx := swipes.NewCachedContext(
		func(itemID string) bool { boostCalls++; return itemID == "hot" },
		func(ownerID string) int { levelCalls++; return 7 },
		time.Minute,
	)

	for i := 0; i < 3; i++ {
		assert.True(t, rctx.HasActiveBoost("hot"))
		assert.Equal(t, 7, rctx.SellerLevel("owner"))
	}

	// Lookups are memoized within the TTL.
	assert.Equal(t, 1, boostCalls)
	assert.Equal(t, 1, levelCalls)
}
