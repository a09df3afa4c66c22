package trades_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/swapdeck/swapdeck/pkg/models"
	"github.com/swapdeck/swapdeck/pkg/notifications"
	"github.com/swapdeck/swapdeck/pkg/storage"
	"github.com/swapdeck/swapdeck/pkg/storage/kv"
	"github.com/swapdeck/swapdeck/pkg/storage/memory"
	"github.com/swapdeck/swapdeck/pkg/storage/mocks"
	"github.com/swapdeck/swapdeck/pkg/trades"
)

type env struct {
	engine     *trades.Engine
	dispatcher *notifications.Dispatcher
	store      *kv.Store
}

func newEnv() *env {
	store := kv.New(memory.New())
	dispatcher := notifications.NewDispatcher(store)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &env{
		engine:     trades.NewEngine(store, dispatcher, logger),
		dispatcher: dispatcher,
		store:      store,
	}
}

// failingNotifier rejects every notification.
type failingNotifier struct{}

func (failingNotifier) Notify(ctx context.Context, userID string, ntype models.NotificationType, payload any) (*models.Notification, error) {
	return nil, errors.New("notify failed")
}

func TestCreateOffer(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		e := newEnv()

		offer, err := e.engine.CreateOffer(ctx, "alice", "bob", "item-a", "item-b")

		require.NoError(t, err)
		assert.NotEmpty(t, offer.ID)
		assert.Equal(t, models.PENDING, offer.Status)
		assert.Equal(t, "alice", offer.FromUserID)
		assert.Equal(t, "bob", offer.ToUserID)
		require.Len(t, offer.History, 1)
		assert.Equal(t, trades.EventOfferCreated, offer.History[0].Event)

		// The recipient got exactly one unread TRADE_OFFER notification.
		list, err := e.dispatcher.List(ctx, "bob")
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, models.NotificationTradeOffer, list[0].Type)
		assert.False(t, list[0].Read)
		payload := list[0].Payload.(models.TradeOfferPayload)
		assert.Equal(t, offer.ID, payload.TradeID)
	})

	t.Run("Duplicate Pending Offer", func(t *testing.T) {
		e := newEnv()

		first, err := e.engine.CreateOffer(ctx, "alice", "bob", "item-a", "item-b")
		require.NoError(t, err)

		_, err = e.engine.CreateOffer(ctx, "alice", "bob", "item-a", "item-b")
		assert.ErrorIs(t, err, trades.ErrDuplicatePendingOffer)

		// The pair is unordered: the reverse offer is rejected too.
		_, err = e.engine.CreateOffer(ctx, "bob", "alice", "item-b", "item-a")
		assert.ErrorIs(t, err, trades.ErrDuplicatePendingOffer)

		// No second record was created.
		all, err := e.store.ListTradesByUserID(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, first.ID, all[0].ID)
	})

	t.Run("Second Offer Allowed After Decline", func(t *testing.T) {
		e := newEnv()

		first, err := e.engine.CreateOffer(ctx, "alice", "bob", "item-a", "item-b")
		require.NoError(t, err)
		_, err = e.engine.Decline(ctx, first.ID)
		require.NoError(t, err)

		// The pair no longer has a PENDING offer, so a new one may open.
		_, err = e.engine.CreateOffer(ctx, "alice", "bob", "item-a", "item-b")
		assert.NoError(t, err)
	})

	t.Run("Self Trade Rejected", func(t *testing.T) {
		e := newEnv()

		_, err := e.engine.CreateOffer(ctx, "alice", "alice", "item-a", "item-b")
		assert.ErrorIs(t, err, trades.ErrValidation)
	})

	t.Run("Rolled Back When Notification Fails", func(t *testing.T) {
		mockStore := new(mocks.Storage)
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		engine := trades.NewEngine(mockStore, failingNotifier{}, logger)

		mockStore.On("FindPendingByPair", mock.Anything, "item-a", "item-b").Return(nil, storage.ErrNotFound)
		mockStore.On("PutTrade", mock.Anything, mock.Anything).Once().Return(nil)
		mockStore.On("RemoveTrade", mock.Anything, mock.Anything).Once().Return(nil)

		_, err := engine.CreateOffer(context.Background(), "alice", "bob", "item-a", "item-b")

		assert.Error(t, err)
		mockStore.AssertExpectations(t)
	})
}

func TestAccept(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		e := newEnv()
		offer, err := e.engine.CreateOffer(ctx, "alice", "bob", "item-a", "item-b")
		require.NoError(t, err)

		accepted, err := e.engine.Accept(ctx, offer.ID)

		require.NoError(t, err)
		assert.Equal(t, models.ACCEPTED, accepted.Status)
		require.Len(t, accepted.History, 2)
		assert.Equal(t, trades.EventOfferAccepted, accepted.History[1].Event)

		list, err := e.dispatcher.List(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, models.NotificationTradeAccepted, list[0].Type)
	})

	t.Run("Double Submission Succeeds Exactly Once", func(t *testing.T) {
		e := newEnv()
		offer, err := e.engine.CreateOffer(ctx, "alice", "bob", "item-a", "item-b")
		require.NoError(t, err)

		_, err = e.engine.Accept(ctx, offer.ID)
		require.NoError(t, err)

		// The second click fails the guard.
		_, err = e.engine.Accept(ctx, offer.ID)
		assert.ErrorIs(t, err, trades.ErrInvalidStateTransition)

		// No second history entry, no second notification.
		current, err := e.engine.GetTrade(ctx, offer.ID)
		require.NoError(t, err)
		assert.Len(t, current.History, 2)

		list, err := e.dispatcher.List(ctx, "alice")
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("Unknown Trade", func(t *testing.T) {
		e := newEnv()
		_, err := e.engine.Accept(ctx, "no-such-trade")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

// TestDeclineFeedbackFlow walks the full decline path: decline, ask why,
// answer with feedback text.
func TestDeclineFeedbackFlow(t *testing.T) {
	ctx := context.Background()
	e := newEnv()

	offer, err := e.engine.CreateOffer(ctx, "alice", "bob", "item-a", "item-b")
	require.NoError(t, err)

	declined, err := e.engine.Decline(ctx, offer.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DECLINED, declined.Status)

	aliceList, err := e.dispatcher.List(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, aliceList, 1)
	assert.Equal(t, models.NotificationTradeDeclined, aliceList[0].Type)

	requested, err := e.engine.RequestFeedback(ctx, offer.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FEEDBACK_REQUESTED, requested.Status)

	bobList, err := e.dispatcher.List(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, bobList, 2) // the original offer plus the feedback request
	assert.Equal(t, models.NotificationFeedbackRequest, bobList[1].Type)

	resolved, err := e.engine.RespondToFeedback(ctx, offer.ID, true, "Not my size")
	require.NoError(t, err)
	assert.Equal(t, models.FEEDBACK_ACCEPTED, resolved.Status)
	assert.Equal(t, "Not my size", resolved.Feedback)
	assert.True(t, resolved.Status.Terminal())
}

func TestRespondToFeedback(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*env, *models.TradeOffer) {
		e := newEnv()
		offer, err := e.engine.CreateOffer(ctx, "alice", "bob", "item-a", "item-b")
		require.NoError(t, err)
		_, err = e.engine.Decline(ctx, offer.ID)
		require.NoError(t, err)
		_, err = e.engine.RequestFeedback(ctx, offer.ID)
		require.NoError(t, err)
		return e, offer
	}

	t.Run("Accept Requires Feedback Text", func(t *testing.T) {
		e, offer := setup(t)

		_, err := e.engine.RespondToFeedback(ctx, offer.ID, true, "")
		assert.ErrorIs(t, err, trades.ErrValidation)

		// State is untouched.
		current, err := e.engine.GetTrade(ctx, offer.ID)
		require.NoError(t, err)
		assert.Equal(t, models.FEEDBACK_REQUESTED, current.Status)
	})

	t.Run("Decline Discards Feedback Text", func(t *testing.T) {
		e, offer := setup(t)

		resolved, err := e.engine.RespondToFeedback(ctx, offer.ID, false, "should be discarded")
		require.NoError(t, err)
		assert.Equal(t, models.FEEDBACK_DECLINED, resolved.Status)
		assert.Empty(t, resolved.Feedback)
	})
}

func TestAcceptOnDeclinedTrade(t *testing.T) {
	ctx := context.Background()
	e := newEnv()

	offer, err := e.engine.CreateOffer(ctx, "alice", "bob", "item-a", "item-b")
	require.NoError(t, err)
	_, err = e.engine.Decline(ctx, offer.ID)
	require.NoError(t, err)

	_, err = e.engine.Accept(ctx, offer.ID)
	assert.ErrorIs(t, err, trades.ErrInvalidStateTransition)

	current, err := e.engine.GetTrade(ctx, offer.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DECLINED, current.Status)
}

func TestCompleteAndCancel(t *testing.T) {
	ctx := context.Background()

	t.Run("Complete From Accepted", func(t *testing.T) {
		e := newEnv()
		offer, err := e.engine.CreateOffer(ctx, "alice", "bob", "item-a", "item-b")
		require.NoError(t, err)
		_, err = e.engine.Accept(ctx, offer.ID)
		require.NoError(t, err)

		completed, err := e.engine.Complete(ctx, offer.ID)
		require.NoError(t, err)
		assert.Equal(t, models.COMPLETED, completed.Status)

		// Both parties are told.
		for _, user := range []string{"alice", "bob"} {
			list, err := e.dispatcher.List(ctx, user)
			require.NoError(t, err)
			last := list[len(list)-1]
			assert.Equal(t, models.NotificationSystem, last.Type)
		}
	})

	t.Run("Cancel From Accepted", func(t *testing.T) {
		e := newEnv()
		offer, err := e.engine.CreateOffer(ctx, "alice", "bob", "item-a", "item-b")
		require.NoError(t, err)
		_, err = e.engine.Accept(ctx, offer.ID)
		require.NoError(t, err)

		canceled, err := e.engine.Cancel(ctx, offer.ID)
		require.NoError(t, err)
		assert.Equal(t, models.CANCELED, canceled.Status)
	})

	t.Run("Complete From Pending Rejected", func(t *testing.T) {
		e := newEnv()
		offer, err := e.engine.CreateOffer(ctx, "alice", "bob", "item-a", "item-b")
		require.NoError(t, err)

		_, err = e.engine.Complete(ctx, offer.ID)
		assert.ErrorIs(t, err, trades.ErrInvalidStateTransition)
	})
}

func TestListTrades(t *testing.T) {
	ctx := context.Background()
	e := newEnv()

	out, err := e.engine.CreateOffer(ctx, "alice", "bob", "item-a", "item-b")
	require.NoError(t, err)
	in, err := e.engine.CreateOffer(ctx, "carol", "alice", "item-c", "item-d")
	require.NoError(t, err)

	all, err := e.engine.ListTrades(ctx, "alice", trades.RoleAll)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	outgoing, err := e.engine.ListTrades(ctx, "alice", trades.RoleOutgoing)
	require.NoError(t, err)
	require.Len(t, outgoing, 1)
	assert.Equal(t, out.ID, outgoing[0].ID)

	incoming, err := e.engine.ListTrades(ctx, "alice", trades.RoleIncoming)
	require.NoError(t, err)
	require.Len(t, incoming, 1)
	assert.Equal(t, in.ID, incoming[0].ID)
}

func TestConcurrentAcceptsAcrossTrades(t *testing.T) {
	ctx := context.Background()
	e := newEnv()

	const n = 16
	ids := make([]string, n)
	for i := 0; i < n; i++ {
		offer, err := e.engine.CreateOffer(ctx,
			fmt.Sprintf("from-%d", i), fmt.Sprintf("to-%d", i),
			fmt.Sprintf("offered-%d", i), fmt.Sprintf("requested-%d", i))
		require.NoError(t, err)
		ids[i] = offer.ID
	}

	// Accept every trade at once. Each accept targets a different trade, so
	// they do not contend on the per-trade locks; every one of them must
	// still be durable afterwards.
	start := make(chan struct{})
	errs := make(chan error, n)
	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(tradeID string) {
			defer wg.Done()
			<-start
			_, err := e.engine.Accept(ctx, tradeID)
			errs <- err
		}(id)
	}
	close(start)
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	for _, id := range ids {
		offer, err := e.store.GetTrade(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, models.ACCEPTED, offer.Status, "trade %s", id)
		assert.Len(t, offer.History, 2)
	}
}
