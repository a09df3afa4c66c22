// Package notifications implements the per-user notification log: append on
// every trade transition, read/unread tracking, and a terminal "action taken"
// marker per entry.
package notifications

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/samber/lo"

	"github.com/swapdeck/swapdeck/pkg/metrics"
	"github.com/swapdeck/swapdeck/pkg/models"
	"github.com/swapdeck/swapdeck/pkg/sharding"
	"github.com/swapdeck/swapdeck/pkg/storage"
)

// ErrInvalidPayload is returned when a notification's payload does not match
// its declared type, or a required field is missing.
var ErrInvalidPayload = errors.New("invalid notification payload")

// Dispatcher owns notification storage. A user's log mutations serialize on a
// per-user stripe so concurrent appends and read-state updates never race.
type Dispatcher struct {
	store storage.NotificationStore
	locks *sharding.StripedMutex
	now   func() time.Time
}

// NewDispatcher creates a new Dispatcher.
func NewDispatcher(store storage.NotificationStore) *Dispatcher {
	return &Dispatcher{
		store: store,
		locks: sharding.NewStripedMutex(sharding.DefaultStripeCount),
		now:   time.Now,
	}
}

// Notify validates the payload against its type and appends a new unread
// notification to the user's log.
func (d *Dispatcher) Notify(ctx context.Context, userID string, ntype models.NotificationType, payload any) (*models.Notification, error) {
	if err := models.ValidatePayload(ntype, payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	n := &models.Notification{
		ID:        xid.New().String(),
		UserID:    userID,
		Type:      ntype,
		Payload:   payload,
		Timestamp: d.now().UTC(),
	}

	d.locks.Lock(userID)
	defer d.locks.Unlock(userID)

	if err := d.store.AppendNotification(ctx, n); err != nil {
		return nil, err
	}

	metrics.NotificationsEmitted.WithLabelValues(string(ntype)).Inc()
	return n, nil
}

// List retrieves a user's notifications, oldest first.
func (d *Dispatcher) List(ctx context.Context, userID string) ([]models.Notification, error) {
	return d.store.ListNotifications(ctx, userID)
}

// Get retrieves one notification from a user's log.
func (d *Dispatcher) Get(ctx context.Context, userID, notificationID string) (*models.Notification, error) {
	list, err := d.store.ListNotifications(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].ID == notificationID {
			return &list[i], nil
		}
	}
	return nil, fmt.Errorf("notification %s: %w", notificationID, storage.ErrNotFound)
}

// UnreadCount is derived from the stored log on every call, never cached, so
// it cannot drift from the entries themselves.
func (d *Dispatcher) UnreadCount(ctx context.Context, userID string) (int, error) {
	list, err := d.store.ListNotifications(ctx, userID)
	if err != nil {
		return 0, err
	}
	return lo.CountBy(list, func(n models.Notification) bool { return !n.Read }), nil
}

// MarkRead marks a single notification as read. Read only ever moves from
// unset to set; marking an already-read notification is a no-op.
func (d *Dispatcher) MarkRead(ctx context.Context, userID, notificationID string) error {
	d.locks.Lock(userID)
	defer d.locks.Unlock(userID)

	list, err := d.store.ListNotifications(ctx, userID)
	if err != nil {
		return err
	}

	found := false
	for i := range list {
		if list[i].ID == notificationID {
			found = true
			if list[i].Read {
				return nil
			}
			list[i].Read = true
			break
		}
	}
	if !found {
		return fmt.Errorf("notification %s: %w", notificationID, storage.ErrNotFound)
	}

	return d.store.ReplaceNotifications(ctx, userID, list)
}

// MarkAllRead marks every notification in the user's log as read.
func (d *Dispatcher) MarkAllRead(ctx context.Context, userID string) error {
	d.locks.Lock(userID)
	defer d.locks.Unlock(userID)

	list, err := d.store.ListNotifications(ctx, userID)
	if err != nil {
		return err
	}

	changed := false
	for i := range list {
		if !list[i].Read {
			list[i].Read = true
			changed = true
		}
	}
	if !changed {
		return nil
	}

	return d.store.ReplaceNotifications(ctx, userID, list)
}

// UpdateAction records which UI action the user took on a notification, so
// the action survives even after the underlying trade has moved on. It is
// idempotent by replacement: a second call overwrites the action and
// re-stamps the action timestamp. Callers are expected to gate this behind
// the trade engine's own transition guard.
func (d *Dispatcher) UpdateAction(ctx context.Context, userID, notificationID, action string) error {
	if action == "" {
		return fmt.Errorf("%w: action must not be empty", ErrInvalidPayload)
	}

	d.locks.Lock(userID)
	defer d.locks.Unlock(userID)

	list, err := d.store.ListNotifications(ctx, userID)
	if err != nil {
		return err
	}

	found := false
	for i := range list {
		if list[i].ID == notificationID {
			now := d.now().UTC()
			list[i].ActionTaken = true
			list[i].Action = action
			list[i].ActionTimestamp = &now
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("notification %s: %w", notificationID, storage.ErrNotFound)
	}

	return d.store.ReplaceNotifications(ctx, userID, list)
}
