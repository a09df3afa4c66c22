package storage

import (
	"context"

	"github.com/swapdeck/swapdeck/pkg/models"
)

// NotificationStore defines the interface for a user's notification log.
// The log is append-only; entries are never deleted, only their read/action
// fields change.
type NotificationStore interface {
	// ListNotifications retrieves a user's notifications, oldest first.
	ListNotifications(ctx context.Context, userID string) ([]models.Notification, error)

	// AppendNotification appends a notification to the user's log.
	AppendNotification(ctx context.Context, n *models.Notification) error

	// ReplaceNotifications overwrites the user's log. Used by the dispatcher
	// to persist read/action updates; callers must hold the per-user lock.
	ReplaceNotifications(ctx context.Context, userID string, list []models.Notification) error
}
