package kv

import (
	"context"

	"github.com/swapdeck/swapdeck/pkg/models"
	"github.com/swapdeck/swapdeck/pkg/storage"
)

// ListNotifications retrieves a user's notifications, oldest first.
func (s *Store) ListNotifications(ctx context.Context, userID string) ([]models.Notification, error) {
	var list []models.Notification
	if err := s.loadCollection(ctx, storage.NotificationsScope(userID), storage.NotificationsKey, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// AppendNotification appends a notification to the user's log.
func (s *Store) AppendNotification(ctx context.Context, n *models.Notification) error {
	list, err := s.ListNotifications(ctx, n.UserID)
	if err != nil {
		return err
	}
	list = append(list, *n)
	return s.saveCollection(ctx, storage.NotificationsScope(n.UserID), storage.NotificationsKey, list)
}

// ReplaceNotifications overwrites the user's log.
func (s *Store) ReplaceNotifications(ctx context.Context, userID string, list []models.Notification) error {
	return s.saveCollection(ctx, storage.NotificationsScope(userID), storage.NotificationsKey, list)
}
