// Package mocks provides testify mocks for the storage interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/swapdeck/swapdeck/pkg/models"
)

// Storage is a mock implementation of the storage.Storage interface.
type Storage struct {
	mock.Mock
}

func (m *Storage) GetTrade(ctx context.Context, tradeID string) (*models.TradeOffer, error) {
	args := m.Called(ctx, tradeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TradeOffer), args.Error(1)
}

func (m *Storage) FindPendingByPair(ctx context.Context, itemA, itemB string) (*models.TradeOffer, error) {
	args := m.Called(ctx, itemA, itemB)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TradeOffer), args.Error(1)
}

func (m *Storage) ListTradesByUserID(ctx context.Context, userID string) ([]models.TradeOffer, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TradeOffer), args.Error(1)
}

func (m *Storage) PutTrade(ctx context.Context, trade *models.TradeOffer) error {
	args := m.Called(ctx, trade)
	return args.Error(0)
}

func (m *Storage) RemoveTrade(ctx context.Context, tradeID string) error {
	args := m.Called(ctx, tradeID)
	return args.Error(0)
}

func (m *Storage) ListNotifications(ctx context.Context, userID string) ([]models.Notification, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *Storage) AppendNotification(ctx context.Context, n *models.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *Storage) ReplaceNotifications(ctx context.Context, userID string, list []models.Notification) error {
	args := m.Called(ctx, userID, list)
	return args.Error(0)
}

func (m *Storage) ListSwipes(ctx context.Context, userID string) ([]models.SwipeRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SwipeRecord), args.Error(1)
}

func (m *Storage) PutSwipe(ctx context.Context, record *models.SwipeRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}
