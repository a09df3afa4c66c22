// Package kv implements the trade, notification and swipe stores on top of
// any storage.Gateway by serializing whole collections as JSON blobs, one
// blob per scope: a handful of per-user documents behind an opaque get/set
// interface.
package kv

import (
	"context"
	"errors"
	"fmt"
	"sync"

	jsoniter "github.com/json-iterator/go"

	"github.com/swapdeck/swapdeck/pkg/models"
	"github.com/swapdeck/swapdeck/pkg/storage"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Store implements storage.Storage over a Gateway.
//
// The trades scope keeps every offer in one blob, so writes for different
// trades still touch the same document. tradesMu serializes the trade
// read-modify-write cycle; without it, two concurrent writers would load the
// same snapshot and the second save would discard the first one's offer.
// Notification and swipe blobs are per user, where the callers' per-user
// locks already match the write granularity.
type Store struct {
	Gateway storage.Gateway

	tradesMu sync.Mutex
}

// New creates a new Store backed by the given gateway.
func New(gateway storage.Gateway) *Store {
	return &Store{Gateway: gateway}
}

// Make sure we conform to the interface
var _ storage.Storage = (*Store)(nil)

// loadCollection decodes the blob at (scope, key) into dst. An absent blob is
// not an error: dst is left at its zero value (an empty collection).
func (s *Store) loadCollection(ctx context.Context, scope, key string, dst any) error {
	blob, err := s.Gateway.Load(ctx, scope, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to load %s/%s: %w", scope, key, err)
	}
	if err := json.Unmarshal(blob, dst); err != nil {
		return fmt.Errorf("failed to decode %s/%s: %w", scope, key, err)
	}
	return nil
}

func (s *Store) saveCollection(ctx context.Context, scope, key string, collection any) error {
	blob, err := json.Marshal(collection)
	if err != nil {
		return fmt.Errorf("failed to encode %s/%s: %w", scope, key, err)
	}
	if err := s.Gateway.Save(ctx, scope, key, blob); err != nil {
		return fmt.Errorf("failed to save %s/%s: %w", scope, key, err)
	}
	return nil
}

func (s *Store) loadTrades(ctx context.Context) ([]models.TradeOffer, error) {
	var trades []models.TradeOffer
	if err := s.loadCollection(ctx, storage.ScopeTrades, storage.TradesKey, &trades); err != nil {
		return nil, err
	}
	return trades, nil
}
