// Package catalog defines the item catalog collaborator. The core does not
// own listings; it only needs identity, ownership, kind, and the ranking
// modifiers (boost, seller level) for the items it is shown.
package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/swapdeck/swapdeck/pkg/models"
	"github.com/swapdeck/swapdeck/pkg/storage"
)

// Catalog supplies item data owned by the listing subsystem.
type Catalog interface {
	// GetItem retrieves an item by ID, or storage.ErrNotFound.
	GetItem(ctx context.Context, itemID string) (*models.Item, error)

	// HasActiveBoost reports whether the item currently holds a boost.
	HasActiveBoost(itemID string) bool

	// SellerLevel returns the reputation tier of the given owner.
	SellerLevel(ownerID string) int
}

// Static is an in-memory Catalog for development and tests.
type Static struct {
	mu     sync.RWMutex
	items  map[string]models.Item
	boosts map[string]bool
	levels map[string]int
}

// NewStatic creates an empty in-memory catalog.
func NewStatic() *Static {
	return &Static{
		items:  make(map[string]models.Item),
		boosts: make(map[string]bool),
		levels: make(map[string]int),
	}
}

// Make sure we conform to the interface
var _ Catalog = (*Static)(nil)

// AddItem registers an item.
func (s *Static) AddItem(item models.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[item.ID] = item
}

// SetBoost sets an item's boost flag.
func (s *Static) SetBoost(itemID string, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.boosts[itemID] = active
}

// SetSellerLevel sets an owner's reputation tier.
func (s *Static) SetSellerLevel(ownerID string, level int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.levels[ownerID] = level
}

// GetItem retrieves an item by ID.
func (s *Static) GetItem(ctx context.Context, itemID string) (*models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[itemID]
	if !ok {
		return nil, fmt.Errorf("item %s: %w", itemID, storage.ErrNotFound)
	}
	return &item, nil
}

// HasActiveBoost reports whether the item currently holds a boost.
func (s *Static) HasActiveBoost(itemID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.boosts[itemID]
}

// SellerLevel returns the reputation tier of the given owner.
func (s *Static) SellerLevel(ownerID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.levels[ownerID]
}
