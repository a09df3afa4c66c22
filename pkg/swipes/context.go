package swipes

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// CachedContext memoizes boost and seller-level lookups with a TTL, so
// ranking a large candidate set does not hammer the collaborators that own
// boosts and reputation.
type CachedContext struct {
	boostFn func(itemID string) bool
	levelFn func(ownerID string) int
	cache   *gocache.Cache
}

// NewCachedContext wraps the collaborator lookups in a TTL cache.
func NewCachedContext(boostFn func(itemID string) bool, levelFn func(ownerID string) int, ttl time.Duration) *CachedContext {
	return &CachedContext{
		boostFn: boostFn,
		levelFn: levelFn,
		cache:   gocache.New(ttl, 2*ttl),
	}
}

// Make sure we conform to the interface
var _ RankingContext = (*CachedContext)(nil)

// HasActiveBoost reports whether the item currently holds a boost.
func (c *CachedContext) HasActiveBoost(itemID string) bool {
	key := "boost:" + itemID
	if v, ok := c.cache.Get(key); ok {
		return v.(bool)
	}
	v := c.boostFn(itemID)
	c.cache.SetDefault(key, v)
	return v
}

// SellerLevel returns the reputation tier of the item's owner.
func (c *CachedContext) SellerLevel(ownerID string) int {
	key := "level:" + ownerID
	if v, ok := c.cache.Get(key); ok {
		return v.(int)
	}
	v := c.levelFn(ownerID)
	c.cache.SetDefault(key, v)
	return v
}
