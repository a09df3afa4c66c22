// Package sharding provides striped key locks. Operations for the same key
// always hash to the same stripe and therefore serialize; operations for
// different keys almost never block each other.
package sharding

import (
	"hash/fnv"
	"sync"
)

// DefaultStripeCount is a reasonable stripe count for per-user and per-trade
// serialization.
const DefaultStripeCount = 64

// StripedMutex is a fixed set of mutexes addressed by string key.
type StripedMutex struct {
	stripes []sync.Mutex
}

// NewStripedMutex creates a StripedMutex with n stripes.
func NewStripedMutex(n int) *StripedMutex {
	if n <= 0 {
		n = DefaultStripeCount
	}
	return &StripedMutex{stripes: make([]sync.Mutex, n)}
}

func (m *StripedMutex) stripe(key string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(key))
	return &m.stripes[h.Sum32()%uint32(len(m.stripes))]
}

// Lock acquires the stripe for key.
func (m *StripedMutex) Lock(key string) {
	m.stripe(key).Lock()
}

// Unlock releases the stripe for key.
func (m *StripedMutex) Unlock(key string) {
	m.stripe(key).Unlock()
}
