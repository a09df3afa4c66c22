// Package memory provides an in-process Gateway, used in tests and for
// running the service without external infrastructure.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/swapdeck/swapdeck/pkg/storage"
)

// Gateway stores blobs in a process-local map.
type Gateway struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// New creates an empty in-memory gateway.
func New() *Gateway {
	return &Gateway{blobs: make(map[string][]byte)}
}

// Make sure we conform to the interface
var _ storage.Gateway = (*Gateway)(nil)

func blobKey(scope, key string) string {
	return scope + "/" + key
}

// Load retrieves the blob stored under (scope, key).
func (g *Gateway) Load(ctx context.Context, scope, key string) ([]byte, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	blob, ok := g.blobs[blobKey(scope, key)]
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", scope, key, storage.ErrNotFound)
	}

	out := make([]byte, len(blob))
	copy(out, blob)
	return out, nil
}

// Save stores blob under (scope, key), replacing any previous value.
func (g *Gateway) Save(ctx context.Context, scope, key string, blob []byte) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	stored := make([]byte, len(blob))
	copy(stored, blob)
	g.blobs[blobKey(scope, key)] = stored
	return nil
}
