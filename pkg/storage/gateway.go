package storage

import "context"

// Scope names the record-type buckets the core persists through the gateway.
const (
	// ScopeTrades holds the global trade offer collection.
	ScopeTrades = "trades"

	// TradesKey is the key for the offer collection blob within ScopeTrades.
	TradesKey = "offers"

	// NotificationsKey is the key for a user's inbox blob.
	NotificationsKey = "inbox"

	// SwipesKey is the key for a user's swipe ledger blob.
	SwipesKey = "ledger"
)

// NotificationsScope returns the per-user scope for notification storage.
func NotificationsScope(userID string) string {
	return "notifications:" + userID
}

// SwipesScope returns the per-user scope for swipe ledger storage.
func SwipesScope(userID string) string {
	return "swipes:" + userID
}

// Gateway is the narrow persistence interface the core reads and writes
// through: scoped get/set of opaque JSON blobs. Implementations must return
// ErrNotFound for absent records and wrap transport failures in
// ErrUnavailable so callers can distinguish "no data yet" from an outage.
type Gateway interface {
	// Load retrieves the blob stored under (scope, key).
	Load(ctx context.Context, scope, key string) ([]byte, error)

	// Save stores blob under (scope, key), replacing any previous value.
	Save(ctx context.Context, scope, key string, blob []byte) error
}
