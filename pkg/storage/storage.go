package storage

// Storage defines the root interface for the entire data layer.
// It composes all available store operations. Components should depend on the
// more granular interfaces (TradeStore, NotificationStore, SwipeStore)
// instead of this one.
type Storage interface {
	TradeStore
	NotificationStore
	SwipeStore
}
