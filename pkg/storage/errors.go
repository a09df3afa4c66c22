package storage

import "errors"

// ErrNotFound is returned when a trade, notification or gateway record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrUnavailable is returned when the persistence gateway cannot be reached.
// It is the only error callers are expected to retry with backoff.
var ErrUnavailable = errors.New("storage unavailable")
