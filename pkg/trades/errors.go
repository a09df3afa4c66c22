package trades

import "errors"

// ErrInvalidStateTransition is returned when an operation is attempted from a
// source state that does not permit it. Under concurrent submission (two
// tabs, a double click) this is a normal outcome, not an exceptional one.
var ErrInvalidStateTransition = errors.New("invalid state transition")

// ErrDuplicatePendingOffer is returned when a PENDING offer already exists
// for the same unordered item pair.
var ErrDuplicatePendingOffer = errors.New("a pending offer already exists for this item pair")

// ErrValidation is returned for malformed input, e.g. a self-trade or a
// feedback acceptance without feedback text.
var ErrValidation = errors.New("validation failed")
