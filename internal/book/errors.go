package book

import (
	"cosmossdk.io/errors"
)

// codespace namespaces every error this package registers, so a caller can
// tell a book error apart from an error originating in registry or ingest.
const codespace = "book"

var (
	// ErrMalformedRecord is returned when an input line cannot be parsed
	// into a valid add/update/cancel action.
	ErrMalformedRecord = errors.Register(codespace, 1, "malformed record")

	// ErrUnknownOrder is returned when an update or cancel names an order
	// ID that is not currently resting in any book.
	ErrUnknownOrder = errors.Register(codespace, 2, "unknown order")

	// ErrDuplicateOrder is returned when an add names an order ID that is
	// already resting.
	ErrDuplicateOrder = errors.Register(codespace, 3, "duplicate order")

	// ErrInvariantViolation is returned when an internal consistency
	// check fails. It should never surface from a correct build; it is
	// returned like the other kinds, never raised as a panic.
	ErrInvariantViolation = errors.Register(codespace, 4, "invariant violation")
)
