package blip

import "errors"

var (
	// ErrOutOfRange indicates offsets outside the document bounds, or any
	// non-empty range addressed against an empty document.
	ErrOutOfRange = errors.New("range outside the document")

	// ErrNoElementAt indicates an element mutation aimed at a position that
	// holds no element.
	ErrNoElementAt = errors.New("no element at position")

	// ErrEmptyMatch indicates a value read from a selector that matched
	// nothing.
	ErrEmptyMatch = errors.New("selector matched nothing")

	// ErrNoValues indicates a mutation invoked without any content to apply.
	ErrNoValues = errors.New("no values supplied")
)
