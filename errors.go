package storekit

import "errors"

// Predefined errors for the storekit package.
var (
	// ErrNilSource is returned by New when no product source is given.
	ErrNilSource = errors.New("product source is required")

	// ErrWatchUnsupported is returned by Watch when the configured source
	// cannot deliver update notifications.
	ErrWatchUnsupported = errors.New("product source does not support watching")

	// ErrUnknownSource is returned by FromConfig when Config.Source names no
	// known backend.
	ErrUnknownSource = errors.New("unknown product source kind")
)
