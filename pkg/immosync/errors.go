package immosync

import "errors"

var (
	// ErrClosed is returned by operations on a closed cache.
	ErrClosed = errors.New("immosync: cache is closed")

	// ErrInvalidPageSize is returned when Search is called with a page
	// size smaller than one.
	ErrInvalidPageSize = errors.New("immosync: page size must be positive")
)
