package store

import "errors"

var (
	// ErrPersist wraps a failure to write the local cache. The mutation
	// has still been applied in memory, published, and scheduled for push.
	ErrPersist = errors.New("local commit failed")

	// ErrClosed is returned by mutations after Close.
	ErrClosed = errors.New("store closed")
)
