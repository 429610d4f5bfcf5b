package storage

import "errors"

// Common client storage errors
var (
	// ErrPeerNameNotFound indicates that no peer name has been stored yet
	ErrPeerNameNotFound = errors.New("peer name not found")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")
)
