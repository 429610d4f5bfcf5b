// Package storage defines the client's local persistent state: the peer
// name shown to other peers and the document locator the client follows.
package storage

import "context"

// ProfileStorage stores the local peer identity.
type ProfileStorage interface {
	// SavePeerName stores the peer name
	SavePeerName(ctx context.Context, name string) error

	// GetPeerName returns the stored peer name
	// Returns ErrPeerNameNotFound if no name was stored
	GetPeerName(ctx context.Context) (string, error)
}

// DocumentStorage stores the followed document locator and the history of
// opened documents.
type DocumentStorage interface {
	// Locator returns the current locator, empty if none was stored
	Locator(ctx context.Context) (string, error)

	// SetLocator stores the locator, records it in the history and notifies watchers
	SetLocator(ctx context.Context, locator string) error

	// Watch registers fn for locator changes and returns a function that stops watching
	Watch(fn func(locator string)) func()

	// RecentDocuments returns up to limit most recently opened documents, newest first
	RecentDocuments(ctx context.Context, limit int) ([]RecentDocument, error)
}

// RecentDocument is one entry of the opened documents history.
type RecentDocument struct {
	Locator  string `json:"locator"`
	OpenedAt int64  `json:"opened_at"`
}
