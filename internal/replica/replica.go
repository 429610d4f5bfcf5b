// Package replica defines the contract of the replication engine that the
// presence core consumes: document creation and lookup, text access, change
// events and a best-effort ephemeral broadcast channel scoped to a document.
package replica

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/iudanet/txtpresence/internal/changes"
)

// LocatorPrefix is the scheme of canonical document locators.
const LocatorPrefix = "txt:"

// Locator is an opaque token identifying a replicated document.
type Locator string

// NewLocator generates a fresh canonical locator.
func NewLocator() Locator {
	return Locator(LocatorPrefix + uuid.New().String())
}

// IsValidLocator reports whether s is a canonical locator.
func IsValidLocator(s string) bool {
	rest, ok := strings.CutPrefix(s, LocatorPrefix)
	if !ok {
		return false
	}
	_, err := uuid.Parse(rest)
	return err == nil
}

// String returns the locator as plain text
func (l Locator) String() string {
	return string(l)
}

// Unsubscribe cancels a subscription. Calling it more than once is a no-op.
type Unsubscribe func()

// ChangeFunc receives every mutation of the document, local or remote.
type ChangeFunc func(cs changes.ChangeSet)

// EphemeralFunc receives ephemeral messages broadcast by other peers.
type EphemeralFunc func(senderID string, payload []byte)

//go:generate moq -out replica_mock.go . Repo Handle

// Repo creates and finds documents.
type Repo interface {
	// Create creates a new document with initialText and returns a ready handle
	Create(ctx context.Context, initialText string) (Handle, error)

	// Find returns a handle for an existing document. The handle may not be
	// ready yet; use Handle.WhenReady.
	Find(ctx context.Context, locator Locator) (Handle, error)

	// IsValidLocator is the validation predicate for locators
	IsValidLocator(s string) bool

	// PeerID returns the identifier other peers see as the sender of our messages
	PeerID() string
}

// Handle is a live, locally synced replica of one document.
type Handle interface {
	// Locator returns the canonical locator of the document
	Locator() Locator

	// WhenReady blocks until the replica is synchronized or ctx is done
	WhenReady(ctx context.Context) error

	// Text returns the current text content
	Text() string

	// Change applies a local mutation and propagates it to other peers
	Change(ctx context.Context, cs changes.ChangeSet) error

	// OnChange subscribes to document mutations
	OnChange(fn ChangeFunc) Unsubscribe

	// Broadcast sends a best-effort ephemeral message to peers viewing the document
	Broadcast(payload []byte) error

	// OnEphemeral subscribes to ephemeral messages from other peers
	OnEphemeral(fn EphemeralFunc) Unsubscribe

	// Close releases the handle and cancels every subscription bound to it
	Close() error
}
