// Package memory implements an in-process replica network. Every Repo
// created from the same Network sees the same documents, which makes it
// suitable for tests and for running several peers inside one process.
package memory

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/iudanet/txtpresence/internal/changes"
	"github.com/iudanet/txtpresence/internal/replica"
)

// EphemeralFilter decides whether an ephemeral message from one peer reaches
// another one. It simulates a lossy channel.
type EphemeralFilter func(senderID, receiverID string, payload []byte) bool

// Network is a set of documents shared by in-process peers.
type Network struct {
	logger *slog.Logger
	docs   map[replica.Locator]*document
	filter EphemeralFilter
	mu     sync.Mutex
}

// NewNetwork creates an empty network.
func NewNetwork(logger *slog.Logger) *Network {
	return &Network{
		logger: logger,
		docs:   make(map[replica.Locator]*document),
	}
}

// Repo returns a repository that acts as peerID on the network.
func (n *Network) Repo(peerID string) *Repo {
	return &Repo{network: n, peerID: peerID}
}

// SetEphemeralFilter installs a filter for ephemeral delivery. nil delivers everything.
func (n *Network) SetEphemeralFilter(filter EphemeralFilter) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.filter = filter
}

// Publish makes a document with the given text available under locator.
// Handles waiting for the locator become ready. It returns false when the
// document already exists.
func (n *Network) Publish(locator replica.Locator, text string) bool {
	doc := n.document(locator)

	doc.mu.Lock()
	defer doc.mu.Unlock()
	if doc.exists {
		return false
	}
	doc.exists = true
	doc.text = text
	close(doc.ready)

	n.logger.Debug("Document published", "locator", locator.String())
	return true
}

// Text returns the current text of the document at locator.
func (n *Network) Text(locator replica.Locator) (string, error) {
	n.mu.Lock()
	doc, ok := n.docs[locator]
	n.mu.Unlock()
	if !ok {
		return "", replica.ErrDocumentNotFound
	}

	doc.mu.Lock()
	defer doc.mu.Unlock()
	if !doc.exists {
		return "", replica.ErrDocumentNotFound
	}
	return doc.text, nil
}

func (n *Network) document(locator replica.Locator) *document {
	n.mu.Lock()
	defer n.mu.Unlock()

	doc, ok := n.docs[locator]
	if !ok {
		doc = &document{
			locator: locator,
			ready:   make(chan struct{}),
			handles: make(map[*Handle]struct{}),
		}
		n.docs[locator] = doc
	}
	return doc
}

func (n *Network) allow(senderID, receiverID string, payload []byte) bool {
	n.mu.Lock()
	filter := n.filter
	n.mu.Unlock()
	return filter == nil || filter(senderID, receiverID, payload)
}

// document хранит общий текст и открытые на нем хендлы
type document struct {
	ready   chan struct{}
	handles map[*Handle]struct{}
	locator replica.Locator
	text    string
	mu      sync.Mutex
	// deliver упорядочивает доставку изменений всем хендлам
	deliver sync.Mutex
	exists  bool
}

func (d *document) apply(cs changes.ChangeSet) ([]*Handle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.exists {
		return nil, replica.ErrNotReady
	}
	text, err := cs.Apply(d.text)
	if err != nil {
		return nil, fmt.Errorf("failed to apply change: %w", err)
	}
	d.text = text
	return d.snapshot(), nil
}

func (d *document) snapshot() []*Handle {
	out := make([]*Handle, 0, len(d.handles))
	for h := range d.handles {
		out = append(out, h)
	}
	return out
}

func (d *document) attach(h *Handle) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handles[h] = struct{}{}
}

func (d *document) detach(h *Handle) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.handles, h)
}

// Repo is one peer's view of the network. It implements replica.Repo.
type Repo struct {
	network *Network
	peerID  string
}

var _ replica.Repo = (*Repo)(nil)

// Create creates a new document and returns a ready handle.
func (r *Repo) Create(ctx context.Context, initialText string) (replica.Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	locator := replica.NewLocator()
	r.network.Publish(locator, initialText)
	return r.open(locator), nil
}

// Find returns a handle for locator. The handle becomes ready once the
// document is published on the network.
func (r *Repo) Find(ctx context.Context, locator replica.Locator) (replica.Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !replica.IsValidLocator(locator.String()) {
		return nil, fmt.Errorf("%w: %q", replica.ErrInvalidLocator, locator)
	}
	return r.open(locator), nil
}

// IsValidLocator implements replica.Repo.
func (r *Repo) IsValidLocator(s string) bool {
	return replica.IsValidLocator(s)
}

// PeerID implements replica.Repo.
func (r *Repo) PeerID() string {
	return r.peerID
}

func (r *Repo) open(locator replica.Locator) *Handle {
	doc := r.network.document(locator)
	h := &Handle{
		repo:   r,
		doc:    doc,
		closed: make(chan struct{}),
	}
	doc.attach(h)
	return h
}
