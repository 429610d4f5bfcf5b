package memory

import (
	"context"
	"sync"

	"github.com/iudanet/txtpresence/internal/changes"
	"github.com/iudanet/txtpresence/internal/replica"
)

// Handle is an open document on the in-process network.
type Handle struct {
	repo      *Repo
	doc       *document
	closed    chan struct{}
	changes   replica.Subscribers[replica.ChangeFunc]
	ephemeral replica.Subscribers[replica.EphemeralFunc]
	closeOnce sync.Once
}

var _ replica.Handle = (*Handle)(nil)

// Locator implements replica.Handle.
func (h *Handle) Locator() replica.Locator {
	return h.doc.locator
}

// WhenReady waits until the document is published.
func (h *Handle) WhenReady(ctx context.Context) error {
	if h.isClosed() {
		return replica.ErrHandleClosed
	}

	select {
	case <-h.doc.ready:
		return nil
	case <-h.closed:
		return replica.ErrHandleClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Text implements replica.Handle. It is empty until the handle is ready.
func (h *Handle) Text() string {
	h.doc.mu.Lock()
	defer h.doc.mu.Unlock()
	return h.doc.text
}

// Change applies cs to the shared text and delivers it to every open handle,
// this one included. Delivery is synchronous.
func (h *Handle) Change(ctx context.Context, cs changes.ChangeSet) error {
	if h.isClosed() {
		return replica.ErrHandleClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	h.doc.deliver.Lock()
	defer h.doc.deliver.Unlock()

	targets, err := h.doc.apply(cs)
	if err != nil {
		return err
	}
	for _, target := range targets {
		for _, fn := range target.changes.Snapshot() {
			fn(cs)
		}
	}
	return nil
}

// OnChange implements replica.Handle.
func (h *Handle) OnChange(fn replica.ChangeFunc) replica.Unsubscribe {
	return h.changes.Add(fn)
}

// Broadcast delivers payload to every other open handle of the document,
// subject to the network filter. Delivery is best effort.
func (h *Handle) Broadcast(payload []byte) error {
	if h.isClosed() {
		return replica.ErrHandleClosed
	}

	h.doc.mu.Lock()
	targets := h.doc.snapshot()
	h.doc.mu.Unlock()

	sender := h.repo.peerID
	for _, target := range targets {
		if target == h {
			continue
		}
		receiver := target.repo.peerID
		if !h.repo.network.allow(sender, receiver, payload) {
			continue
		}
		for _, fn := range target.ephemeral.Snapshot() {
			fn(sender, append([]byte(nil), payload...))
		}
	}
	return nil
}

// OnEphemeral implements replica.Handle.
func (h *Handle) OnEphemeral(fn replica.EphemeralFunc) replica.Unsubscribe {
	return h.ephemeral.Add(fn)
}

// Close detaches the handle and drops every subscription bound to it.
func (h *Handle) Close() error {
	h.closeOnce.Do(func() {
		close(h.closed)
		h.doc.detach(h)
		h.changes.Close()
		h.ephemeral.Close()
	})
	return nil
}

func (h *Handle) isClosed() bool {
	select {
	case <-h.closed:
		return true
	default:
		return false
	}
}
