// Package docref resolves the externally observable document locator into a
// live replica handle and keeps exactly one handle active at a time.
package docref

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/iudanet/txtpresence/internal/replica"
)

// DefaultReadyTimeout bounds the wait for a found document to become ready.
const DefaultReadyTimeout = 10 * time.Second

// SwitchFunc is called with the new handle after every document switch.
type SwitchFunc func(h replica.Handle)

// Resolver turns locators into handles.
type Resolver struct {
	repo         replica.Repo
	source       LocatorSource
	logger       *slog.Logger
	handle       replica.Handle
	cancel       context.CancelFunc
	stopWatch    func()
	subscribers  replica.Subscribers[SwitchFunc]
	readyTimeout time.Duration
	seq          uint64
	mu           sync.Mutex
	installMu    sync.Mutex
	closed       bool
}

// NewResolver creates a resolver. A non-positive readyTimeout selects
// DefaultReadyTimeout.
func NewResolver(repo replica.Repo, source LocatorSource, readyTimeout time.Duration, logger *slog.Logger) *Resolver {
	if readyTimeout <= 0 {
		readyTimeout = DefaultReadyTimeout
	}
	return &Resolver{
		repo:         repo,
		source:       source,
		readyTimeout: readyTimeout,
		logger:       logger,
	}
}

// Start resolves the current locator of the source and starts following its
// changes. Later resolutions run in the background until ctx is done or the
// resolver is closed; their errors are logged. The error of the initial
// resolution is returned, but watching starts regardless.
func (r *Resolver) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		cancel()
		return ErrClosed
	}
	r.cancel = cancel
	r.mu.Unlock()

	locator, err := r.source.Locator(ctx)
	if err != nil {
		r.logger.Warn("Failed to read locator, starting with a new document", "error", err)
		locator = ""
	}

	_, resolveErr := r.Resolve(ctx, locator)

	stop := r.source.Watch(func(locator string) {
		go r.follow(ctx, locator)
	})

	r.mu.Lock()
	r.stopWatch = stop
	r.mu.Unlock()

	return resolveErr
}

func (r *Resolver) follow(ctx context.Context, locator string) {
	if _, err := r.Resolve(ctx, locator); err != nil {
		switch {
		case errors.Is(err, ErrSuperseded), errors.Is(err, ErrClosed), errors.Is(err, context.Canceled):
			r.logger.Debug("Locator resolution dropped", "locator", locator, "error", err)
		default:
			r.logger.Error("Failed to resolve locator", "locator", locator, "error", err)
		}
	}
}

// Resolve makes the document behind locator the active one and returns its
// handle. An empty or invalid locator creates a new document whose
// canonical locator is written back to the source. A found document must
// become ready within the ready timeout, otherwise ErrNotReady is returned.
// Resolving the active locator again is a no-op.
func (r *Resolver) Resolve(ctx context.Context, locator string) (replica.Handle, error) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, ErrClosed
	}
	// Любой новый запрос отменяет незавершенные более ранние
	r.seq++
	seq := r.seq
	if r.handle != nil && r.handle.Locator().String() == locator {
		h := r.handle
		r.mu.Unlock()
		return h, nil
	}
	r.mu.Unlock()

	if !r.repo.IsValidLocator(locator) {
		return r.create(ctx, seq, locator)
	}
	return r.find(ctx, seq, replica.Locator(locator))
}

func (r *Resolver) create(ctx context.Context, seq uint64, requested string) (replica.Handle, error) {
	if requested != "" {
		r.logger.Warn("Invalid locator, creating a new document", "locator", requested)
	}

	h, err := r.repo.Create(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}

	if err := r.install(seq, h); err != nil {
		_ = h.Close()
		return nil, err
	}

	// Записываем канонический локатор обратно после установки хендла,
	// чтобы уведомление источника совпало с активным документом
	if err := r.source.SetLocator(ctx, h.Locator().String()); err != nil {
		r.logger.Warn("Failed to write locator back", "locator", h.Locator().String(), "error", err)
	}

	r.logger.Info("Created document", "locator", h.Locator().String())
	return h, nil
}

func (r *Resolver) find(ctx context.Context, seq uint64, locator replica.Locator) (replica.Handle, error) {
	h, err := r.repo.Find(ctx, locator)
	if err != nil {
		return nil, fmt.Errorf("failed to find document %s: %w", locator, err)
	}

	readyCtx, cancel := context.WithTimeout(ctx, r.readyTimeout)
	defer cancel()

	if err := h.WhenReady(readyCtx); err != nil {
		_ = h.Close()
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			r.logger.Warn("Document not ready", "locator", locator.String(), "timeout", r.readyTimeout)
			return nil, fmt.Errorf("%w: %s", ErrNotReady, locator)
		}
		return nil, fmt.Errorf("failed to wait for document %s: %w", locator, err)
	}

	if err := r.install(seq, h); err != nil {
		_ = h.Close()
		return nil, err
	}

	r.logger.Info("Opened document", "locator", locator.String())
	return h, nil
}

// install closes the previous handle, makes h active and notifies
// subscribers, unless a newer resolution has started meanwhile.
func (r *Resolver) install(seq uint64, h replica.Handle) error {
	r.installMu.Lock()
	defer r.installMu.Unlock()

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrClosed
	}
	if seq != r.seq {
		r.mu.Unlock()
		return ErrSuperseded
	}
	old := r.handle
	if old != nil {
		if err := old.Close(); err != nil {
			r.logger.Warn("Failed to close previous handle", "locator", old.Locator().String(), "error", err)
		}
	}
	r.handle = h
	r.mu.Unlock()

	for _, fn := range r.subscribers.Snapshot() {
		fn(h)
	}
	return nil
}

// Subscribe registers fn for document switches.
func (r *Resolver) Subscribe(fn SwitchFunc) replica.Unsubscribe {
	return r.subscribers.Add(fn)
}

// Handle returns the active handle or nil.
func (r *Resolver) Handle() replica.Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.handle
}

// Close stops following the source and closes the active handle.
func (r *Resolver) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	h := r.handle
	r.handle = nil
	stop, cancel := r.stopWatch, r.cancel
	r.mu.Unlock()

	if stop != nil {
		stop()
	}
	if cancel != nil {
		cancel()
	}
	r.subscribers.Close()

	if h != nil {
		return h.Close()
	}
	return nil
}
