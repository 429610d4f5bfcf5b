package wsrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/iudanet/txtpresence/internal/changes"
	"github.com/iudanet/txtpresence/internal/replica"
	"github.com/iudanet/txtpresence/pkg/api"
)

const (
	writeWait  = 10 * time.Second
	sendBuffer = 64
)

// Handle is a document opened on the relay.
type Handle struct {
	logger    *slog.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	send      chan []byte
	ready     chan struct{}
	lost      chan struct{}
	closed    chan struct{}
	pending   map[string]chan error
	lostErr   error
	locator   replica.Locator
	text      string
	changes   replica.Subscribers[replica.ChangeFunc]
	ephemeral replica.Subscribers[replica.EphemeralFunc]
	version   int64
	mu        sync.Mutex
	changeMu  sync.Mutex
	readyOnce sync.Once
	lostOnce  sync.Once
	closeOnce sync.Once
}

var _ replica.Handle = (*Handle)(nil)

func newHandle(locator replica.Locator, logger *slog.Logger) *Handle {
	ctx, cancel := context.WithCancel(context.Background())
	return &Handle{
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
		send:    make(chan []byte, sendBuffer),
		ready:   make(chan struct{}),
		lost:    make(chan struct{}),
		closed:  make(chan struct{}),
		pending: make(map[string]chan error),
		locator: locator,
	}
}

// connect дозванивается до relay и обслуживает соединение до его закрытия
func (h *Handle) connect(dialer *websocket.Dialer, target string) {
	conn, resp, err := dialer.DialContext(h.ctx, target, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			err = replica.ErrDocumentNotFound
		}
		h.fail(fmt.Errorf("failed to connect to relay: %w", err))
		return
	}

	go h.writeLoop(conn)
	h.readLoop(conn)
}

func (h *Handle) readLoop(conn *websocket.Conn) {
	defer func() { _ = conn.Close() }()

	for {
		var f api.Frame
		if err := conn.ReadJSON(&f); err != nil {
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				h.logger.Debug("Dropping malformed frame", "error", err)
				continue
			}
			h.fail(fmt.Errorf("%w: %v", ErrConnectionLost, err))
			return
		}
		h.handleFrame(f)
	}
}

func (h *Handle) writeLoop(conn *websocket.Conn) {
	for {
		select {
		case msg := <-h.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.fail(fmt.Errorf("%w: %v", ErrConnectionLost, err))
				_ = conn.Close()
				return
			}
		case <-h.lost:
			return
		case <-h.closed:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			_ = conn.Close()
			return
		}
	}
}

// handleFrame применяет фрейм сервера к локальной реплике
func (h *Handle) handleFrame(f api.Frame) {
	switch f.Type {
	case api.FrameSnapshot:
		h.resync(f.Text, f.Version)
		h.readyOnce.Do(func() { close(h.ready) })

	case api.FrameChange:
		h.applyRemote(f)

	case api.FrameReject:
		h.resync(f.Text, f.Version)
		h.complete(f.ID, replica.ErrChangeRejected)

	case api.FrameEphemeral:
		for _, fn := range h.ephemeral.Snapshot() {
			fn(f.Sender, f.Payload)
		}

	case api.FrameError:
		h.logger.Warn("Relay reported an error", "message", f.Message)

	default:
		h.logger.Debug("Ignoring unknown frame", "type", f.Type)
	}
}

func (h *Handle) applyRemote(f api.Frame) {
	if f.Change == nil {
		return
	}

	h.mu.Lock()
	if f.Version != h.version+1 {
		h.mu.Unlock()
		h.logger.Debug("Ignoring out of order change", "version", f.Version, "local_version", h.version)
		return
	}
	text, err := f.Change.Apply(h.text)
	if err != nil {
		h.mu.Unlock()
		h.logger.Warn("Failed to apply relay change", "version", f.Version, "error", err)
		return
	}
	h.text, h.version = text, f.Version
	h.mu.Unlock()

	for _, fn := range h.changes.Snapshot() {
		fn(*f.Change)
	}
	h.complete(f.ID, nil)
}

// resync заменяет локальный текст серверным и сообщает подписчикам разницу
func (h *Handle) resync(text string, version int64) {
	h.mu.Lock()
	if version < h.version {
		h.mu.Unlock()
		return
	}
	cs := changes.Diff(h.text, text)
	h.text, h.version = text, version
	h.mu.Unlock()

	if cs.Empty() {
		return
	}
	h.logger.Debug("Replica resynchronized", "version", version)
	for _, fn := range h.changes.Snapshot() {
		fn(cs)
	}
}

func (h *Handle) complete(id string, err error) {
	if id == "" {
		return
	}
	h.mu.Lock()
	ch, ok := h.pending[id]
	delete(h.pending, id)
	h.mu.Unlock()

	if ok {
		ch <- err
	}
}

// fail помечает соединение потерянным и завершает ожидающие изменения
func (h *Handle) fail(err error) {
	h.lostOnce.Do(func() {
		if h.isClosed() {
			err = replica.ErrHandleClosed
		} else {
			h.logger.Warn("Relay connection lost", "error", err)
		}

		h.mu.Lock()
		h.lostErr = err
		pending := h.pending
		h.pending = make(map[string]chan error)
		h.mu.Unlock()

		for _, ch := range pending {
			ch <- err
		}
		close(h.lost)
	})
}

// Locator implements replica.Handle.
func (h *Handle) Locator() replica.Locator {
	return h.locator
}

// WhenReady waits for the first snapshot of the relay.
func (h *Handle) WhenReady(ctx context.Context) error {
	if h.isClosed() {
		return replica.ErrHandleClosed
	}

	select {
	case <-h.ready:
		return nil
	case <-h.lost:
		return h.lostError()
	case <-h.closed:
		return replica.ErrHandleClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Text implements replica.Handle.
func (h *Handle) Text() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.text
}

// Change sends cs to the relay and waits until it is sequenced. Subscribers
// see the change when the relay echoes it back. A change that lost a race
// returns replica.ErrChangeRejected after the replica has been resynchronized.
func (h *Handle) Change(ctx context.Context, cs changes.ChangeSet) error {
	if err := h.usable(); err != nil {
		return err
	}
	if err := cs.Validate(); err != nil {
		return err
	}

	// Одно изменение в полете: следующее строится на подтвержденной версии
	h.changeMu.Lock()
	defer h.changeMu.Unlock()

	id := uuid.NewString()
	result := make(chan error, 1)

	h.mu.Lock()
	if n := utf8.RuneCountInString(h.text); cs.Length != n {
		h.mu.Unlock()
		return fmt.Errorf("%w: expected %d runes, got %d", changes.ErrLengthMismatch, n, cs.Length)
	}
	frame := api.Frame{Type: api.FrameChange, ID: id, Version: h.version, Change: &cs}
	h.pending[id] = result
	h.mu.Unlock()

	if err := h.enqueue(frame); err != nil {
		h.mu.Lock()
		delete(h.pending, id)
		h.mu.Unlock()
		return err
	}

	select {
	case err := <-result:
		return err
	case <-h.lost:
		return h.lostError()
	case <-h.closed:
		return replica.ErrHandleClosed
	case <-ctx.Done():
		h.mu.Lock()
		delete(h.pending, id)
		h.mu.Unlock()
		return ctx.Err()
	}
}

// OnChange implements replica.Handle.
func (h *Handle) OnChange(fn replica.ChangeFunc) replica.Unsubscribe {
	return h.changes.Add(fn)
}

// Broadcast queues an ephemeral frame. It never blocks: when the send
// buffer is full the message is dropped with an error.
func (h *Handle) Broadcast(payload []byte) error {
	if err := h.usable(); err != nil {
		return err
	}
	return h.enqueue(api.Frame{Type: api.FrameEphemeral, Payload: payload})
}

// OnEphemeral implements replica.Handle.
func (h *Handle) OnEphemeral(fn replica.EphemeralFunc) replica.Unsubscribe {
	return h.ephemeral.Add(fn)
}

// Close closes the websocket and drops every subscription bound to the handle.
func (h *Handle) Close() error {
	h.closeOnce.Do(func() {
		close(h.closed)
		h.cancel()
		h.changes.Close()
		h.ephemeral.Close()
	})
	return nil
}

func (h *Handle) enqueue(f api.Frame) error {
	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to marshal frame: %w", err)
	}

	select {
	case h.send <- data:
		return nil
	default:
		return errors.New("send buffer is full")
	}
}

func (h *Handle) usable() error {
	if h.isClosed() {
		return replica.ErrHandleClosed
	}
	select {
	case <-h.lost:
		return h.lostError()
	default:
	}
	select {
	case <-h.ready:
		return nil
	default:
		return replica.ErrNotReady
	}
}

func (h *Handle) lostError() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lostErr
}

func (h *Handle) isClosed() bool {
	select {
	case <-h.closed:
		return true
	default:
		return false
	}
}
