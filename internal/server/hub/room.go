package hub

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"unicode/utf8"

	"github.com/iudanet/txtpresence/internal/models"
	"github.com/iudanet/txtpresence/internal/server/storage"
	"github.com/iudanet/txtpresence/pkg/api"
)

type inbound struct {
	client *client
	frame  api.Frame
}

// envelope is a frame travelling between relay instances.
type envelope struct {
	Origin string    `json:"origin"`
	Frame  api.Frame `json:"frame"`
}

// room sequences the changes of one document and relays its ephemeral
// frames. All room state is owned by the run goroutine.
type room struct {
	hub        *Hub
	logger     *slog.Logger
	clients    map[*client]struct{}
	register   chan *client
	unregister chan *client
	inbound    chan inbound
	remote     chan envelope
	done       chan struct{}
	cancel     context.CancelFunc
	stopBus    func()
	stopOnce   sync.Once
	locator    string
	text       string
	version    int64
	refs       int // под защитой hub.mu
}

func newRoom(h *Hub, doc *models.Document) *room {
	return &room{
		hub:        h,
		logger:     h.logger.With("locator", doc.Locator),
		clients:    make(map[*client]struct{}),
		register:   make(chan *client),
		unregister: make(chan *client),
		inbound:    make(chan inbound),
		remote:     make(chan envelope, sendBuffer),
		done:       make(chan struct{}),
		locator:    doc.Locator,
		text:       doc.Text,
		version:    doc.Version,
	}
}

func (r *room) run(ctx context.Context) {
	defer func() {
		for c := range r.clients {
			close(c.send)
		}
		close(r.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case c := <-r.register:
			r.clients[c] = struct{}{}
			r.logger.Info("Peer joined", "peer_id", c.peer, "peers", len(r.clients))
			r.sendTo(c, r.snapshot())
		case c := <-r.unregister:
			if _, ok := r.clients[c]; ok {
				delete(r.clients, c)
				close(c.send)
				r.logger.Info("Peer left", "peer_id", c.peer, "peers", len(r.clients))
			}
		case in := <-r.inbound:
			if _, ok := r.clients[in.client]; !ok {
				continue
			}
			switch in.frame.Type {
			case api.FrameChange:
				r.handleChange(ctx, in.client, in.frame)
			case api.FrameEphemeral:
				r.handleEphemeral(ctx, in.client, in.frame)
			default:
				r.logger.Debug("Ignoring frame", "peer_id", in.client.peer, "type", in.frame.Type)
			}
		case env := <-r.remote:
			r.handleRemote(ctx, env)
		}
	}
}

func (r *room) snapshot() api.Frame {
	return api.Frame{Type: api.FrameSnapshot, Text: r.text, Version: r.version}
}

// handleChange применяет изменение, если оно основано на текущей версии
func (r *room) handleChange(ctx context.Context, c *client, f api.Frame) {
	reject := func(reason string) {
		r.logger.Debug("Rejecting change", "peer_id", c.peer, "change_id", f.ID, "reason", reason)
		r.sendTo(c, api.Frame{Type: api.FrameReject, ID: f.ID, Text: r.text, Version: r.version, Message: reason})
	}

	if f.Change == nil {
		reject("missing change")
		return
	}
	if err := f.Change.Validate(); err != nil {
		reject(err.Error())
		return
	}
	if f.Version != r.version || f.Change.Length != utf8.RuneCountInString(r.text) {
		reject("stale base version")
		return
	}

	text, err := f.Change.Apply(r.text)
	if err != nil {
		reject(err.Error())
		return
	}

	doc := &models.Document{
		Locator:   r.locator,
		Text:      text,
		Version:   r.version + 1,
		UpdatedAt: r.hub.now(),
	}
	if err := r.hub.store.UpdateDocument(ctx, doc); err != nil {
		if errors.Is(err, storage.ErrStaleVersion) {
			// Другой экземпляр сервера успел продвинуть документ
			r.reload(ctx)
			reject("stale base version")
			return
		}
		r.logger.Error("Failed to persist document", "error", err)
		reject("failed to persist change")
		return
	}

	r.text, r.version = text, doc.Version
	out := api.Frame{
		Type:    api.FrameChange,
		ID:      f.ID,
		Change:  f.Change,
		Sender:  c.peer,
		Version: r.version,
	}
	r.broadcast(out, nil)
	r.publish(ctx, out)
}

// handleEphemeral пересылает сообщение остальным пирам, подставляя отправителя
func (r *room) handleEphemeral(ctx context.Context, c *client, f api.Frame) {
	out := api.Frame{
		Type:    api.FrameEphemeral,
		Sender:  c.peer,
		Payload: f.Payload,
		Version: r.version,
	}
	r.broadcast(out, c)
	r.publish(ctx, out)
}

func (r *room) handleRemote(ctx context.Context, env envelope) {
	f := env.Frame
	switch f.Type {
	case api.FrameEphemeral:
		r.broadcast(f, nil)
	case api.FrameChange:
		if f.Version <= r.version {
			return
		}
		if f.Version == r.version+1 && f.Change != nil && f.Change.Length == utf8.RuneCountInString(r.text) {
			if text, err := f.Change.Apply(r.text); err == nil {
				r.text, r.version = text, f.Version
				r.broadcast(f, nil)
				return
			}
		}
		// Пропустили изменения: берем актуальное состояние из хранилища
		r.reload(ctx)
	}
}

// reload перечитывает документ и рассылает всем пирам новый snapshot
func (r *room) reload(ctx context.Context) {
	doc, err := r.hub.store.GetDocument(ctx, r.locator)
	if err != nil {
		r.logger.Error("Failed to reload document", "error", err)
		return
	}
	if doc.Version <= r.version {
		return
	}

	r.logger.Info("Document resynchronized", "from_version", r.version, "to_version", doc.Version)
	r.text, r.version = doc.Text, doc.Version
	r.broadcast(r.snapshot(), nil)
}

func (r *room) publish(ctx context.Context, f api.Frame) {
	if r.hub.bus == nil {
		return
	}
	data, err := json.Marshal(envelope{Origin: r.hub.instance, Frame: f})
	if err != nil {
		r.logger.Error("Failed to marshal envelope", "error", err)
		return
	}
	if err := r.hub.bus.Publish(ctx, r.locator, data); err != nil {
		r.logger.Warn("Failed to publish frame", "type", f.Type, "error", err)
	}
}

func (r *room) broadcast(f api.Frame, except *client) {
	data, err := json.Marshal(f)
	if err != nil {
		r.logger.Error("Failed to marshal frame", "type", f.Type, "error", err)
		return
	}
	for c := range r.clients {
		if c != except {
			r.deliver(c, data)
		}
	}
}

func (r *room) sendTo(c *client, f api.Frame) {
	data, err := json.Marshal(f)
	if err != nil {
		r.logger.Error("Failed to marshal frame", "type", f.Type, "error", err)
		return
	}
	r.deliver(c, data)
}

// deliver не блокирует комнату: медленный клиент отключается
func (r *room) deliver(c *client, data []byte) {
	select {
	case c.send <- data:
	default:
		r.logger.Warn("Dropping slow peer", "peer_id", c.peer)
		delete(r.clients, c)
		close(c.send)
	}
}
