// Package hub implements the relay rooms: one room per open document that
// sequences changes, persists the text and relays ephemeral frames between
// the connected peers.
package hub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/iudanet/txtpresence/internal/server/storage"
)

// ErrRoomClosed indicates that the room stopped before the connection joined
var ErrRoomClosed = errors.New("room is closed")

// Hub owns the rooms of all open documents.
type Hub struct {
	store    storage.DocumentStorage
	bus      Bus
	logger   *slog.Logger
	rooms    map[string]*room
	now      func() time.Time
	instance string
	mu       sync.Mutex
}

// New creates a hub. bus may be nil for a single instance deployment.
func New(store storage.DocumentStorage, bus Bus, logger *slog.Logger) *Hub {
	return &Hub{
		store:    store,
		bus:      bus,
		logger:   logger,
		rooms:    make(map[string]*room),
		now:      time.Now,
		instance: uuid.NewString(),
	}
}

// Serve attaches conn to the room of locator as peer and blocks until the
// connection is closed. The document must exist.
func (h *Hub) Serve(ctx context.Context, conn *websocket.Conn, locator, peer string) error {
	r, err := h.join(ctx, locator)
	if err != nil {
		_ = conn.Close()
		return err
	}
	defer h.leave(r)

	c := &client{
		conn: conn,
		send: make(chan []byte, sendBuffer),
		peer: peer,
	}

	select {
	case r.register <- c:
	case <-r.done:
		_ = conn.Close()
		return ErrRoomClosed
	}

	go c.writePump()
	c.readPump(r)

	select {
	case r.unregister <- c:
	case <-r.done:
	}
	return nil
}

func (h *Hub) join(ctx context.Context, locator string) (*room, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if r, ok := h.rooms[locator]; ok {
		r.refs++
		return r, nil
	}

	doc, err := h.store.GetDocument(ctx, locator)
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}

	// Комната живет дольше запроса, который ее открыл
	roomCtx, cancel := context.WithCancel(context.Background())
	r := newRoom(h, doc)
	r.cancel = cancel
	r.refs = 1

	if h.bus != nil {
		stop, err := h.bus.Subscribe(roomCtx, locator, func(msg []byte) {
			var env envelope
			if err := json.Unmarshal(msg, &env); err != nil {
				r.logger.Debug("Dropping malformed bus message", "error", err)
				return
			}
			if env.Origin == h.instance {
				return
			}
			select {
			case r.remote <- env:
			case <-r.done:
			}
		})
		if err != nil {
			cancel()
			return nil, err
		}
		r.stopBus = stop
	}

	go r.run(roomCtx)
	h.rooms[locator] = r
	h.logger.Debug("Room opened", "locator", locator)
	return r, nil
}

func (h *Hub) leave(r *room) {
	h.mu.Lock()
	defer h.mu.Unlock()

	r.refs--
	if r.refs > 0 {
		return
	}
	if h.rooms[r.locator] == r {
		delete(h.rooms, r.locator)
	}
	r.stop()
	h.logger.Debug("Room closed", "locator", r.locator)
}

func (r *room) stop() {
	r.stopOnce.Do(func() {
		if r.stopBus != nil {
			r.stopBus()
		}
		r.cancel()
	})
	<-r.done
}

// Rooms returns the number of open rooms.
func (h *Hub) Rooms() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms)
}

// Close stops every room and disconnects all peers.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for locator, r := range h.rooms {
		r.stop()
		delete(h.rooms, locator)
	}
}
