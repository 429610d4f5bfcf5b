package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/iudanet/txtpresence/internal/replica"
	"github.com/iudanet/txtpresence/internal/server/storage"
	"github.com/iudanet/txtpresence/internal/validation"
)

// Relay attaches a websocket connection to the room of a document
type Relay interface {
	Serve(ctx context.Context, conn *websocket.Conn, locator, peer string) error
}

// WSHandler открывает websocket-соединение с документом
type WSHandler struct {
	logger   *slog.Logger
	storage  storage.DocumentStorage
	relay    Relay
	upgrader websocket.Upgrader
}

// NewWSHandler создает handler websocket-соединений
func NewWSHandler(logger *slog.Logger, documentStorage storage.DocumentStorage, relay Relay) *WSHandler {
	return &WSHandler{
		logger:  logger,
		storage: documentStorage,
		relay:   relay,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
	}
}

// Serve обрабатывает GET /ws/{locator}?peer=<name>
func (h *WSHandler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	locator := mux.Vars(r)["locator"]
	if !replica.IsValidLocator(locator) {
		sendError(w, h.logger, "invalid locator", http.StatusBadRequest)
		return
	}

	peer := r.URL.Query().Get("peer")
	if err := validation.ValidatePeerName(peer); err != nil {
		sendError(w, h.logger, err.Error(), http.StatusBadRequest)
		return
	}

	// Проверяем документ до upgrade, чтобы ответить обычным HTTP статусом
	if _, err := h.storage.GetDocument(ctx, locator); err != nil {
		if errors.Is(err, storage.ErrDocumentNotFound) {
			sendError(w, h.logger, "document not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get document", slog.String("locator", locator), slog.Any("error", err))
		sendError(w, h.logger, "internal server error", http.StatusInternalServerError)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrader уже ответил клиенту
		h.logger.WarnContext(ctx, "websocket upgrade failed", slog.Any("error", err))
		return
	}

	h.logger.InfoContext(ctx, "peer connected", slog.String("locator", locator), slog.String("peer_id", peer))
	if err := h.relay.Serve(ctx, conn, locator, peer); err != nil {
		h.logger.WarnContext(ctx, "relay connection failed", slog.String("locator", locator), slog.String("peer_id", peer), slog.Any("error", err))
		return
	}
	h.logger.InfoContext(ctx, "peer disconnected", slog.String("locator", locator), slog.String("peer_id", peer))
}
