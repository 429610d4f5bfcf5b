package handlers

import (
	"log/slog"
	"net/http"

	"github.com/iudanet/txtpresence/pkg/api"
)

// RoomCounter reports the number of documents with connected peers
type RoomCounter interface {
	Rooms() int
}

// HealthHandler обрабатывает health check запросы
type HealthHandler struct {
	logger  *slog.Logger
	rooms   RoomCounter
	version string
}

// NewHealthHandler создает новый handler для health check
func NewHealthHandler(logger *slog.Logger, rooms RoomCounter, version string) *HealthHandler {
	return &HealthHandler{
		logger:  logger,
		rooms:   rooms,
		version: version,
	}
}

// Health обрабатывает GET /api/v1/health
// Health check endpoint для мониторинга
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := api.HealthResponse{
		Status:  "ok",
		Version: h.version,
		Rooms:   h.rooms.Rooms(),
	}

	sendJSON(w, h.logger, resp, http.StatusOK)
}
