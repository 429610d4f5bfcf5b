// Package server wires the relay HTTP routes.
package server

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/iudanet/txtpresence/internal/server/handlers"
	"github.com/iudanet/txtpresence/internal/server/middleware"
	"github.com/iudanet/txtpresence/internal/server/storage"
)

// Health check path, excluded from request logging
const healthPath = "/api/v1/health"

// RouterConfig holds the dependencies of the relay routes.
type RouterConfig struct {
	Logger  *slog.Logger
	Storage storage.DocumentStorage
	Relay   handlers.Relay
	Rooms   handlers.RoomCounter
	Limiter *middleware.RateLimiter
	Version string
}

// NewRouter builds the relay HTTP handler:
//
//	GET  /api/v1/health
//	POST /api/v1/documents             (rate limited per client IP)
//	GET  /api/v1/documents/{locator}
//	GET  /ws/{locator}?peer=<name>
func NewRouter(cfg RouterConfig) *mux.Router {
	health := handlers.NewHealthHandler(cfg.Logger, cfg.Rooms, cfg.Version)
	documents := handlers.NewDocumentHandler(cfg.Logger, cfg.Storage)
	ws := handlers.NewWSHandler(cfg.Logger, cfg.Storage, cfg.Relay)

	r := mux.NewRouter()
	r.Use(middleware.LoggingWithSkip(cfg.Logger, []string{healthPath}))
	r.Use(middleware.RecoveryMiddleware(cfg.Logger))

	r.HandleFunc(healthPath, health.Health).Methods(http.MethodGet)

	create := http.Handler(http.HandlerFunc(documents.Create))
	if cfg.Limiter != nil {
		create = middleware.RateLimitMiddleware(cfg.Limiter, cfg.Logger)(create)
	}
	r.Handle("/api/v1/documents", create).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/documents/{locator}", documents.Get).Methods(http.MethodGet)

	r.HandleFunc("/ws/{locator}", ws.Serve).Methods(http.MethodGet)

	return r
}
