package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/iudanet/txtpresence/pkg/api"
)

// sendJSON отправляет JSON ответ
func sendJSON(w http.ResponseWriter, logger *slog.Logger, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// sendError отправляет JSON ответ с ошибкой
func sendError(w http.ResponseWriter, logger *slog.Logger, message string, statusCode int) {
	resp := api.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	}
	sendJSON(w, logger, resp, statusCode)
}
