package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/iudanet/txtpresence/internal/models"
	"github.com/iudanet/txtpresence/internal/replica"
	"github.com/iudanet/txtpresence/internal/server/storage"
	"github.com/iudanet/txtpresence/pkg/api"
)

// MaxDocumentSize ограничивает размер тела запроса на создание документа
const MaxDocumentSize = 1 << 20

// DocumentHandler обрабатывает создание и чтение документов
type DocumentHandler struct {
	logger  *slog.Logger
	storage storage.DocumentStorage
	now     func() time.Time
}

// NewDocumentHandler создает новый handler документов
func NewDocumentHandler(logger *slog.Logger, documentStorage storage.DocumentStorage) *DocumentHandler {
	return &DocumentHandler{
		logger:  logger,
		storage: documentStorage,
		now:     time.Now,
	}
}

// Create обрабатывает POST /api/v1/documents
// Создает документ со свежим каноническим локатором
func (h *DocumentHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.CreateDocumentRequest
	body := http.MaxBytesReader(w, r.Body, MaxDocumentSize)
	// Пустое тело означает пустой документ
	if err := json.NewDecoder(body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.WarnContext(ctx, "failed to decode create document request", slog.Any("error", err))
		sendError(w, h.logger, "invalid request body", http.StatusBadRequest)
		return
	}

	now := h.now()
	doc := &models.Document{
		Locator:   replica.NewLocator().String(),
		Text:      req.Text,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.storage.CreateDocument(ctx, doc); err != nil {
		h.logger.ErrorContext(ctx, "failed to create document", slog.Any("error", err))
		sendError(w, h.logger, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "document created", slog.String("locator", doc.Locator))
	sendJSON(w, h.logger, toResponse(doc), http.StatusCreated)
}

// Get обрабатывает GET /api/v1/documents/{locator}
func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	locator := mux.Vars(r)["locator"]
	if !replica.IsValidLocator(locator) {
		sendError(w, h.logger, "invalid locator", http.StatusBadRequest)
		return
	}

	doc, err := h.storage.GetDocument(ctx, locator)
	if err != nil {
		if errors.Is(err, storage.ErrDocumentNotFound) {
			sendError(w, h.logger, "document not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get document", slog.String("locator", locator), slog.Any("error", err))
		sendError(w, h.logger, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(w, h.logger, toResponse(doc), http.StatusOK)
}

func toResponse(doc *models.Document) api.DocumentResponse {
	return api.DocumentResponse{
		Locator:   doc.Locator,
		Text:      doc.Text,
		Version:   doc.Version,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
}
