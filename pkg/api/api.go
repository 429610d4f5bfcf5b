package api

import "time"

// CreateDocumentRequest представляет запрос на создание документа
type CreateDocumentRequest struct {
	Text string `json:"text"` // начальный текст документа
}

// DocumentResponse представляет документ в ответах сервера
type DocumentResponse struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Locator   string    `json:"locator"` // канонический локатор txt:<uuid>
	Text      string    `json:"text"`
	Version   int64     `json:"version"` // число примененных изменений
}

// HealthResponse представляет ответ health check
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Rooms   int    `json:"rooms"` // документы с подключенными пирами
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`             // описание ошибки
	Message string `json:"message,omitempty"` // дополнительное сообщение
}
