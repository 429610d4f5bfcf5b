package models

import "time"

// Document представляет сохраненный на relay-сервере документ.
type Document struct {
	CreatedAt time.Time `json:"created_at"` // CreatedAt время создания документа
	UpdatedAt time.Time `json:"updated_at"` // UpdatedAt время последнего изменения текста
	Locator   string    `json:"locator"`    // Locator канонический локатор документа (txt:<uuid>)
	Text      string    `json:"text"`       // Text текущий текст
	Version   int64     `json:"version"`    // Version число примененных изменений
}
