package api

import "github.com/iudanet/txtpresence/internal/changes"

// Типы фреймов websocket-соединения с документом
const (
	FrameSnapshot  = "snapshot"  // сервер -> клиент: текущий текст и версия
	FrameChange    = "change"    // клиент -> сервер: изменение; сервер -> клиенты: примененное изменение
	FrameReject    = "reject"    // сервер -> клиент: изменение отклонено, текст для пересинхронизации
	FrameEphemeral = "ephemeral" // эфемерное сообщение, сервер проставляет отправителя
	FrameError     = "error"     // сервер -> клиент: ошибка, соединение будет закрыто
)

// Frame is one message of the document websocket.
//
// A change sent by a client carries the version it was based on; the server
// applies it only when that version is current, bumps the version and
// broadcasts it to every connection of the document, the author included.
type Frame struct {
	Change  *changes.ChangeSet `json:"change,omitempty"`
	Type    string             `json:"type"`
	ID      string             `json:"id,omitempty"`     // идентификатор изменения, выбранный клиентом
	Text    string             `json:"text,omitempty"`   // snapshot и reject
	Sender  string             `json:"sender,omitempty"` // имя пира-автора
	Message string             `json:"message,omitempty"`
	Payload []byte             `json:"payload,omitempty"` // ephemeral
	Version int64              `json:"version"`
}
