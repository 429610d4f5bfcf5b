package presence

import (
	"encoding/json"
	"fmt"

	"github.com/iudanet/txtpresence/internal/models"
)

// Типы сообщений эфемерного канала
const (
	TypeRange = "range"
	TypeHello = "hello"
)

// Message is the closed set of presence messages: RangeMessage and HelloMessage.
type Message interface {
	Type() string
	isMessage()
}

// RangeMessage announces one selection range of the sender.
type RangeMessage struct {
	From   int
	To     int
	Head   int
	Anchor int
}

// RangeMessageFrom converts a selection range into a message.
func RangeMessageFrom(r models.SelectionRange) RangeMessage {
	return RangeMessage{From: r.From, To: r.To, Head: r.Head, Anchor: r.Anchor}
}

// Type implements Message.
func (RangeMessage) Type() string { return TypeRange }

func (RangeMessage) isMessage() {}

// Range returns the announced selection range.
func (m RangeMessage) Range() models.SelectionRange {
	return models.SelectionRange{From: m.From, To: m.To, Head: m.Head, Anchor: m.Anchor}
}

// HelloMessage is sent once after subscribing to a document and asks every
// present peer to announce its selection immediately.
type HelloMessage struct{}

// Type implements Message.
func (HelloMessage) Type() string { return TypeHello }

func (HelloMessage) isMessage() {}

// wireMessage описывает JSON-представление сообщения.
// Указатели позволяют отличить отсутствующее поле от нуля.
type wireMessage struct {
	Type   string `json:"$type"`
	From   *int   `json:"from,omitempty"`
	To     *int   `json:"to,omitempty"`
	Head   *int   `json:"head,omitempty"`
	Anchor *int   `json:"anchor,omitempty"`
}

// Encode serializes a message into its wire form:
// {"$type":"range","from":..,"to":..,"head":..,"anchor":..} or {"$type":"hello"}.
func Encode(m Message) ([]byte, error) {
	switch msg := m.(type) {
	case RangeMessage:
		return json.Marshal(wireMessage{
			Type:   TypeRange,
			From:   &msg.From,
			To:     &msg.To,
			Head:   &msg.Head,
			Anchor: &msg.Anchor,
		})
	case HelloMessage:
		return json.Marshal(wireMessage{Type: TypeHello})
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownMessageType, m)
	}
}

// Decode parses a wire message. It returns ErrUnknownMessageType for a
// well-formed message of an unknown kind and ErrMalformedMessage for anything
// that does not fit one of the known shapes.
func Decode(data []byte) (Message, error) {
	var w wireMessage
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}

	switch w.Type {
	case "":
		return nil, fmt.Errorf("%w: missing $type", ErrMalformedMessage)
	case TypeHello:
		return HelloMessage{}, nil
	case TypeRange:
		return decodeRange(w)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMessageType, w.Type)
	}
}

func decodeRange(w wireMessage) (Message, error) {
	if w.From == nil || w.To == nil || w.Head == nil || w.Anchor == nil {
		return nil, fmt.Errorf("%w: range without offsets", ErrMalformedMessage)
	}

	m := RangeMessage{From: *w.From, To: *w.To, Head: *w.Head, Anchor: *w.Anchor}
	if m.From < 0 || m.To < 0 || m.Head < 0 || m.Anchor < 0 {
		return nil, fmt.Errorf("%w: negative offset", ErrMalformedMessage)
	}
	if m.From > m.To {
		return nil, fmt.Errorf("%w: from %d > to %d", ErrMalformedMessage, m.From, m.To)
	}

	return m, nil
}
