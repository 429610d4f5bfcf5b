package presence

import (
	"errors"
	"log/slog"
	"time"

	"github.com/iudanet/txtpresence/internal/models"
)

// Sender is the ephemeral channel of one document.
type Sender interface {
	Broadcast(payload []byte) error
}

// Protocol encodes outbound presence messages and interprets inbound ones.
type Protocol struct {
	sender Sender
	logger *slog.Logger
	sent   int
}

// NewProtocol creates a protocol bound to one document channel.
func NewProtocol(sender Sender, logger *slog.Logger) *Protocol {
	return &Protocol{sender: sender, logger: logger}
}

// Announce broadcasts one range message per selection range and returns the
// number of messages sent. Send failures are logged and otherwise ignored.
func (p *Protocol) Announce(sel models.Selection) int {
	sent := 0
	for _, r := range sel.Ranges {
		if p.send(RangeMessageFrom(r)) {
			sent++
		}
	}
	return sent
}

// Hello asks every present peer to announce its selection.
func (p *Protocol) Hello() bool {
	return p.send(HelloMessage{})
}

func (p *Protocol) send(m Message) bool {
	data, err := Encode(m)
	if err != nil {
		p.logger.Error("Failed to encode presence message", "type", m.Type(), "error", err)
		return false
	}
	if err := p.sender.Broadcast(data); err != nil {
		p.logger.Debug("Failed to broadcast presence message", "type", m.Type(), "error", err)
		return false
	}
	p.sent++
	return true
}

// Sent returns the number of messages successfully handed to the channel.
func (p *Protocol) Sent() int {
	return p.sent
}

// Inbound describes what an inbound message did.
type Inbound int

const (
	InboundDropped   Inbound = iota // сообщение отброшено
	InboundRange                    // диапазон записан в реестр
	InboundHello                    // в ответ отправлено объявление
	InboundMalformed                // сообщение не разобрано
)

// Receive handles one ephemeral message from senderID. A range is stored in
// reg, a hello triggers an immediate announcement of sel. Unknown and
// malformed messages are dropped.
func (p *Protocol) Receive(senderID string, payload []byte, reg *Registry, now time.Time, sel models.Selection) Inbound {
	msg, err := Decode(payload)
	if err != nil {
		if errors.Is(err, ErrUnknownMessageType) {
			p.logger.Debug("Ignoring unknown presence message", "peer_id", senderID, "error", err)
			return InboundDropped
		}
		p.logger.Debug("Dropping malformed presence message", "peer_id", senderID, "error", err)
		return InboundMalformed
	}

	switch m := msg.(type) {
	case RangeMessage:
		reg.Upsert(senderID, m.Range(), now)
		return InboundRange
	case HelloMessage:
		p.Announce(sel)
		return InboundHello
	default:
		return InboundDropped
	}
}
