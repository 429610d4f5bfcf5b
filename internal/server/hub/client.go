package hub

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"github.com/iudanet/txtpresence/pkg/api"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1 << 20
	sendBuffer     = 256
)

// client is one websocket connection to a document room.
type client struct {
	conn *websocket.Conn
	send chan []byte
	peer string
}

// readPump передает фреймы клиента в комнату до разрыва соединения
func (c *client) readPump(r *room) {
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				r.logger.Debug("Connection closed unexpectedly", "peer_id", c.peer, "error", err)
			}
			return
		}

		var f api.Frame
		if err := json.Unmarshal(data, &f); err != nil {
			r.logger.Debug("Dropping malformed frame", "peer_id", c.peer, "error", err)
			continue
		}

		select {
		case r.inbound <- inbound{client: c, frame: f}:
		case <-r.done:
			return
		}
	}
}

// writePump отправляет фреймы из send и пингует соединение
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
