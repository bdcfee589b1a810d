package websocket

import (
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
)

const ( // ping pong (2-way heartbeat) to keep connection alive
	WriteWait      = 10 * time.Second    // max time to write a message to the peer
	PongWait       = 60 * time.Second    // no pong within this window = dead connection
	PingPeriod     = (PongWait * 9) / 10 // ping before the pong window expires
	MaxMessageSize = 512                 // maximum message size allowed from peer
)

// Client is one browser connection streaming feed events for one user.
type Client struct {
	UserID string
	Conn   *websocket.Conn
	Send   chan []byte
	logger *slog.Logger
}

func NewClient(userID string, conn *websocket.Conn, logger *slog.Logger) *Client {
	return &Client{
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, 8),
		logger: logger,
	}
}

// ReadPump drains inbound frames to keep pong handling alive. The stream is
// one-way; client frames are discarded. Returns when the peer goes away.
func (c *Client) ReadPump() {
	defer c.Conn.Close()

	c.Conn.SetReadLimit(MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(PongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(PongWait))
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("websocket read error", "user_id", c.UserID, "error", err)
			}
			return
		}
	}
}

// WritePump sends queued events and heartbeats until Send closes or a write
// fails.
func (c *Client) WritePump() {
	ticker := time.NewTicker(PingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(WriteWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(WriteWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
