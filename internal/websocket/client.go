// internal/websocket/client.go
package websocket

import (
	"sync"
	"time"

	"khidma-service/internal/domain/realtime"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

type Client struct {
	hub  *Hub
	conn *websocket.Conn

	identityID int64
	sessionID  string

	send      chan *realtime.Event
	closeOnce sync.Once
}

func NewClient(hub *Hub, conn *websocket.Conn, identityID int64, sessionID string) *Client {
	return &Client{
		hub:        hub,
		conn:       conn,
		identityID: identityID,
		sessionID:  sessionID,
		send:       make(chan *realtime.Event, 64),
	}
}

// Start registers the client and launches its pumps.
func (c *Client) Start() {
	select {
	case c.hub.register <- c:
	case <-c.hub.done:
		c.close()
		return
	}
	go c.writePump()
	go c.readPump()
}

// deregister hands the client back to the hub. If the hub has already shut
// down, nobody is draining the channel, so fall through and close directly.
func (c *Client) deregister() {
	select {
	case c.hub.unregister <- c:
	case <-c.hub.done:
		c.close()
	}
}

func (c *Client) enqueue(ev *realtime.Event) {
	select {
	case c.send <- ev:
	default:
		// Slow consumer: drop rather than stall the hub
		c.hub.logger.Warn("dropping event for slow admin feed client",
			zap.Int64("identity_id", c.identityID),
		)
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.send)
		c.conn.Close()
	})
}

// readPump discards inbound frames; the feed is push-only. Its job is to
// notice disconnects and keep the pong deadline fresh.
func (c *Client) readPump() {
	defer c.deregister()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(ev); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
