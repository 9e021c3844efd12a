package chat

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// Time allowed to write an event to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong from the peer
	pongWait = 60 * time.Second

	// Ping period; must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum inbound message size in bytes
	maxMessageSize = 4096

	// Per-client outbound event buffer
	sendBufferSize = 32
)

// Client is one websocket connection attached to the hub.
type Client struct {
	id      uuid.UUID
	name    string
	hub     *Hub
	gateway *Gateway
	conn    *websocket.Conn
	send    chan Event
	logger  *zap.Logger
}

// NewClient wraps an upgraded websocket connection. The display name comes
// from the connecting user's authenticated identity.
func NewClient(hub *Hub, gateway *Gateway, conn *websocket.Conn, name string, logger *zap.Logger) *Client {
	return &Client{
		id:      uuid.New(),
		name:    name,
		hub:     hub,
		gateway: gateway,
		conn:    conn,
		send:    make(chan Event, sendBufferSize),
		logger:  logger,
	}
}

// Start registers the client with the hub and starts its read and write
// pumps. It returns immediately; the pumps own the connection from here.
func (c *Client) Start(ctx context.Context) {
	c.hub.register <- c
	go c.writePump()
	go c.readPump(ctx)
}

// readPump reads inbound messages and feeds them through the moderated
// message pipeline. It unregisters the client when the connection drops.
func (c *Client) readPump(ctx context.Context) {
	defer func() {
		c.hub.unregister <- c
		if err := c.conn.Close(); err != nil {
			c.logger.Debug("failed to close connection", zap.Error(err))
		}
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("unexpected websocket close",
					zap.String("client_id", c.id.String()),
					zap.Error(err),
				)
			}
			return
		}

		var inbound Inbound
		if err := json.Unmarshal(raw, &inbound); err != nil {
			c.logger.Warn("failed to unmarshal inbound message",
				zap.String("client_id", c.id.String()),
				zap.Error(err),
			)
			continue
		}

		c.gateway.HandleMessage(ctx, inbound.User, inbound.Message)
	}
}

// writePump writes queued events to the connection and keeps it alive with
// periodic pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := c.conn.Close(); err != nil {
			c.logger.Debug("failed to close connection", zap.Error(err))
		}
	}()

	for {
		select {
		case event, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(event); err != nil {
				c.logger.Warn("failed to write event",
					zap.String("client_id", c.id.String()),
					zap.Error(err),
				)
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
