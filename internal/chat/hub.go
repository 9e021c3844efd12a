// Package chat implements the real-time chat hub: websocket connection
// management, fan-out delivery, and the moderated message pipeline.
package chat

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Hub maintains the set of connected clients and fans events out to them.
// All client-set mutation happens on the run loop goroutine; other
// goroutines communicate with it through channels.
type Hub struct {
	clients    map[uuid.UUID]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan Event
	logger     *zap.Logger
}

// NewHub creates a new chat hub
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Event, 64),
		logger:     logger,
	}
}

// Run processes register, unregister, and broadcast requests until the
// context is cancelled. It must be running before clients are attached.
func (h *Hub) Run(ctx context.Context) {
	h.logger.Info("chat hub started")

	for {
		select {
		case <-ctx.Done():
			h.logger.Info("chat hub stopping", zap.Int("connected_clients", len(h.clients)))
			for _, client := range h.clients {
				close(client.send)
			}
			h.clients = make(map[uuid.UUID]*Client)
			return

		case client := <-h.register:
			h.clients[client.id] = client
			h.logger.Info("client connected",
				zap.String("client_id", client.id.String()),
				zap.String("name", client.name),
				zap.Int("connected_clients", len(h.clients)),
			)
			// Join announcement goes to everyone, the new client included.
			h.deliver(Event{Author: "", Text: fmt.Sprintf(joinAnnouncementFormat, client.name)})

		case client := <-h.unregister:
			if _, ok := h.clients[client.id]; !ok {
				continue
			}
			delete(h.clients, client.id)
			close(client.send)
			h.logger.Info("client disconnected",
				zap.String("client_id", client.id.String()),
				zap.String("name", client.name),
				zap.Int("connected_clients", len(h.clients)),
			)
			h.deliver(Event{Author: "", Text: fmt.Sprintf(leaveAnnouncementFormat, client.name)})

		case event := <-h.broadcast:
			h.deliver(event)
		}
	}
}

// Broadcast queues an event for delivery to all connected clients
func (h *Hub) Broadcast(event Event) {
	h.broadcast <- event
}

// deliver fans an event out to every connected client. Sends are
// non-blocking: a client whose buffer is full misses the event rather than
// stalling the room.
func (h *Hub) deliver(event Event) {
	h.logger.Debug("broadcasting event",
		zap.String("author", event.Author),
		zap.Int("recipient_count", len(h.clients)),
	)

	for id, client := range h.clients {
		select {
		case client.send <- event:
		default:
			h.logger.Warn("client send buffer full, dropping event",
				zap.String("client_id", id.String()),
			)
		}
	}
}
