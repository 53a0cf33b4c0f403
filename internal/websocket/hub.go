// Package websocket pushes content events (new posts, new comments) to
// connected browsers so feeds update without polling.
package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event is the wire shape pushed to clients.
type Event struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

const (
	EventPostCreated    = "post.created"
	EventCommentCreated = "comment.created"
)

// Hub maintains the set of active clients and fans events out to all of them.
type Hub struct {
	// Registered clients. Maps user ID to a set of active client connections.
	Clients map[uuid.UUID]map[*Client]bool

	// Outbound events fanned out to every connection.
	Broadcast chan []byte

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		Broadcast:  make(chan []byte, 64),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Clients:    make(map[uuid.UUID]map[*Client]bool),
	}
}

// Run starts the hub's processing loop.
func (h *Hub) Run() {
	slog.Info("WebSocket hub started")
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			if _, ok := h.Clients[client.UserID]; !ok {
				h.Clients[client.UserID] = make(map[*Client]bool)
			}
			h.Clients[client.UserID][client] = true
			slog.Debug("websocket client registered", "userId", client.UserID, "connections", len(h.Clients[client.UserID]))
			h.mu.Unlock()

		case client := <-h.Unregister:
			h.mu.Lock()
			if userClients, ok := h.Clients[client.UserID]; ok {
				if _, clientOk := userClients[client]; clientOk {
					delete(userClients, client)
					if len(userClients) == 0 {
						delete(h.Clients, client.UserID)
					}
					slog.Debug("websocket client unregistered", "userId", client.UserID)
				}
			}
			h.mu.Unlock()

		case message := <-h.Broadcast:
			h.mu.RLock()
			for _, userClients := range h.Clients {
				for client := range userClients {
					select {
					case client.Send <- message:
					default:
						slog.Warn("broadcast buffer full, dropping event", "userId", client.UserID)
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

// PublishEvent serializes an event and queues it for broadcast. A slow or
// stalled hub never blocks the caller for more than a second.
func (h *Hub) PublishEvent(eventType string, payload interface{}) {
	event := Event{
		Type:      eventType,
		Payload:   payload,
		Timestamp: time.Now(),
	}
	data, err := json.Marshal(event)
	if err != nil {
		slog.Error("failed to marshal websocket event", "type", eventType, "error", err)
		return
	}
	select {
	case h.Broadcast <- data:
	case <-time.After(1 * time.Second):
		slog.Warn("timeout queuing websocket event, hub busy", "type", eventType)
	}
}
