package sse

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/cuentix/inventory_api/internal/notify"
)

// Client represents one connected console tab.
type Client struct {
	ID     string
	UserID string
	Events chan []byte
}

// Hub manages SSE connections and delivers notification events to the
// connections of a single user. One user may have several tabs open; each
// gets its own copy.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

// NewHub creates a new SSE hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
	}
}

// Register adds a new connection for a user and returns it for streaming.
func (h *Hub) Register(clientID, userID string) *Client {
	h.mu.Lock()
	defer h.mu.Unlock()

	c := &Client{
		ID:     clientID,
		UserID: userID,
		Events: make(chan []byte, 64),
	}
	h.clients[clientID] = c
	log.Info().Str("client_id", clientID).Int("total_clients", len(h.clients)).Msg("SSE client connected")
	return c
}

// Unregister removes a connection and closes its channel.
func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c, ok := h.clients[clientID]; ok {
		close(c.Events)
		delete(h.clients, clientID)
		log.Info().Str("client_id", clientID).Int("total_clients", len(h.clients)).Msg("SSE client disconnected")
	}
}

// SendToUser delivers a notification event to every connection of the user.
// Non-blocking: drops the message if a connection's buffer is full.
func (h *Hub) SendToUser(userID string, event notify.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal SSE event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, c := range h.clients {
		if c.UserID != userID {
			continue
		}
		select {
		case c.Events <- data:
		default:
			log.Warn().Str("client_id", c.ID).Msg("SSE client buffer full, dropping event")
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
