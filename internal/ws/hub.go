// Package ws carries page sessions over WebSocket: the browser reports
// intersections, scroll offsets and menu toggles, the server pushes the
// resulting state changes.
package ws

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Zachkp/portfolio/internal/logger"
)

// Hub tracks the live connection of every page session. A session has at most
// one connection: registering a second one closes the first.
type Hub struct {
	mu         sync.RWMutex
	clients    map[uuid.UUID]*Client
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run serves registrations until ctx is done, then closes every connection.
func (h *Hub) Run(ctx context.Context) error {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return nil
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		}
	}
}

// Register adds a client. It does nothing once the hub has stopped.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		client.Close()
	}
}

// Unregister removes a client if it is still the session's connection.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Count returns the number of connected sessions.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Client returns the connection of a session.
func (h *Hub) Client(sessionID uuid.UUID) (*Client, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.clients[sessionID]
	return c, ok
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	prev := h.clients[client.sessionID]
	h.clients[client.sessionID] = client
	h.mu.Unlock()

	if prev != nil && prev != client {
		logger.Log.WithField("session_id", client.sessionID).Debug("Replacing page connection")
		prev.Close()
	}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[client.sessionID] == client {
		delete(h.clients, client.sessionID)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[uuid.UUID]*Client)
	h.mu.Unlock()

	for _, c := range clients {
		c.Close()
	}
	if len(clients) > 0 {
		logger.Log.WithFields(logrus.Fields{"closed": len(clients)}).Info("Closed page connections")
	}
}
