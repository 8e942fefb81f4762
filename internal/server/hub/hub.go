// Package hub fans pushed frames out to every live channel a user holds.
// Delivery is best effort: a slow consumer loses frames rather than
// stalling the hub.
package hub

import (
	"context"
	"sync"

	"eventhub/internal/metrics"
	"eventhub/internal/transport"
)

type Client struct {
	UserID string
	Ch     chan transport.Frame
}

type message struct {
	userID string
	frame  transport.Frame
}

type Hub struct {
	register   chan *Client
	unregister chan *Client
	broadcast  chan message
	users      map[string]map[*Client]struct{}
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan message, 64),
		users:      make(map[string]map[*Client]struct{}),
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

func (h *Hub) Broadcast(userID string, frame transport.Frame) {
	h.broadcast <- message{userID: userID, frame: frame}
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case msg := <-h.broadcast:
			h.broadcastToUser(msg)
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.users[client.UserID] == nil {
		h.users[client.UserID] = make(map[*Client]struct{})
	}
	h.users[client.UserID][client] = struct{}{}
	metrics.OpenChannels.Inc()
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients := h.users[client.UserID]
	if clients == nil {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	if len(clients) == 0 {
		delete(h.users, client.UserID)
	}
	metrics.OpenChannels.Dec()
}

func (h *Hub) broadcastToUser(msg message) {
	h.mu.RLock()
	clients := h.users[msg.userID]
	h.mu.RUnlock()
	for client := range clients {
		select {
		case client.Ch <- msg.frame:
			metrics.FramesPushed.WithLabelValues(msg.frame.Event).Inc()
		default:
			// Drop if the client is too slow.
			metrics.FramesDropped.Inc()
		}
	}
}
