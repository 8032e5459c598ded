package websocket

import (
	"encoding/json"
	"log"
	"sync"
)

// Hub maintains the set of connected UI clients and fans state-change
// events out to them
type Hub struct {
	clients map[*Client]bool

	// Register requests
	register chan *Client

	// Unregister requests
	unregister chan *Client

	// Outbound event payloads
	broadcast chan []byte

	mu sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			log.Printf("📱 Interface conectada (%d ativas)", h.count())

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Buffer full or client dead; drop the event
				}
			}
			h.mu.RUnlock()
		}
	}
}

// BroadcastEvent tells every connected UI which slice of state changed.
// Clients re-read the facade; events carry no payload.
func (h *Hub) BroadcastEvent(scope string) {
	msg, err := json.Marshal(map[string]string{
		"type":  "STATE_CHANGED",
		"scope": scope,
	})
	if err != nil {
		log.Printf("Error marshaling event: %v", err)
		return
	}

	select {
	case h.broadcast <- msg:
	default:
		// Hub backlogged; the UI will catch up on its next poll
	}
}

// count returns the number of connected clients
func (h *Hub) count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
