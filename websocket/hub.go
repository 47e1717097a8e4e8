package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"
)

// Message is the envelope sent to connected clients
type Message struct {
	Type      string      `json:"type"`
	SenderID  uint        `json:"sender_id,omitempty"`
	Content   string      `json:"content,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

// Hub manages all WebSocket connections, one client slot per user
type Hub struct {
	Clients    map[uint]*Client
	Register   chan *Client
	Unregister chan *Client
	Broadcast  chan *Message

	mu sync.RWMutex
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[uint]*Client),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Broadcast:  make(chan *Message, 64),
	}
}

// Run processes register/unregister/broadcast events; call in a goroutine
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			if old, ok := h.Clients[client.UserID]; ok {
				close(old.Send)
			}
			h.Clients[client.UserID] = client
			h.mu.Unlock()
			log.Printf("🔌 User %d connected (%d online)", client.UserID, h.Online())

		case client := <-h.Unregister:
			h.mu.Lock()
			if current, ok := h.Clients[client.UserID]; ok && current == client {
				delete(h.Clients, client.UserID)
				close(client.Send)
			}
			h.mu.Unlock()
			log.Printf("🔌 User %d disconnected (%d online)", client.UserID, h.Online())

		case message := <-h.Broadcast:
			payload, err := json.Marshal(message)
			if err != nil {
				continue
			}
			h.mu.RLock()
			for _, client := range h.Clients {
				select {
				case client.Send <- payload:
				default:
					// Slow consumer; drop the frame rather than block the hub
				}
			}
			h.mu.RUnlock()
		}
	}
}

// SendToUser delivers a message to one connected user. Returns false when the
// user has no open socket.
func (h *Hub) SendToUser(userID uint, message *Message) bool {
	payload, err := json.Marshal(message)
	if err != nil {
		return false
	}

	h.mu.RLock()
	client, ok := h.Clients[userID]
	h.mu.RUnlock()
	if !ok {
		return false
	}

	select {
	case client.Send <- payload:
		return true
	default:
		return false
	}
}

// Online returns the number of connected users
func (h *Hub) Online() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.Clients)
}
